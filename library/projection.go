package library

import (
	"time"

	es "github.com/genesisdb/eventsourcing-demo"
)

// Book statuses.
const (
	StatusAvailable = "available"
	StatusBorrowed  = "borrowed"
	StatusReserved  = "reserved"
)

// Book is one title with its folded lending state.
type Book struct {
	BookID     string  `json:"bookId"`
	ISBN       *string `json:"isbn"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Category   *string `json:"category"`
	Status     string  `json:"status"`
	BorrowedBy *string `json:"borrowedBy,omitempty"`
	BorrowedAt *string `json:"borrowedAt,omitempty"`
	DueDate    *string `json:"dueDate,omitempty"`
	ReservedBy *string `json:"reservedBy,omitempty"`
	ReservedAt *string `json:"reservedAt,omitempty"`
	AddedAt    string  `json:"addedAt"`
}

// Member is one registered borrower. CurrentLoans holds the ids of the
// books the member has out right now; LoanHistory collects the member's
// completed borrow/return cycles.
type Member struct {
	MemberID     string   `json:"memberId"`
	Name         string   `json:"name"`
	Email        *string  `json:"email"`
	CurrentLoans []string `json:"currentLoans"`
	LoanHistory  []Loan   `json:"loanHistory"`
	RegisteredAt string   `json:"registeredAt"`
}

// Loan is one completed borrow/return cycle kept on the member.
type Loan struct {
	BookID     string `json:"bookId"`
	MemberID   string `json:"memberId"`
	BorrowedAt string `json:"borrowedAt"`
	DueDate    string `json:"dueDate"`
	ReturnedAt string `json:"returnedAt"`
}

// State is the library snapshot folded from its stream.
type State struct {
	LibraryID      string   `json:"libraryId"`
	Name           string   `json:"name"`
	Address        *string  `json:"address"`
	Books          []Book   `json:"books"`
	Members        []Member `json:"members"`
	TotalBooks     int      `json:"totalBooks"`
	AvailableBooks int      `json:"availableBooks"`
	TotalMembers   int      `json:"totalMembers"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

func (s *State) book(bookID string) *Book {
	for i := range s.Books {
		if s.Books[i].BookID == bookID {
			return &s.Books[i]
		}
	}
	return nil
}

func (s *State) member(memberID string) *Member {
	for i := range s.Members {
		if s.Members[i].MemberID == memberID {
			return &s.Members[i]
		}
	}
	return nil
}

// OverdueBooks returns the borrowed books whose due date lies before now.
// Due dates that fail to parse are never reported overdue.
func (s *State) OverdueBooks(now time.Time) []Book {
	out := []Book{}
	for _, b := range s.Books {
		if b.Status != StatusBorrowed || b.DueDate == nil {
			continue
		}
		due, err := time.Parse(time.RFC3339, *b.DueDate)
		if err != nil {
			continue
		}
		if due.Before(now) {
			out = append(out, b)
		}
	}
	return out
}

// MemberLoans returns the books a member currently has out.
func (s *State) MemberLoans(memberID string) []Book {
	m := s.member(memberID)
	if m == nil {
		return nil
	}
	out := []Book{}
	for _, id := range m.CurrentLoans {
		if b := s.book(id); b != nil {
			out = append(out, *b)
		}
	}
	return out
}

func removeLoan(loans []string, bookID string) []string {
	for i, id := range loans {
		if id == bookID {
			return append(loans[:i], loans[i+1:]...)
		}
	}
	return loans
}

// Projection folds /library/{libraryId} streams. Book and member state
// move independently: a borrow updates whichever side exists, a later
// reservation replaces a pending one, and a return hands the book to a
// pending reservation before making it available again.
var Projection = es.NewProjection(
	Domain, EventLibraryCreated, "libraryId",
	func(id string) State {
		return State{LibraryID: id, Books: []Book{}, Members: []Member{}}
	},
	func(s *State) {
		s.TotalBooks = len(s.Books)
		s.TotalMembers = len(s.Members)
		s.AvailableBooks = 0
		for _, b := range s.Books {
			if b.Status == StatusAvailable {
				s.AvailableBooks++
			}
		}
	},
	es.On(EventLibraryCreated, func(s *State, e LibraryCreated, _ *es.Envelope) {
		s.Name = e.Name
		s.Address = e.Address
		s.CreatedAt = e.CreatedAt
		s.UpdatedAt = e.CreatedAt
	}),
	es.On(EventBookAdded, func(s *State, e BookAdded, _ *es.Envelope) {
		if s.book(e.BookID) != nil {
			return
		}
		s.Books = append(s.Books, Book{
			BookID:   e.BookID,
			ISBN:     e.ISBN,
			Title:    e.Title,
			Author:   e.Author,
			Category: e.Category,
			Status:   StatusAvailable,
			AddedAt:  e.AddedAt,
		})
		s.UpdatedAt = e.AddedAt
	}),
	es.On(EventMemberRegistered, func(s *State, e MemberRegistered, _ *es.Envelope) {
		if s.member(e.MemberID) != nil {
			return
		}
		s.Members = append(s.Members, Member{
			MemberID:     e.MemberID,
			Name:         e.Name,
			Email:        e.Email,
			CurrentLoans: []string{},
			LoanHistory:  []Loan{},
			RegisteredAt: e.RegisteredAt,
		})
		s.UpdatedAt = e.RegisteredAt
	}),
	es.On(EventBookBorrowed, func(s *State, e BookBorrowed, _ *es.Envelope) {
		// Book and member update independently; a borrow of an already
		// borrowed book simply takes it over.
		if b := s.book(e.BookID); b != nil {
			member := e.MemberID
			due := e.DueDate
			at := e.BorrowedAt
			b.Status = StatusBorrowed
			b.BorrowedBy = &member
			b.BorrowedAt = &at
			b.DueDate = &due
			b.ReservedBy = nil
			b.ReservedAt = nil
		}
		if m := s.member(e.MemberID); m != nil {
			m.CurrentLoans = append(m.CurrentLoans, e.BookID)
		}
		s.UpdatedAt = e.BorrowedAt
	}),
	es.On(EventBookReturned, func(s *State, e BookReturned, _ *es.Envelope) {
		b := s.book(e.BookID)
		m := s.member(e.MemberID)
		if b == nil || m == nil {
			return
		}

		loan := Loan{BookID: e.BookID, MemberID: e.MemberID, ReturnedAt: e.ReturnedAt}
		if b.BorrowedAt != nil {
			loan.BorrowedAt = *b.BorrowedAt
		}
		if b.DueDate != nil {
			loan.DueDate = *b.DueDate
		}
		m.LoanHistory = append(m.LoanHistory, loan)

		if b.ReservedBy != nil {
			b.Status = StatusReserved
		} else {
			b.Status = StatusAvailable
		}
		b.BorrowedBy = nil
		b.BorrowedAt = nil
		b.DueDate = nil
		m.CurrentLoans = removeLoan(m.CurrentLoans, e.BookID)
		s.UpdatedAt = e.ReturnedAt
	}),
	es.On(EventBookReserved, func(s *State, e BookReserved, _ *es.Envelope) {
		// The latest reservation wins over a pending one.
		b := s.book(e.BookID)
		if b == nil || b.Status != StatusBorrowed {
			return
		}
		member := e.MemberID
		at := e.ReservedAt
		b.ReservedBy = &member
		b.ReservedAt = &at
		s.UpdatedAt = e.ReservedAt
	}),
	es.On(EventReservationCancelled, func(s *State, e ReservationCancelled, _ *es.Envelope) {
		b := s.book(e.BookID)
		if b == nil || b.ReservedBy == nil || *b.ReservedBy != e.MemberID {
			return
		}
		b.ReservedBy = nil
		b.ReservedAt = nil
		if b.Status == StatusReserved {
			b.Status = StatusAvailable
		}
		s.UpdatedAt = e.CancelledAt
	}),
)
