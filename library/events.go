// Package library implements the lending-library demo domain: books,
// members, loans and reservations folded from a /library/{libraryId}
// stream.
package library

// Domain is the subject prefix for library streams.
const Domain = "library"

// Event types recorded for a library.
const (
	EventLibraryCreated       = "io.genesisdb.demo.library-created"
	EventBookAdded            = "io.genesisdb.demo.book-added"
	EventMemberRegistered     = "io.genesisdb.demo.member-registered"
	EventBookBorrowed         = "io.genesisdb.demo.book-borrowed"
	EventBookReturned         = "io.genesisdb.demo.book-returned"
	EventBookReserved         = "io.genesisdb.demo.book-reserved"
	EventReservationCancelled = "io.genesisdb.demo.reservation-cancelled"
)

type LibraryCreated struct {
	LibraryID string  `json:"libraryId"`
	Name      string  `json:"name"`
	Address   *string `json:"address"`
	CreatedAt string  `json:"createdAt"`
}

type BookAdded struct {
	LibraryID string  `json:"libraryId"`
	BookID    string  `json:"bookId"`
	ISBN      *string `json:"isbn"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Category  *string `json:"category"`
	AddedAt   string  `json:"addedAt"`
}

type MemberRegistered struct {
	LibraryID    string  `json:"libraryId"`
	MemberID     string  `json:"memberId"`
	Name         string  `json:"name"`
	Email        *string `json:"email"`
	RegisteredAt string  `json:"registeredAt"`
}

type BookBorrowed struct {
	LibraryID  string `json:"libraryId"`
	BookID     string `json:"bookId"`
	MemberID   string `json:"memberId"`
	DueDate    string `json:"dueDate"`
	BorrowedAt string `json:"borrowedAt"`
}

type BookReturned struct {
	LibraryID  string `json:"libraryId"`
	BookID     string `json:"bookId"`
	MemberID   string `json:"memberId"`
	ReturnedAt string `json:"returnedAt"`
}

type BookReserved struct {
	LibraryID  string `json:"libraryId"`
	BookID     string `json:"bookId"`
	MemberID   string `json:"memberId"`
	ReservedAt string `json:"reservedAt"`
}

type ReservationCancelled struct {
	LibraryID   string `json:"libraryId"`
	BookID      string `json:"bookId"`
	MemberID    string `json:"memberId"`
	CancelledAt string `json:"cancelledAt"`
}
