package library

import (
	"context"

	es "github.com/genesisdb/eventsourcing-demo"
)

type CreateLibraryInput struct {
	LibraryID string  `json:"libraryId" validate:"required,uuid"`
	Name      string  `json:"name" validate:"required,min=1,max=100"`
	Address   *string `json:"address" validate:"omitempty,min=1"`
}

type AddBookInput struct {
	LibraryID string  `json:"libraryId" validate:"required,uuid"`
	BookID    string  `json:"bookId" validate:"required,min=1"`
	ISBN      *string `json:"isbn" validate:"omitempty,min=1"`
	Title     string  `json:"title" validate:"required,min=1,max=200"`
	Author    string  `json:"author" validate:"required,min=1,max=100"`
	Category  *string `json:"category" validate:"omitempty,min=1"`
}

type RegisterMemberInput struct {
	LibraryID string  `json:"libraryId" validate:"required,uuid"`
	MemberID  string  `json:"memberId" validate:"required,min=1"`
	Name      string  `json:"name" validate:"required,min=1,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

type BorrowBookInput struct {
	LibraryID string `json:"libraryId" validate:"required,uuid"`
	BookID    string `json:"bookId" validate:"required,min=1"`
	MemberID  string `json:"memberId" validate:"required,min=1"`
	DueDate   string `json:"dueDate" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

type ReturnBookInput struct {
	LibraryID string `json:"libraryId" validate:"required,uuid"`
	BookID    string `json:"bookId" validate:"required,min=1"`
	MemberID  string `json:"memberId" validate:"required,min=1"`
}

type ReserveBookInput struct {
	LibraryID string `json:"libraryId" validate:"required,uuid"`
	BookID    string `json:"bookId" validate:"required,min=1"`
	MemberID  string `json:"memberId" validate:"required,min=1"`
}

type CancelReservationInput struct {
	LibraryID string `json:"libraryId" validate:"required,uuid"`
	BookID    string `json:"bookId" validate:"required,min=1"`
	MemberID  string `json:"memberId" validate:"required,min=1"`
}

// Register wires every library command into the registry.
func Register(reg *es.Registry, store es.Store) {
	reg.Register("create-library", es.NewHandler(store, func(ctx context.Context, in CreateLibraryInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.LibraryID)
		env, err := es.NewEnvelope(subject, EventLibraryCreated, LibraryCreated{
			LibraryID: in.LibraryID,
			Name:      in.Name,
			Address:   in.Address,
			CreatedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectIsNew(subject)}, nil
	}))

	reg.Register("add-book", es.NewHandler(store, func(ctx context.Context, in AddBookInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.LibraryID)
		env, err := es.NewEnvelope(subject, EventBookAdded, BookAdded{
			LibraryID: in.LibraryID,
			BookID:    in.BookID,
			ISBN:      in.ISBN,
			Title:     in.Title,
			Author:    in.Author,
			Category:  in.Category,
			AddedAt:   es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("register-member", es.NewHandler(store, func(ctx context.Context, in RegisterMemberInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.LibraryID)
		env, err := es.NewEnvelope(subject, EventMemberRegistered, MemberRegistered{
			LibraryID:    in.LibraryID,
			MemberID:     in.MemberID,
			Name:         in.Name,
			Email:        in.Email,
			RegisteredAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("borrow-book", es.NewHandler(store, func(ctx context.Context, in BorrowBookInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.LibraryID)
		env, err := es.NewEnvelope(subject, EventBookBorrowed, BookBorrowed{
			LibraryID:  in.LibraryID,
			BookID:     in.BookID,
			MemberID:   in.MemberID,
			DueDate:    in.DueDate,
			BorrowedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("return-book", es.NewHandler(store, func(ctx context.Context, in ReturnBookInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.LibraryID)
		env, err := es.NewEnvelope(subject, EventBookReturned, BookReturned{
			LibraryID:  in.LibraryID,
			BookID:     in.BookID,
			MemberID:   in.MemberID,
			ReturnedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("reserve-book", es.NewHandler(store, func(ctx context.Context, in ReserveBookInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.LibraryID)
		env, err := es.NewEnvelope(subject, EventBookReserved, BookReserved{
			LibraryID:  in.LibraryID,
			BookID:     in.BookID,
			MemberID:   in.MemberID,
			ReservedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("cancel-reservation", es.NewHandler(store, func(ctx context.Context, in CancelReservationInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.LibraryID)
		env, err := es.NewEnvelope(subject, EventReservationCancelled, ReservationCancelled{
			LibraryID:   in.LibraryID,
			BookID:      in.BookID,
			MemberID:    in.MemberID,
			CancelledAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))
}
