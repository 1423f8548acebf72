package eventsourcing

import (
	"context"
)

// Row is one result row of a store query.
type Row = map[string]any

// Store defines the contract with the external append-only event store.
// A Store persists envelopes under their subject in sequential order,
// allowing full reconstruction of aggregate state at any point in time.
//
// Implementations must guarantee:
//   - Events for one subject are read back in append order.
//   - Append is atomic for the whole batch: preconditions and the events
//     they gate are evaluated together, never racily.
//   - An unknown subject reads back as an empty stream, not an error.
type Store interface {
	// Append commits all events in one atomic batch, after every
	// precondition has been checked against the current stream state.
	//
	// Errors:
	//   - ErrSubjectExists when a SubjectIsNew precondition fails.
	//   - ErrSubjectNotFound when a SubjectExists precondition fails.
	//   - Any store-specific persistence error, wrapped in StoreError.
	Append(ctx context.Context, events []Envelope, preconditions []Precondition) error

	// ReadStream returns a lazy iterator over all events for the subject,
	// oldest first. The iterator yields nothing for an unknown subject.
	ReadStream(ctx context.Context, subject string) (*Iterator[*Envelope], error)

	// Query evaluates a stream query expression and returns its rows. The
	// core only ever uses the creation-event form:
	//
	//	STREAM e FROM events WHERE e.type == "X" ORDER BY e.time DESC MAP { id: e.data.field }
	Query(ctx context.Context, expression string) ([]Row, error)

	// Close releases any resources held by the store. Implementations
	// should make Close idempotent.
	Close() error
}
