package eventsourcing

import (
	"context"
	"encoding/json"
)

// Builder produces the envelopes and the precondition for one validated
// command input. Returning an error aborts the command without touching
// the store.
type Builder[T any] func(ctx context.Context, input T) ([]Envelope, []Precondition, error)

// defaulter is implemented by inputs that fill optional fields before
// validation (quantity defaulting to 1, reorderPoint to 10, ...).
type defaulter interface {
	SetDefaults()
}

// NewHandler returns a HandlerFunc with the shape every command shares:
//
//  1. Unmarshal the raw payload into the typed input.
//  2. Apply optional-field defaults.
//  3. Validate against the input's constraint tags; fail with a
//     ValidationError carrying field-level detail, appending nothing.
//  4. Build the envelopes and precondition.
//  5. Append atomically; precondition failures surface as
//     ErrSubjectExists / ErrSubjectNotFound.
func NewHandler[T any](store Store, build Builder[T]) HandlerFunc {
	return func(ctx context.Context, data json.RawMessage) error {
		var input T
		if err := json.Unmarshal(data, &input); err != nil {
			return &ValidationError{Err: err}
		}

		if d, ok := any(&input).(defaulter); ok {
			d.SetDefaults()
		}

		if err := ValidateInput(input); err != nil {
			return err
		}

		events, preconditions, err := build(ctx, input)
		if err != nil {
			return err
		}

		if err := store.Append(ctx, events, preconditions); err != nil {
			return err
		}

		addCount(ctx, EventsAppended, int64(len(events)))
		return nil
	}
}
