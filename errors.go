package eventsourcing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSubjectExists is returned on append when a SubjectIsNew precondition
// fails: the aggregate was already created.
var ErrSubjectExists = errors.New("subject already has events")

// ErrSubjectNotFound is returned on append when a SubjectExists
// precondition fails: no aggregate was ever created under the subject.
var ErrSubjectNotFound = errors.New("subject has no events")

// UnknownCommandError is returned by Registry.Dispatch for a command type
// no handler was registered for. The store is never touched.
type UnknownCommandError struct {
	Type string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("no handler registered for command type: %s", e.Type)
}

// FieldError describes one violated constraint on one input field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError reports that a command payload failed schema validation.
// No event is appended when it is returned.
type ValidationError struct {
	Fields []FieldError
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Err != nil {
			return fmt.Sprintf("invalid command payload: %v", e.Err)
		}
		return "invalid command payload"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " (" + f.Rule + ")"
	}
	return "invalid command payload: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StoreError wraps a transport or availability failure from the external
// store. The core surfaces it as-is; retries, if any, belong to the store
// client.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("eventstore error: %v", e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// WrapStoreError wraps err in a StoreError, passing nil through.
func WrapStoreError(err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Err: err}
}
