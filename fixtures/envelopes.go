package fixtures

import (
	"time"

	"github.com/google/uuid"

	es "github.com/genesisdb/eventsourcing-demo"
)

// EnvelopeOption is a functional option for configuring a test envelope.
type EnvelopeOption func(*es.Envelope)

// NewEnvelope builds a stored-looking envelope (id and time already
// assigned) for the given subject, event type and payload. It panics on a
// payload that cannot marshal; fixtures are for tests only.
func NewEnvelope(subject, eventType string, payload any, opts ...EnvelopeOption) *es.Envelope {
	env, err := es.NewEnvelope(subject, eventType, payload)
	if err != nil {
		panic(err)
	}
	env.ID = uuid.New()
	env.Time = time.Now().UTC()

	for _, opt := range opts {
		opt(&env)
	}
	return &env
}

// WithID sets a specific event id.
func WithID(id uuid.UUID) EnvelopeOption {
	return func(e *es.Envelope) {
		e.ID = id
	}
}

// WithTime sets the store-assigned timestamp.
func WithTime(t time.Time) EnvelopeOption {
	return func(e *es.Envelope) {
		e.Time = t
	}
}

// WithData overrides a single data field, useful for malformed-payload
// cases.
func WithData(key string, value any) EnvelopeOption {
	return func(e *es.Envelope) {
		if e.Data == nil {
			e.Data = make(map[string]any)
		}
		e.Data[key] = value
	}
}

// Stream builds an ordered stream of envelopes for one subject from
// (eventType, payload) pairs, with strictly increasing timestamps.
func Stream(subject string, events ...StreamEvent) []*es.Envelope {
	base := time.Now().UTC()
	out := make([]*es.Envelope, len(events))
	for i, ev := range events {
		out[i] = NewEnvelope(subject, ev.Type, ev.Payload, WithTime(base.Add(time.Duration(i)*time.Millisecond)))
	}
	return out
}

// StreamEvent is one (type, payload) pair for Stream.
type StreamEvent struct {
	Type    string
	Payload any
}
