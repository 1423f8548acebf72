package eventsourcing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Source identifies this application as the producer of every event it
// commits.
const Source = "tag:demo.genesisdb.io"

var now = time.Now

// Envelope is one immutable recorded fact. ID and Time are assigned by the
// store on append and must not be set by command handlers; everything else
// is fixed at build time. Streams are append-only: an envelope is never
// mutated or deleted once stored.
type Envelope struct {
	ID      uuid.UUID      `json:"id"`
	Source  string         `json:"source"`
	Subject string         `json:"subject"`
	Type    string         `json:"type"`
	Data    map[string]any `json:"data"`
	Time    time.Time      `json:"time"`
}

// Subject returns the stream identifier for one aggregate instance,
// formatted as /{domain}/{aggregateId}.
func Subject(domain, id string) string {
	return "/" + domain + "/" + id
}

// NewEnvelope builds an envelope for the given subject and event type. The
// payload is flattened into the envelope's data map through its JSON form,
// so payload structs control field names via json tags.
func NewEnvelope(subject, eventType string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("build envelope %q for subject %q: %w", eventType, subject, err)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return Envelope{}, fmt.Errorf("build envelope %q for subject %q: %w", eventType, subject, err)
	}

	return Envelope{
		Source:  Source,
		Subject: subject,
		Type:    eventType,
		Data:    data,
	}, nil
}

// DecodeData unmarshals the envelope's data map into out, which should be a
// pointer to a payload struct with json tags.
func (e *Envelope) DecodeData(out any) error {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("decode %q envelope data: %w", e.Type, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %q envelope data: %w", e.Type, err)
	}
	return nil
}

// Timestamp returns the current time as an ISO-8601 string, the format used
// by every action timestamp inside event payloads (createdAt, addedAt, ...).
func Timestamp() string {
	return now().UTC().Format(time.RFC3339)
}
