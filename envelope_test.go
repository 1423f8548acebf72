package eventsourcing_test

import (
	"testing"
	"time"

	es "github.com/genesisdb/eventsourcing-demo"
)

func TestSubjectFormat(t *testing.T) {
	if got := es.Subject("cart", "abc"); got != "/cart/abc" {
		t.Fatalf("Subject() = %q, want /cart/abc", got)
	}
}

func TestNewEnvelopeFlattensPayload(t *testing.T) {
	type payload struct {
		CartID   string  `json:"cartId"`
		UserID   *string `json:"userId"`
		Quantity int     `json:"quantity"`
	}

	env, err := es.NewEnvelope("/cart/abc", "io.genesisdb.demo.item-added", payload{
		CartID:   "abc",
		Quantity: 2,
	})
	if err != nil {
		t.Fatalf("NewEnvelope() error = %v", err)
	}

	if env.Source != es.Source {
		t.Fatalf("Source = %q, want %q", env.Source, es.Source)
	}
	if env.Subject != "/cart/abc" || env.Type != "io.genesisdb.demo.item-added" {
		t.Fatalf("envelope = %+v", env)
	}
	if env.Data["cartId"] != "abc" {
		t.Fatalf("cartId = %v", env.Data["cartId"])
	}
	// Optional pointer fields survive as explicit nulls.
	if v, present := env.Data["userId"]; !present || v != nil {
		t.Fatalf("userId = %v (present=%v), want explicit null", v, present)
	}
	// JSON round-trip turns numbers into float64.
	if env.Data["quantity"] != float64(2) {
		t.Fatalf("quantity = %v, want 2", env.Data["quantity"])
	}
	if !env.Time.IsZero() || env.ID.String() != "00000000-0000-0000-0000-000000000000" {
		t.Fatal("ID and Time must stay unset until the store assigns them")
	}
}

func TestNewEnvelopeRejectsUnmarshalablePayload(t *testing.T) {
	if _, err := es.NewEnvelope("/cart/abc", "t", func() {}); err == nil {
		t.Fatal("expected error for unmarshalable payload")
	}
}

func TestDecodeDataRoundTrip(t *testing.T) {
	env, err := es.NewEnvelope("/cart/abc", "t", map[string]any{"name": "Coffee", "price": 9.5})
	if err != nil {
		t.Fatalf("NewEnvelope() error = %v", err)
	}

	var out struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if err := env.DecodeData(&out); err != nil {
		t.Fatalf("DecodeData() error = %v", err)
	}
	if out.Name != "Coffee" || out.Price != 9.5 {
		t.Fatalf("decoded %+v", out)
	}
}

func TestTimestampIsRFC3339UTC(t *testing.T) {
	ts := es.Timestamp()
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("Timestamp() %q does not parse as RFC3339: %v", ts, err)
	}
	if parsed.Location() != time.UTC {
		t.Fatalf("Timestamp() %q is not UTC", ts)
	}
}
