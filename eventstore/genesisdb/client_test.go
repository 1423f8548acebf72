package genesisdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	eventsourcing "github.com/genesisdb/eventsourcing-demo"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client, err := NewClient(Config{
		URL:        ts.URL,
		Token:      "secret",
		APIVersion: "v1",
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClientRequiresURLAndToken(t *testing.T) {
	if _, err := NewClient(Config{Token: "x"}); err == nil {
		t.Fatal("expected error without URL")
	}
	if _, err := NewClient(Config{URL: "http://store"}); err == nil {
		t.Fatal("expected error without token")
	}
}

func TestAppendSendsCommitRequest(t *testing.T) {
	var got struct {
		Events        []eventsourcing.Envelope `json:"events"`
		Preconditions []struct {
			Type    string `json:"type"`
			Payload struct {
				Subject string `json:"subject"`
			} `json:"payload"`
		} `json:"preconditions"`
	}
	var auth, path string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode commit body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	env, err := eventsourcing.NewEnvelope("/cart/a", "io.genesisdb.demo.cart-created", map[string]any{"cartId": "a"})
	if err != nil {
		t.Fatalf("NewEnvelope() error = %v", err)
	}
	err = client.Append(context.Background(), []eventsourcing.Envelope{env},
		[]eventsourcing.Precondition{eventsourcing.SubjectIsNew("/cart/a")})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if path != "/api/v1/commit" {
		t.Fatalf("path = %q, want /api/v1/commit", path)
	}
	if auth != "Bearer secret" {
		t.Fatalf("auth = %q", auth)
	}
	if len(got.Events) != 1 || got.Events[0].Subject != "/cart/a" {
		t.Fatalf("events = %+v", got.Events)
	}
	if len(got.Preconditions) != 1 ||
		got.Preconditions[0].Type != "isSubjectNew" ||
		got.Preconditions[0].Payload.Subject != "/cart/a" {
		t.Fatalf("preconditions = %+v", got.Preconditions)
	}
}

func TestAppendMapsConflictOntoSentinels(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "precondition isSubjectNew failed", http.StatusConflict)
	}))

	env, _ := eventsourcing.NewEnvelope("/cart/a", "t", map[string]any{})
	err := client.Append(context.Background(), []eventsourcing.Envelope{env},
		[]eventsourcing.Precondition{eventsourcing.SubjectIsNew("/cart/a")})
	if !errors.Is(err, eventsourcing.ErrSubjectExists) {
		t.Fatalf("error = %v, want ErrSubjectExists", err)
	}

	err = client.Append(context.Background(), []eventsourcing.Envelope{env},
		[]eventsourcing.Precondition{eventsourcing.SubjectExists("/cart/a")})
	if !errors.Is(err, eventsourcing.ErrSubjectNotFound) {
		t.Fatalf("error = %v, want ErrSubjectNotFound", err)
	}
}

func TestPostRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))

	rows, err := client.Query(context.Background(), `whatever`)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %v", rows)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3 (two retries)", calls.Load())
	}
}

func TestPostDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))

	_, err := client.Query(context.Background(), `whatever`)

	var serr *eventsourcing.StoreError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want StoreError", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1 (no retry on 4xx)", calls.Load())
	}
}

func TestReadStreamDecodesEnvelopes(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/stream" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["subject"] != "/cart/a" {
			t.Errorf("subject = %q", req["subject"])
		}
		w.Write([]byte(`[{"subject":"/cart/a","type":"io.genesisdb.demo.cart-created","data":{"cartId":"a"}}]`))
	}))

	iter, err := client.ReadStream(context.Background(), "/cart/a")
	if err != nil {
		t.Fatalf("ReadStream() error = %v", err)
	}
	all, err := iter.All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 1 || all[0].Type != "io.genesisdb.demo.cart-created" {
		t.Fatalf("stream = %+v", all)
	}
}
