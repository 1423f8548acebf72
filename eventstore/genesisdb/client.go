package genesisdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cenkalti/backoff/v4"

	eventsourcing "github.com/genesisdb/eventsourcing-demo"
)

var _ eventsourcing.Store = (*Client)(nil)

// Config holds the connection settings for the GenesisDB HTTP API.
type Config struct {
	URL        string        `env:"GENESISDB_API_URL"`
	Token      string        `env:"GENESISDB_API_TOKEN"`
	APIVersion string        `env:"GENESISDB_API_VERSION" envDefault:"v1"`
	Timeout    time.Duration `env:"GENESISDB_TIMEOUT" envDefault:"10s"`
	MaxRetries uint64        `env:"GENESISDB_MAX_RETRIES" envDefault:"3"`
}

// ConfigFromEnv loads the client configuration from environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse genesisdb env: %w", err)
	}
	return cfg, nil
}

// Client is the Store binding to an external GenesisDB instance. Transient
// failures (5xx, transport errors) are retried with exponential backoff;
// the core itself performs no retries.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("genesisdb: missing API URL")
	}
	if cfg.Token == "" {
		return nil, errors.New("genesisdb: missing API token")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v1"
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type commitRequest struct {
	Events        []eventsourcing.Envelope `json:"events"`
	Preconditions []preconditionDTO        `json:"preconditions,omitempty"`
}

type preconditionDTO struct {
	Type    string              `json:"type"`
	Payload preconditionPayload `json:"payload"`
}

type preconditionPayload struct {
	Subject string `json:"subject"`
}

type queryRequest struct {
	Query string `json:"query"`
}

func (c *Client) Append(ctx context.Context, events []eventsourcing.Envelope, preconditions []eventsourcing.Precondition) error {
	req := commitRequest{
		Events:        events,
		Preconditions: make([]preconditionDTO, len(preconditions)),
	}
	for i, p := range preconditions {
		req.Preconditions[i] = preconditionDTO{
			Type:    p.Kind(),
			Payload: preconditionPayload{Subject: p.Subject()},
		}
	}

	body, err := c.post(ctx, "/commit", req)
	if err != nil {
		var failed *preconditionFailedError
		if errors.As(err, &failed) {
			return c.mapPreconditionFailure(failed, preconditions)
		}
		return err
	}
	body.Close()
	return nil
}

func (c *Client) ReadStream(ctx context.Context, subject string) (*eventsourcing.Iterator[*eventsourcing.Envelope], error) {
	body, err := c.post(ctx, "/stream", map[string]string{"subject": subject})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var envelopes []*eventsourcing.Envelope
	if err := json.NewDecoder(body).Decode(&envelopes); err != nil {
		return nil, eventsourcing.WrapStoreError(fmt.Errorf("decode stream %q: %w", subject, err))
	}

	return eventsourcing.NewSliceIterator(envelopes), nil
}

func (c *Client) Query(ctx context.Context, expression string) ([]eventsourcing.Row, error) {
	body, err := c.post(ctx, "/q", queryRequest{Query: expression})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var rows []eventsourcing.Row
	if err := json.NewDecoder(body).Decode(&rows); err != nil {
		return nil, eventsourcing.WrapStoreError(fmt.Errorf("decode query result: %w", err))
	}
	return rows, nil
}

func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// preconditionFailedError marks a 409 from the commit endpoint so Append
// can translate it into the matching sentinel.
type preconditionFailedError struct {
	message string
}

func (e *preconditionFailedError) Error() string { return e.message }

func (c *Client) mapPreconditionFailure(failed *preconditionFailedError, preconditions []eventsourcing.Precondition) error {
	for _, p := range preconditions {
		switch p.(type) {
		case eventsourcing.SubjectIsNew:
			if strings.Contains(failed.message, p.Kind()) || len(preconditions) == 1 {
				return fmt.Errorf("append to %q: %w", p.Subject(), eventsourcing.ErrSubjectExists)
			}
		case eventsourcing.SubjectExists:
			if strings.Contains(failed.message, p.Kind()) || len(preconditions) == 1 {
				return fmt.Errorf("append to %q: %w", p.Subject(), eventsourcing.ErrSubjectNotFound)
			}
		}
	}
	return eventsourcing.WrapStoreError(failed)
}

func (c *Client) endpoint(path string) string {
	return strings.TrimSuffix(c.cfg.URL, "/") + "/api/" + c.cfg.APIVersion + path
}

// post sends one JSON request and retries transient failures. The caller
// owns the returned body.
func (c *Client) post(ctx context.Context, path string, payload any) (io.ReadCloser, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, eventsourcing.WrapStoreError(err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.MaxRetries), ctx)

	body, err := backoff.RetryWithData(func() (io.ReadCloser, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(raw))
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err // transport error, retryable
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp.Body, nil
		case resp.StatusCode == http.StatusConflict:
			message := readError(resp)
			return nil, backoff.Permanent(&preconditionFailedError{message: message})
		case resp.StatusCode >= 500:
			message := readError(resp)
			return nil, fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, message)
		default:
			message := readError(resp)
			return nil, backoff.Permanent(fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, message))
		}
	}, policy)

	if err != nil {
		var failed *preconditionFailedError
		if errors.As(err, &failed) {
			return nil, failed
		}
		return nil, eventsourcing.WrapStoreError(err)
	}
	return body, nil
}

func readError(resp *http.Response) string {
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return strings.TrimSpace(string(raw))
}
