package fixtures

import (
	"context"
	"sync"

	es "github.com/genesisdb/eventsourcing-demo"
)

var _ es.Store = (*StoreSpy)(nil)

// StoreSpy is a configurable mock Store for testing. It tracks calls,
// captures arguments and allows injecting custom behavior or failures.
// Unlike the memory store it does not enforce preconditions by default, so
// tests can assert exactly which preconditions a handler supplied.
type StoreSpy struct {
	mu sync.Mutex

	// Function overrides for custom behavior
	AppendFn     func(ctx context.Context, events []es.Envelope, preconditions []es.Precondition) error
	ReadStreamFn func(ctx context.Context, subject string) (*es.Iterator[*es.Envelope], error)
	QueryFn      func(ctx context.Context, expression string) ([]es.Row, error)

	// Call tracking
	AppendCalls     int
	ReadStreamCalls int
	QueryCalls      int
	CloseCalls      int

	// Captured arguments from the last call
	LastAppendEvents  []es.Envelope
	LastPreconditions []es.Precondition
	LastReadSubject   string
	LastQuery         string

	// Pre-configured data
	streams map[string][]*es.Envelope

	// Error injection
	appendErr error
	readErr   error
	queryErr  error
}

// NewStoreSpy creates a StoreSpy with default record-and-store behavior.
func NewStoreSpy() *StoreSpy {
	return &StoreSpy{
		streams: make(map[string][]*es.Envelope),
	}
}

// WithEvents pre-populates the spy with a stream for a subject.
func (s *StoreSpy) WithEvents(subject string, events ...*es.Envelope) *StoreSpy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streams[subject] = events
	return s
}

// FailOnAppend makes every Append return err.
func (s *StoreSpy) FailOnAppend(err error) *StoreSpy {
	s.appendErr = err
	return s
}

// FailOnRead makes every ReadStream return err.
func (s *StoreSpy) FailOnRead(err error) *StoreSpy {
	s.readErr = err
	return s
}

// FailOnQuery makes every Query return err.
func (s *StoreSpy) FailOnQuery(err error) *StoreSpy {
	s.queryErr = err
	return s
}

// Appended returns the stream recorded for a subject.
func (s *StoreSpy) Appended(subject string) []*es.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streams[subject]
}

func (s *StoreSpy) Append(ctx context.Context, events []es.Envelope, preconditions []es.Precondition) error {
	s.mu.Lock()
	s.AppendCalls++
	s.LastAppendEvents = events
	s.LastPreconditions = preconditions
	s.mu.Unlock()

	if s.AppendFn != nil {
		return s.AppendFn(ctx, events, preconditions)
	}
	if s.appendErr != nil {
		return s.appendErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range events {
		env := events[i]
		s.streams[env.Subject] = append(s.streams[env.Subject], &env)
	}
	return nil
}

func (s *StoreSpy) ReadStream(ctx context.Context, subject string) (*es.Iterator[*es.Envelope], error) {
	s.mu.Lock()
	s.ReadStreamCalls++
	s.LastReadSubject = subject
	events := s.streams[subject]
	s.mu.Unlock()

	if s.ReadStreamFn != nil {
		return s.ReadStreamFn(ctx, subject)
	}
	if s.readErr != nil {
		return nil, s.readErr
	}

	return es.NewSliceIterator(events), nil
}

func (s *StoreSpy) Query(ctx context.Context, expression string) ([]es.Row, error) {
	s.mu.Lock()
	s.QueryCalls++
	s.LastQuery = expression
	s.mu.Unlock()

	if s.QueryFn != nil {
		return s.QueryFn(ctx, expression)
	}
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return nil, nil
}

func (s *StoreSpy) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CloseCalls++
	return nil
}
