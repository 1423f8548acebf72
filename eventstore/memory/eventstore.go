package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	eventsourcing "github.com/genesisdb/eventsourcing-demo"
	"github.com/genesisdb/eventsourcing-demo/eventstore/streamql"
)

var _ eventsourcing.Store = (*Store)(nil)

var clock = time.Now

// Store is an in-process event store used for tests and local demo runs.
// Preconditions and the events they gate are checked under one lock, so an
// append batch is atomic and linearizable per subject.
type Store struct {
	mu      sync.RWMutex
	streams map[string][]*eventsourcing.Envelope
	global  []*eventsourcing.Envelope
}

func NewStore() *Store {
	return &Store{
		streams: make(map[string][]*eventsourcing.Envelope),
		global:  make([]*eventsourcing.Envelope, 0),
	}
}

func (m *Store) Append(ctx context.Context, events []eventsourcing.Envelope, preconditions []eventsourcing.Precondition) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range preconditions {
		current := len(m.streams[p.Subject()])

		switch p.(type) {
		case eventsourcing.SubjectIsNew:
			if current != 0 {
				return fmt.Errorf("append to %q: %w", p.Subject(), eventsourcing.ErrSubjectExists)
			}
		case eventsourcing.SubjectExists:
			if current == 0 {
				return fmt.Errorf("append to %q: %w", p.Subject(), eventsourcing.ErrSubjectNotFound)
			}
		default:
			return eventsourcing.WrapStoreError(fmt.Errorf("unsupported precondition %q", p.Kind()))
		}
	}

	for i := range events {
		env := events[i]
		env.ID = uuid.New()
		env.Time = clock().UTC()

		stored := &env
		m.streams[env.Subject] = append(m.streams[env.Subject], stored)
		m.global = append(m.global, stored)
	}

	return nil
}

func (m *Store) ReadStream(ctx context.Context, subject string) (*eventsourcing.Iterator[*eventsourcing.Envelope], error) {
	m.mu.RLock()
	events := m.streams[subject]
	snapshot := make([]*eventsourcing.Envelope, len(events))
	copy(snapshot, events)
	m.mu.RUnlock()

	// An unknown subject is an empty stream, not an error.
	return eventsourcing.NewSliceIterator(snapshot), nil
}

func (m *Store) Query(ctx context.Context, expression string) ([]eventsourcing.Row, error) {
	q, err := streamql.Parse(expression)
	if err != nil {
		return nil, eventsourcing.WrapStoreError(err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	// Append order is time order in this store, so time-descending means
	// walking the global log backwards.
	rows := make([]eventsourcing.Row, 0)
	appendMatch := func(env *eventsourcing.Envelope) {
		if env.Type == q.EventType {
			rows = append(rows, q.Project(env))
		}
	}

	if q.Descending {
		for i := len(m.global) - 1; i >= 0; i-- {
			appendMatch(m.global[i])
		}
	} else {
		for _, env := range m.global {
			appendMatch(env)
		}
	}

	return rows, nil
}

func (m *Store) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams = make(map[string][]*eventsourcing.Envelope)
	m.global = nil
	return nil
}
