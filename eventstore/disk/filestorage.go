package disk

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	eventsourcing "github.com/genesisdb/eventsourcing-demo"
	"github.com/genesisdb/eventsourcing-demo/eventstore/streamql"
)

var _ eventsourcing.Store = (*FilesStore)(nil)

// FilesStore persists each subject's stream as a directory of numbered
// JSON files. It exists for demo runs that should survive a restart
// without an external store; a single process lock makes append batches
// atomic.
type FilesStore struct {
	baseDir string
	mu      sync.Mutex
}

func NewFilesStore(dir string) (*FilesStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FilesStore{baseDir: dir}, nil
}

// subjectDir maps a subject like /cart/c1 onto a filesystem-safe path.
func (f *FilesStore) subjectDir(subject string) string {
	safe := strings.ReplaceAll(strings.TrimPrefix(subject, "/"), "/", "__")
	return filepath.Join(f.baseDir, safe)
}

func (f *FilesStore) streamLen(subject string) int {
	entries, err := os.ReadDir(f.subjectDir(subject))
	if err != nil {
		return 0
	}
	return len(entries)
}

func (f *FilesStore) Append(ctx context.Context, events []eventsourcing.Envelope, preconditions []eventsourcing.Precondition) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range preconditions {
		current := f.streamLen(p.Subject())

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
		env.Time = time.Now().UTC()

		dir := f.subjectDir(env.Subject)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eventsourcing.WrapStoreError(err)
		}

		seq := f.streamLen(env.Subject) + 1
		raw, err := json.Marshal(env)
		if err != nil {
			return eventsourcing.WrapStoreError(err)
		}

		path := filepath.Join(dir, fmt.Sprintf("%010d.json", seq))
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return eventsourcing.WrapStoreError(err)
		}
	}

	return nil
}

func (f *FilesStore) ReadStream(ctx context.Context, subject string) (*eventsourcing.Iterator[*eventsourcing.Envelope], error) {
	f.mu.Lock()
	envelopes, err := f.readDir(f.subjectDir(subject))
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return eventsourcing.NewSliceIterator(envelopes), nil
}

func (f *FilesStore) readDir(dir string) ([]*eventsourcing.Envelope, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // unknown subject: empty stream
		}
		return nil, eventsourcing.WrapStoreError(err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	envelopes := make([]*eventsourcing.Envelope, 0, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, eventsourcing.WrapStoreError(err)
		}
		var env eventsourcing.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, eventsourcing.WrapStoreError(fmt.Errorf("corrupt event file %s: %w", name, err))
		}
		envelopes = append(envelopes, &env)
	}
	return envelopes, nil
}

func (f *FilesStore) Query(ctx context.Context, expression string) ([]eventsourcing.Row, error) {
	q, err := streamql.Parse(expression)
	if err != nil {
		return nil, eventsourcing.WrapStoreError(err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dirs, err := os.ReadDir(f.baseDir)
	if err != nil {
		return nil, eventsourcing.WrapStoreError(err)
	}

	var matches []*eventsourcing.Envelope
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		envelopes, err := f.readDir(filepath.Join(f.baseDir, d.Name()))
		if err != nil {
			return nil, err
		}
		for _, env := range envelopes {
			if env.Type == q.EventType {
				matches = append(matches, env)
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if q.Descending {
			return matches[i].Time.After(matches[j].Time)
		}
		return matches[i].Time.Before(matches[j].Time)
	})

	rows := make([]eventsourcing.Row, len(matches))
	for i, env := range matches {
		rows[i] = q.Project(env)
	}
	return rows, nil
}

func (f *FilesStore) Close() error {
	return nil
}
