// Package memstore is an in-memory ports.KeyValueStore. Handles opened from
// the same Backend share data and are told about each other's writes, which
// is how several sessions in one process stay in step.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/target/pos-console/internal/ports"
)

const watchBuffer = 16

// Backend holds the shared data.
type Backend struct {
	mu       sync.Mutex
	data     map[string][]byte
	watchers map[*watcher]struct{}
}

type watcher struct {
	owner *Store
	ch    chan ports.Change
}

// NewBackend creates an empty backend.
func NewBackend() *Backend {
	return &Backend{
		data:     make(map[string][]byte),
		watchers: make(map[*watcher]struct{}),
	}
}

// Open returns a new handle on the backend.
func (b *Backend) Open() *Store { return &Store{backend: b} }

// Store is one handle on a Backend.
type Store struct {
	backend *Backend
}

var (
	_ ports.KeyValueStore  = (*Store)(nil)
	_ ports.ChangeNotifier = (*Store)(nil)
)

// New returns a handle on a private backend.
func New() *Store { return NewBackend().Open() }

// Get returns a copy of the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.data[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	return slices.Clone(v), nil
}

// Commit applies the batch under one lock.
func (s *Store) Commit(ctx context.Context, batch ports.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if batch.Empty() {
		return nil
	}
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	for k, v := range batch.Set {
		b.data[k] = slices.Clone(v)
	}
	for _, k := range batch.Delete {
		delete(b.data, k)
	}
	b.notifyLocked(s, ports.Change{Keys: batch.Keys()})
	return nil
}

// Clear removes every key.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	keys := slices.Sorted(maps.Keys(b.data))
	clear(b.data)
	b.notifyLocked(s, ports.Change{Keys: keys, Cleared: true})
	return nil
}

// Keys lists the stored keys in order.
func (s *Store) Keys() []string {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Sorted(maps.Keys(b.data))
}

// Watchers reports how many Watch calls are active on the backend.
func (b *Backend) Watchers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.watchers)
}

// Watch streams changes made through other handles of the backend.
func (s *Store) Watch(ctx context.Context) (<-chan ports.Change, error) {
	w := &watcher{owner: s, ch: make(chan ports.Change, watchBuffer)}
	b := s.backend

	b.mu.Lock()
	b.watchers[w] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.watchers, w)
		close(w.ch)
		b.mu.Unlock()
	}()
	return w.ch, nil
}

// notifyLocked never blocks; a watcher with a full buffer already has a
// pending change that will make it reload.
func (b *Backend) notifyLocked(origin *Store, c ports.Change) {
	for w := range b.watchers {
		if w.owner == origin {
			continue
		}
		select {
		case w.ch <- c:
		default:
		}
	}
}
