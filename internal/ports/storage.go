package ports

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValueStore.Get for a missing key.
var ErrKeyNotFound = errors.New("key not found")

// Batch is a set of writes applied together.
type Batch struct {
	Set    map[string][]byte
	Delete []string
}

// Empty reports whether the batch does nothing.
func (b Batch) Empty() bool { return len(b.Set) == 0 && len(b.Delete) == 0 }

// Keys returns every key the batch touches.
func (b Batch) Keys() []string {
	keys := make([]string, 0, len(b.Set)+len(b.Delete))
	for k := range b.Set {
		keys = append(keys, k)
	}
	return append(keys, b.Delete...)
}

// KeyValueStore is the persisted session namespace. Keys are unqualified;
// implementations scope them to a profile.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Commit applies b atomically where the backend supports it.
	Commit(ctx context.Context, b Batch) error
	// Clear removes every key in the namespace.
	Clear(ctx context.Context) error
}

// Change describes a write made through another handle of the same namespace.
type Change struct {
	Keys    []string
	Cleared bool
}

// ChangeNotifier is implemented by stores that can tell one handle about
// writes made through another (another process or another session object).
type ChangeNotifier interface {
	// Watch streams foreign changes until ctx is done. The channel is closed
	// when watching stops.
	Watch(ctx context.Context) (<-chan Change, error)
}
