package redis

// Package redis provides Redis-based adapters for the POS console.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/target/pos-console/internal/ports"
)

const (
	defaultPrefix = "pos:"
	changesSuffix = "changes"
	// indexPrefix sits outside defaultPrefix so an index never collides with
	// a data key of any namespace.
	indexPrefix  = "pos-keys:"
	clearRetries = 5
)

// KVStoreOptions configures a KVStore.
type KVStoreOptions struct {
	// Namespace scopes every key, typically the profile name.
	Namespace string
	Logger    *slog.Logger
}

// KVStore is a Redis-backed ports.KeyValueStore. Every write is published
// on a per-namespace channel so other handles can reload. The namespace's
// keys are tracked in an index set, so Clear never pattern-matches into
// another namespace.
type KVStore struct {
	client  redis.UniversalClient
	prefix  string
	index   string
	channel string
	origin  string
	logger  *slog.Logger
}

var (
	_ ports.KeyValueStore  = (*KVStore)(nil)
	_ ports.ChangeNotifier = (*KVStore)(nil)
)

type changeMessage struct {
	Origin  string   `json:"origin"`
	Keys    []string `json:"keys,omitempty"`
	Cleared bool     `json:"cleared,omitempty"`
}

// NewKVStore creates a Redis-backed key-value store.
func NewKVStore(client redis.UniversalClient, opts KVStoreOptions) *KVStore {
	prefix := defaultPrefix
	if opts.Namespace != "" {
		prefix += opts.Namespace + ":"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &KVStore{
		client:  client,
		prefix:  prefix,
		index:   indexPrefix + opts.Namespace,
		channel: prefix + changesSuffix,
		origin:  uuid.NewString(),
		logger:  logger.With("component", "redis_kv_store"),
	}
}

// Get returns the value stored under key.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// Commit applies the batch in a MULTI/EXEC transaction and publishes it.
func (s *KVStore) Commit(ctx context.Context, b ports.Batch) error {
	if b.Empty() {
		return nil
	}
	msg, err := s.message(changeMessage{Keys: b.Keys()})
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(b.Set) > 0 {
			members := make([]any, 0, len(b.Set))
			for k, v := range b.Set {
				pipe.Set(ctx, s.prefix+k, v, 0)
				members = append(members, k)
			}
			pipe.SAdd(ctx, s.index, members...)
		}
		if len(b.Delete) > 0 {
			pipe.Del(ctx, s.qualify(b.Delete)...)
			pipe.SRem(ctx, s.index, toAny(b.Delete)...)
		}
		pipe.Publish(ctx, s.channel, msg)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis commit: %w", err)
	}
	return nil
}

// Clear deletes every key under the namespace. The index is watched, so a
// concurrent Commit makes Clear retry instead of leaving a key behind.
func (s *KVStore) Clear(ctx context.Context) error {
	for range clearRetries {
		err := s.client.Watch(ctx, s.clearTx(ctx), s.index)
		if !errors.Is(err, redis.TxFailedErr) {
			if err != nil {
				return fmt.Errorf("redis clear: %w", err)
			}
			return nil
		}
		s.logger.Debug("clear raced a commit; retrying", "namespace_index", s.index)
	}
	return fmt.Errorf("redis clear: %w", redis.TxFailedErr)
}

func (s *KVStore) clearTx(ctx context.Context) func(*redis.Tx) error {
	return func(tx *redis.Tx) error {
		keys, err := tx.SMembers(ctx, s.index).Result()
		if err != nil {
			return fmt.Errorf("read key index: %w", err)
		}
		sort.Strings(keys)
		msg, err := s.message(changeMessage{Keys: keys, Cleared: true})
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, append(s.qualify(keys), s.index)...)
			pipe.Publish(ctx, s.channel, msg)
			return nil
		})
		return err
	}
}

// Watch subscribes to the namespace channel and streams changes published by
// other handles. The subscription is confirmed before Watch returns.
func (s *KVStore) Watch(ctx context.Context) (<-chan ports.Change, error) {
	pubsub := s.client.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan ports.Change, 1)
	go func() {
		defer close(out)
		defer func() {
			if err := pubsub.Close(); err != nil {
				s.logger.Debug("close pubsub", "error", err)
			}
		}()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var cm changeMessage
				if err := json.Unmarshal([]byte(m.Payload), &cm); err != nil {
					s.logger.Warn("discarding malformed change message", "error", err)
					continue
				}
				if cm.Origin == s.origin {
					continue
				}
				select {
				case out <- ports.Change{Keys: cm.Keys, Cleared: cm.Cleared}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *KVStore) message(cm changeMessage) (string, error) {
	cm.Origin = s.origin
	data, err := json.Marshal(cm)
	if err != nil {
		return "", fmt.Errorf("marshal change message: %w", err)
	}
	return string(data), nil
}

func (s *KVStore) qualify(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = s.prefix + k
	}
	return out
}

func toAny(keys []string) []any {
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}
