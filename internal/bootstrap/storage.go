package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/pos-console/config"
	"github.com/target/pos-console/internal/adapters/filestore"
	"github.com/target/pos-console/internal/adapters/memstore"
	redisstore "github.com/target/pos-console/internal/adapters/redis"
	"github.com/target/pos-console/internal/ports"
)

// StorageDeps groups what OpenStorage needs.
type StorageDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
	// Redis overrides the client built from Config.Redis.
	Redis redis.UniversalClient
}

// Storage is an opened session store and the resources behind it.
type Storage struct {
	Store   ports.KeyValueStore
	Backend config.Backend
	closers []func() error
}

// Close releases the backend's connections.
func (s *Storage) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenStorage builds the configured session store.
func OpenStorage(ctx context.Context, deps StorageDeps) (*Storage, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return &Storage{Store: memstore.New(), Backend: config.BackendMemory}, nil

	case config.BackendRedis:
		st := &Storage{Backend: config.BackendRedis}
		client := deps.Redis
		if client == nil {
			var err error
			client, err = ConnectRedis(ctx, cfg.Redis, logger)
			if err != nil {
				return nil, err
			}
			st.closers = append(st.closers, client.Close)
		}
		st.Store = redisstore.NewKVStore(client, redisstore.KVStoreOptions{
			Namespace: cfg.Profile,
			Logger:    logger,
		})
		return st, nil

	case config.BackendFile, "":
		fs, err := filestore.New(cfg.Storage.File)
		if err != nil {
			return nil, fmt.Errorf("open state file: %w", err)
		}
		logger.DebugContext(ctx, "using file storage", "path", fs.Path())
		return &Storage{Store: fs, Backend: config.BackendFile}, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}
