package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backend selects where session state is persisted.
type Backend string

const (
	// BackendMemory keeps state for the lifetime of the process.
	BackendMemory Backend = "memory"
	// BackendFile persists state to a JSON file per profile.
	BackendFile Backend = "file"
	// BackendRedis shares state between processes through Redis.
	BackendRedis Backend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (b *Backend) UnmarshalText(text []byte) error {
	v := Backend(strings.ToLower(strings.TrimSpace(string(text))))
	switch v {
	case BackendMemory, BackendFile, BackendRedis:
		*b = v
		return nil
	case "":
		*b = BackendFile
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q (want memory, file or redis)", string(text))
	}
}

func (b Backend) String() string { return string(b) }

// StorageConfig configures the session store.
type StorageConfig struct {
	Backend Backend `env:"POS_STORAGE_BACKEND" envDefault:"file"`
	// File is the JSON state file; defaults to <user config dir>/posctl/<profile>.json.
	File string `env:"POS_STORAGE_FILE"`
	// Watch follows writes made by other processes sharing the store.
	Watch bool `env:"POS_STORAGE_WATCH" envDefault:"false"`
}

// Sanitize fills the default state file path for profile.
func (c *StorageConfig) Sanitize(profile string) {
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	c.File = strings.TrimSpace(c.File)
	if c.File == "" {
		c.File = defaultStateFile(profile)
	}
}

func defaultStateFile(profile string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "posctl", profile+".json")
}

// RedisConfig contains Redis connection settings for the shared backend.
type RedisConfig struct {
	// URI is host:port or a redis:// / rediss:// URL.
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// Sanitize trims the URI and rejects negative databases.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	if c.DB < 0 {
		c.DB = 0
	}
}
