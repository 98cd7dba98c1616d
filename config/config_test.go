package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T) AppConfig {
	t.Helper()
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	return cfg
}

func TestAppConfig_Defaults(t *testing.T) {
	t.Setenv("NODE_ENV", "")
	cfg := parse(t)

	assert.False(t, cfg.IsDev)
	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, "http://localhost:8088/api", cfg.API.URL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "posctl", cfg.API.UserAgent)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join("posctl", "default.json"), filepath.Join(filepath.Base(filepath.Dir(cfg.Storage.File)), filepath.Base(cfg.Storage.File)))
	assert.False(t, cfg.Storage.Watch)
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, LogFormatJSON, cfg.Log.Format)
	assert.Equal(t, "en", cfg.Display.Locale)
	assert.False(t, cfg.Metrics.IsEnabled())
	assert.Equal(t, "127.0.0.1:8125", cfg.Metrics.StatsdAddress)
	assert.Equal(t, "posctl", cfg.Metrics.Prefix)
}

func TestAppConfig_FromEnv(t *testing.T) {
	t.Setenv("POS_PROFILE", "store-12")
	t.Setenv("POS_API_URL", "https://pos.example.com/api/")
	t.Setenv("POS_API_TIMEOUT", "10m")
	t.Setenv("POS_STORAGE_BACKEND", "Redis")
	t.Setenv("POS_STORAGE_FILE", "/tmp/pos.json")
	t.Setenv("POS_STORAGE_WATCH", "true")
	t.Setenv("REDIS_URI", " redis://cache:6379/2 ")
	t.Setenv("REDIS_DB", "-1")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("POS_LOCALE", "fr-fr")

	cfg := parse(t)
	assert.Equal(t, "store-12", cfg.Profile)
	assert.Equal(t, "https://pos.example.com/api", cfg.API.URL)
	assert.Equal(t, 2*time.Minute, cfg.API.Timeout)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/pos.json", cfg.Storage.File)
	assert.True(t, cfg.Storage.Watch)
	assert.Equal(t, "redis://cache:6379/2", cfg.Redis.URI)
	assert.Zero(t, cfg.Redis.DB)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, LogFormatText, cfg.Log.Format)
	assert.Equal(t, "fr-FR", cfg.Display.Locale)
}

func TestAppConfig_UnknownBackend(t *testing.T) {
	t.Setenv("POS_STORAGE_BACKEND", "sqlite")
	var cfg AppConfig
	err := env.Parse(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestAppConfig_DevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")
	cfg := parse(t)
	assert.True(t, cfg.IsDev)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, LogFormatText, cfg.Log.Format)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestAppConfig_ProfileGuard(t *testing.T) {
	for _, profile := range []string{"", "  ", "../etc", `a\b`, "c:d"} {
		t.Run(profile, func(t *testing.T) {
			cfg := AppConfig{Profile: profile}
			cfg.Sanitize()
			assert.Equal(t, "default", cfg.Profile)
		})
	}
}

func TestBackend_UnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{in: "memory", want: BackendMemory},
		{in: " FILE ", want: BackendFile},
		{in: "redis", want: BackendRedis},
		{in: "", want: BackendFile},
		{in: "etcd", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var b Backend
			err := b.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, b)
		})
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"loud":  slog.LevelWarn,
	}
	for in, want := range tests {
		c := LogConfig{Level: in}
		c.Sanitize(false)
		assert.Equal(t, want, c.SlogLevel(), in)
	}
}

func TestDisplayConfig_Sanitize(t *testing.T) {
	c := DisplayConfig{Locale: "not a tag!"}
	c.Sanitize()
	assert.Equal(t, "en", c.Locale)

	c = DisplayConfig{Locale: "es-MX"}
	c.Sanitize()
	assert.Equal(t, "es-MX", c.Tag().String())
}

func TestMetricsConfig_Sanitize(t *testing.T) {
	c := MetricsConfig{Enabled: true, StatsdAddress: " ", Prefix: ".pos."}
	c.Sanitize()
	assert.False(t, c.IsEnabled())
	assert.Equal(t, "pos", c.Prefix)

	c = MetricsConfig{Enabled: true, StatsdAddress: " statsd:8125 "}
	c.Sanitize()
	assert.True(t, c.IsEnabled())
	assert.Equal(t, "statsd:8125", c.StatsdAddress)
}
