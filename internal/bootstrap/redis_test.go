package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/pos-console/config"
	"github.com/target/pos-console/internal/testutil"
)

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  config.RedisConfig
	}{
		{name: "address", cfg: config.RedisConfig{URI: mr.Addr()}},
		{name: "url", cfg: config.RedisConfig{URI: "redis://" + mr.Addr() + "/0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := ConnectRedis(ctx, tt.cfg, testutil.DiscardLogger())
			require.NoError(t, err)
			t.Cleanup(func() { _ = client.Close() })
			assert.NoError(t, client.Set(ctx, "k", "v", 0).Err())
		})
	}
}

func TestConnectRedis_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := ConnectRedis(ctx, config.RedisConfig{URI: " "}, nil)
	assert.ErrorContains(t, err, "requires a URI")

	_, err = ConnectRedis(ctx, config.RedisConfig{URI: "redis://:bad port"}, nil)
	assert.ErrorContains(t, err, "parse redis url")

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err = ConnectRedis(ctx, config.RedisConfig{URI: addr}, nil)
	assert.ErrorContains(t, err, "ping redis")
}

func TestRedactAddr(t *testing.T) {
	redacted := redactAddr("redis://user:pw@cache:6379/0")
	assert.NotContains(t, redacted, "pw")
	assert.Contains(t, redacted, "@cache:6379/0")
	assert.Equal(t, "cache:6379", redactAddr("pw@cache:6379"))
	assert.Equal(t, "localhost:6379", redactAddr("localhost:6379"))
}

func TestIsRedisURL(t *testing.T) {
	assert.True(t, isRedisURL("redis://x"))
	assert.True(t, isRedisURL("REDISS://x"))
	assert.False(t, isRedisURL("localhost:6379"))
}
