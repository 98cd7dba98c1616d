package filestore

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/pos-console/internal/ports"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "default.json")

	s, err := New(path)
	require.NoError(t, err)

	_, err = s.Get(ctx, "user")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)

	require.NoError(t, s.Commit(ctx, ports.Batch{Set: map[string][]byte{
		"access_token": []byte("a"),
		"user":         []byte(`{"id":1}`),
	}}))

	// A second handle on the same file sees the data.
	s2, err := New(path)
	require.NoError(t, err)
	v, err := s2.Get(ctx, "user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(v))

	require.NoError(t, s.Commit(ctx, ports.Batch{Delete: []string{"access_token"}}))
	_, err = s.Get(ctx, "access_token")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)

	if runtime.GOOS != "windows" {
		info, statErr := os.Stat(path)
		require.NoError(t, statErr)
		assert.Equal(t, os.FileMode(fileMode), info.Mode().Perm())
	}

	require.NoError(t, s.Clear(ctx))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, s.Clear(ctx))
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "p.json"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Commit(context.Background(), ports.Batch{Set: map[string][]byte{"k": []byte("v")}}))
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := New(path)
	require.NoError(t, err)
	_, err = s.Get(context.Background(), "user")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrKeyNotFound)
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
