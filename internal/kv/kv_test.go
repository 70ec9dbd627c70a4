package kv

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "events")
	require.NoError(t, err)
	assert.False(t, ok, "unset key must report ok=false")

	require.NoError(t, s.Set(ctx, "events", `[{"id":"a"}]`))
	v, ok, err := s.Get(ctx, "events")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, v)

	require.NoError(t, s.Set(ctx, "events", "[]"))
	v, _, err = s.Get(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	require.NoError(t, s.Set(ctx, "theme-dark", ""))
	v, ok, err = s.Get(ctx, "theme-dark")
	require.NoError(t, err)
	assert.True(t, ok, "empty value is still a written key")
	assert.Empty(t, v)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	s, err := OpenFileStore(discardLogger(), path)
	require.NoError(t, err)
	exerciseStore(t, s)

	reopened, err := OpenFileStore(discardLogger(), path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(context.Background(), "events")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := OpenFileStore(discardLogger(), path)
	require.NoError(t, err)
	_, ok, err := s.Get(context.Background(), "events")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(context.Background(), "theme-dark", "1"))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"theme-dark": "1"`)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := OpenSQLiteStore(context.Background(), path)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Close())

	reopened, err := OpenSQLiteStore(context.Background(), path)
	require.NoError(t, err)
	defer reopened.Close()
	v, ok, err := reopened.Get(context.Background(), "events")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	s, err := OpenSQLiteStore(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("EVENTDESK_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("EVENTDESK_TEST_DATABASE_URL not set")
	}
	s, err := OpenPostgresStore(context.Background(), url)
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("EVENTDESK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("EVENTDESK_TEST_REDIS_ADDR not set")
	}
	s, err := OpenRedisStore(context.Background(), addr, "", 0)
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, discardLogger(), Options{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, discardLogger(), Options{Path: filepath.Join(t.TempDir(), "x.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s, "empty backend defaults to file")

	_, err = Open(ctx, discardLogger(), Options{Backend: "floppy"})
	assert.ErrorContains(t, err, "unknown storage backend")

	_, err = Open(ctx, discardLogger(), Options{Backend: "postgres"})
	assert.ErrorContains(t, err, "DATABASE_URL")
}
