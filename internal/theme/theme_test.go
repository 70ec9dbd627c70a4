package theme

import (
	"context"
	"errors"
	"eventdesk/internal/kv"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingKV struct {
	*kv.MemoryStore
	writes []string
	fail   bool
}

func (r *recordingKV) Set(ctx context.Context, key, value string) error {
	if r.fail {
		return errors.New("read-only")
	}
	r.writes = append(r.writes, key+"="+value)
	return r.MemoryStore.Set(ctx, key, value)
}

func TestLoad_Defaults(t *testing.T) {
	ctx := context.Background()
	for stored, want := range map[string]bool{"1": true, "0": false, "": false, "yes": false, "true": false} {
		kvs := kv.NewMemoryStore()
		require.NoError(t, kvs.Set(ctx, Key, stored))
		p, err := Load(ctx, testLogger(), kvs)
		require.NoError(t, err)
		assert.Equal(t, want, p.Dark(), "stored %q", stored)
	}

	p, err := Load(ctx, testLogger(), kv.NewMemoryStore())
	require.NoError(t, err)
	assert.False(t, p.Dark(), "unset means light")
}

func TestToggle_TwiceRestoresAndPersistsEachState(t *testing.T) {
	ctx := context.Background()
	kvs := &recordingKV{MemoryStore: kv.NewMemoryStore()}
	p, err := Load(ctx, testLogger(), kvs)
	require.NoError(t, err)

	dark, err := p.Toggle(ctx)
	require.NoError(t, err)
	assert.True(t, dark)

	dark, err = p.Toggle(ctx)
	require.NoError(t, err)
	assert.False(t, dark)
	assert.False(t, p.Dark())

	assert.Equal(t, []string{"theme-dark=1", "theme-dark=0"}, kvs.writes)

	reloaded, err := Load(ctx, testLogger(), kvs)
	require.NoError(t, err)
	assert.False(t, reloaded.Dark())
}

func TestToggle_FailedWriteKeepsValue(t *testing.T) {
	ctx := context.Background()
	kvs := &recordingKV{MemoryStore: kv.NewMemoryStore(), fail: true}
	p, err := Load(ctx, testLogger(), kvs)
	require.NoError(t, err)

	dark, err := p.Toggle(ctx)
	require.Error(t, err)
	assert.False(t, dark)
	assert.False(t, p.Dark())
}
