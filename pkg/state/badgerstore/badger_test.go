package badgerstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-globals/pkg/state"
)

func TestStoreInMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(InMemoryConfig())
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Read(ctx, state.KeyValueKey)
	require.NoError(t, err)
	assert.False(t, ok, "fresh database has no globals")

	require.NoError(t, store.Write(ctx, state.KeyValueKey, "blob-1"))
	require.NoError(t, store.Write(ctx, state.KeyValueKey, "blob-2"))

	blob, ok, err := store.Read(ctx, state.KeyValueKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "blob-2", blob)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, state.KeyValueKey, "durable"))
	require.NoError(t, store.Close())

	reopened, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer reopened.Close()

	blob, ok, err := reopened.Read(ctx, state.KeyValueKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "durable", blob)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestOpenerPlugsIntoStateOpen(t *testing.T) {
	env := state.Environment{Runtime: state.RuntimeBrowser, KVPath: t.TempDir()}

	store, loc, closeFn, err := state.Open(context.Background(), env, Opener(nil))
	require.NoError(t, err)
	defer closeFn()

	_, isBadger := store.(*Store)
	assert.True(t, isBadger)
	assert.Equal(t, state.KeyValueKey, loc.Key)
	assert.Equal(t, env.KVPath, loc.Path)
}

func TestStoreRequiresKey(t *testing.T) {
	store, err := Open(InMemoryConfig())
	require.NoError(t, err)
	defer store.Close()

	assert.ErrorIs(t, store.Write(context.Background(), "", "x"), state.ErrKeyRequired)
}
