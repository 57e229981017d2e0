package state_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-globals/pkg/state"
)

func TestMemoryStoreReadAbsent(t *testing.T) {
	store := state.NewMemoryStore()

	blob, ok, err := store.Read(context.Background(), state.KeyValueKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, blob)
}

func TestMemoryStoreOverwrites(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()

	require.NoError(t, store.Write(ctx, state.KeyValueKey, "old"))
	require.NoError(t, store.Write(ctx, state.KeyValueKey, "new"))

	blob, ok, err := store.Read(ctx, state.KeyValueKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", blob)
	assert.Equal(t, 2, store.Writes())
}

func TestMemoryStoreRequiresKey(t *testing.T) {
	store := state.NewMemoryStore()

	_, _, err := store.Read(context.Background(), "")
	assert.ErrorIs(t, err, state.ErrKeyRequired)
	assert.ErrorIs(t, store.Write(context.Background(), "", "x"), state.ErrKeyRequired)
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := state.NewMemoryStore()

	assert.ErrorIs(t, store.Write(ctx, state.KeyValueKey, "x"), context.Canceled)
	assert.Equal(t, 0, store.Writes())
}
