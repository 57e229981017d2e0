package state_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-globals/pkg/state"
)

func TestFileStoreReadMissingIsAbsent(t *testing.T) {
	store := state.NewFileStore(filepath.Join(t.TempDir(), "save"))

	blob, ok, err := store.Read(context.Background(), "globals.rmmzsave")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, blob)
}

func TestFileStoreWriteCreatesFolderAndReplaces(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "save")
	store := state.NewFileStore(dir)

	require.NoError(t, store.Write(ctx, "globals.rpgsave", "first"))
	require.NoError(t, store.Write(ctx, "globals.rpgsave", "second"))

	blob, ok, err := store.Read(ctx, "globals.rpgsave")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", blob)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not survive a write")
	assert.Equal(t, "globals.rpgsave", entries[0].Name())
}

func TestFileStoreWriteFailurePropagates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory permissions differ on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0o500))
	t.Cleanup(func() { _ = os.Chmod(parent, 0o755) })

	store := state.NewFileStore(filepath.Join(parent, "save"))
	err := store.Write(context.Background(), "globals.rmmzsave", "blob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state: create save dir")
}

func TestFileStorePath(t *testing.T) {
	store := state.NewFileStore("save")
	assert.Equal(t, filepath.Join("save", "globals.rmmzsave"), store.Path("globals.rmmzsave"))
}
