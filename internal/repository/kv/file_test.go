package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFileStore_Reopen ensures tentative and confirmed values survive a restart.
func TestFileStore_Reopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	store, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "alert_index", []byte(`["a1"]`)))
	require.NoError(t, store.Confirm(ctx))
	require.NoError(t, store.Put(ctx, "alert_index", []byte(`["a1","a2"]`)))

	_, err = os.Stat(path)
	require.NoError(t, err)

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, "alert_index")
	require.NoError(t, err)
	require.JSONEq(t, `["a1","a2"]`, string(got))

	got, err = reopened.GetConfirmed(ctx, "alert_index")
	require.NoError(t, err)
	require.JSONEq(t, `["a1"]`, string(got))
}

// TestFileStore_Corrupt reports undecodable files and rejects invalid JSON values.
func TestFileStore_Corrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := OpenFileStore(path)
	require.Error(t, err)

	store, err := OpenFileStore(filepath.Join(t.TempDir(), "fresh.json"))
	require.NoError(t, err)
	require.Error(t, store.Put(context.Background(), "k", []byte("{")))
}

// TestFileStore_FailedFlush keeps memory in step with the file when writes fail.
func TestFileStore_FailedFlush(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "state")
	require.NoError(t, os.Mkdir(dir, 0o700))

	path := filepath.Join(dir, "state.json")

	store, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "k", []byte(`1`)))
	require.NoError(t, os.RemoveAll(dir))

	require.Error(t, store.Put(ctx, "k", []byte(`2`)))
	require.Error(t, store.Put(ctx, "fresh", []byte(`3`)))
	require.Error(t, store.Confirm(ctx))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.JSONEq(t, `1`, string(got))

	_, err = store.Get(ctx, "fresh")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetConfirmed(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, os.Mkdir(dir, 0o700))
	require.NoError(t, store.Confirm(ctx))

	got, err = store.GetConfirmed(ctx, "k")
	require.NoError(t, err)
	require.JSONEq(t, `1`, string(got))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)

	_, err = reopened.Get(ctx, "fresh")
	require.ErrorIs(t, err, ErrNotFound)
}
