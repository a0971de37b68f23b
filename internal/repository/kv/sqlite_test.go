package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSQLiteStore_Reopen ensures values and schema version survive a restart.
func TestSQLiteStore_Reopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	store, err := OpenSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "alert/a1", []byte(`{"alertId":"a1"}`)))
	require.NoError(t, store.Confirm(ctx))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(ctx, path)
	require.NoError(t, err)

	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetConfirmed(ctx, "alert/a1")
	require.NoError(t, err)
	require.JSONEq(t, `{"alertId":"a1"}`, string(got))

	var version int
	require.NoError(t, reopened.db.QueryRowContext(ctx, "SELECT version FROM schema_version").Scan(&version))
	require.Equal(t, currentSchemaVersion, version)
}

// TestSQLiteStore_NewerSchema refuses databases written by a newer build.
func TestSQLiteStore_NewerSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := OpenSQLiteStore(ctx, path)
	require.NoError(t, err)

	_, err = store.db.ExecContext(ctx, "UPDATE schema_version SET version = 99")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = OpenSQLiteStore(ctx, path)
	require.ErrorContains(t, err, "newer than supported")
}
