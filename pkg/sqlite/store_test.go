package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/otpmirror/pkg/kvstore"
	"github.com/dmitrymomot/otpmirror/pkg/sqlite"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db, err := sqlite.OpenMemory(context.Background(), t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStore_GetSetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := sqlite.NewStore(setupTestDB(t))

	_, err := store.Get(ctx, "credentials")
	require.ErrorIs(t, err, kvstore.ErrNotFound)

	require.NoError(t, store.Set(ctx, "credentials", []byte(`[{"id":"a"}]`)))
	got, err := store.Get(ctx, "credentials")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"a"}]`), got)

	require.NoError(t, store.Set(ctx, "credentials", []byte(`[]`)))
	got, err = store.Get(ctx, "credentials")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	require.NoError(t, store.Delete(ctx, "credentials"))
	require.NoError(t, store.Delete(ctx, "credentials"))
	_, err = store.Get(ctx, "credentials")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestStore_EmptyValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := sqlite.NewStore(setupTestDB(t))

	require.NoError(t, store.Set(ctx, "empty", nil))
	got, err := store.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_JSONHelpers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := sqlite.NewStore(setupTestDB(t))

	in := map[string]int{"a": 1, "b": 2}
	require.NoError(t, kvstore.SetJSON(ctx, store, "m", in))

	var out map[string]int
	found, err := kvstore.GetJSON(ctx, store, "m", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestOpen_FileSurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "node.db")

	db, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, sqlite.NewStore(db).Set(ctx, "codeInfos", []byte(`{"codeInfos":[]}`)))
	require.NoError(t, db.Healthcheck()(ctx))
	require.NoError(t, db.Close())

	// Reopening runs migrations again, which must be a no-op.
	db, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	got, err := sqlite.NewStore(db).Get(ctx, "codeInfos")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"codeInfos":[]}`), got)
}
