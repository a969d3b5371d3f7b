package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberguard/storage"
)

func TestMemory(t *testing.T) {
	store := storage.NewMemory()

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, storage.ErrNoValue)

	require.NoError(t, store.Put("posts", []byte(`[]`)))
	value, err := store.Get("posts")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value)

	// Put replaces the whole value.
	require.NoError(t, store.Put("posts", []byte(`[{"id":"a"}]`)))
	value, err = store.Get("posts")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"a"}]`), value)

	require.NoError(t, store.Delete("posts"))
	_, err = store.Get("posts")
	assert.ErrorIs(t, err, storage.ErrNoValue)
}

func TestMemoryCopiesValues(t *testing.T) {
	store := storage.NewMemory()

	original := []byte("abc")
	require.NoError(t, store.Put("k", original))
	original[0] = 'z'

	value, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), value)
}

func TestSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, storage.Migrate(dbPath))

	store, err := storage.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, storage.ErrNoValue)

	require.NoError(t, store.Put("posts", []byte(`["one"]`)))
	value, err := store.Get("posts")
	require.NoError(t, err)
	assert.Equal(t, []byte(`["one"]`), value)

	require.NoError(t, store.Put("posts", []byte(`["one","two"]`)))
	value, err = store.Get("posts")
	require.NoError(t, err)
	assert.Equal(t, []byte(`["one","two"]`), value)

	require.NoError(t, store.Delete("posts"))
	_, err = store.Get("posts")
	assert.ErrorIs(t, err, storage.ErrNoValue)
}
