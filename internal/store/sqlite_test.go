package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "menu.db"))

	_, ok, err := s.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, KeyTheme, "dark"))

	v, ok, err := s.Get(ctx, KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", v)

	// overwrite
	require.NoError(t, s.Put(ctx, KeyTheme, "light"))
	v, _, err = s.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "light", v)

	require.NoError(t, s.Delete(ctx, KeyTheme))
	_, ok, err = s.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValuesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "menu.db")

	s := openTestStore(t, path)
	require.NoError(t, s.Put(ctx, KeyTheme, "dark"))
	require.NoError(t, s.Put(ctx, KeyCart, `[{"product_id":"p1","name":"Латте","price":65,"qty":2}]`))
	require.NoError(t, s.Close())

	reopened := openTestStore(t, path)

	theme, ok, err := reopened.Get(ctx, KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", theme)

	cart, ok, err := reopened.Get(ctx, KeyCart)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, cart, "p1")
}
