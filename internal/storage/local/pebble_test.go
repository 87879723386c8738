package local_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iggydv12/dashcache/internal/storage/local"
)

func setupPebble(t *testing.T) (*local.PebbleStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-pebble")
	s := local.NewPebbleStore(path, zaptest.NewLogger(t))
	require.NoError(t, s.Init())
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestPebbleSetGet(t *testing.T) {
	s, _ := setupPebble(t)

	require.NoError(t, s.Set("rental_app_nav_state", `{"version":"1.0"}`))
	got, err := s.Get("rental_app_nav_state")
	require.NoError(t, err)
	assert.Equal(t, `{"version":"1.0"}`, got)
}

func TestPebbleMissingKey(t *testing.T) {
	s, _ := setupPebble(t)

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, local.ErrNoSuchKey)
}

func TestPebbleOverwriteAndDelete(t *testing.T) {
	s, _ := setupPebble(t)

	require.NoError(t, s.Set("k", "v1"))
	require.NoError(t, s.Set("k", "v2"))
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k")) // idempotent
	_, err = s.Get("k")
	assert.ErrorIs(t, err, local.ErrNoSuchKey)
}

func TestPebbleKeys(t *testing.T) {
	s, _ := setupPebble(t)

	for _, k := range []string{"b", "a", "c"} {
		require.NoError(t, s.Set(k, "x"))
	}
	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	require.NoError(t, s.Delete("b"))
	keys, err = s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, keys)
}

func TestPebblePersistsAcrossReopen(t *testing.T) {
	s, path := setupPebble(t)
	require.NoError(t, s.Set("authToken", "abc"))
	require.NoError(t, s.Close())

	reopened := local.NewPebbleStore(path, zaptest.NewLogger(t))
	require.NoError(t, reopened.Init())
	defer reopened.Close()

	got, err := reopened.Get("authToken")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}
