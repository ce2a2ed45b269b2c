package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get("missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set("qf_blur_time", "1700000000000"))
			got, err := store.Get("qf_blur_time")
			require.NoError(t, err)
			assert.Equal(t, "1700000000000", got)

			// Overwrite
			require.NoError(t, store.Set("qf_blur_time", "1700000001000"))
			got, err = store.Get("qf_blur_time")
			require.NoError(t, err)
			assert.Equal(t, "1700000001000", got)

			require.NoError(t, store.Set("qf_is_switching", "true"))
			keys, err := store.Keys()
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"qf_blur_time", "qf_is_switching"}, keys)

			require.NoError(t, store.Delete("qf_blur_time"))
			_, err = store.Get("qf_blur_time")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting twice is fine
			assert.NoError(t, store.Delete("qf_blur_time"))
		})
	}
}

func TestPrefixedIsolatesNamespaces(t *testing.T) {
	backing := NewMemoryStore()
	alice := NewPrefixed(backing, "u_alice_")
	bob := NewPrefixed(backing, "u_bob_")

	require.NoError(t, alice.Set("snapshot", "a"))
	require.NoError(t, bob.Set("snapshot", "b"))

	got, err := alice.Get("snapshot")
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	keys, err := alice.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshot"}, keys)

	require.NoError(t, alice.Delete("snapshot"))
	_, err = alice.Get("snapshot")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = bob.Get("snapshot")
	require.NoError(t, err)
	assert.Equal(t, "b", got, "deleting in one namespace must not touch another")
}

func TestFileStoreRejectsUnsafeKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", "a/b", "a\\b", "key with space"} {
		assert.Error(t, store.Set(key, "v"), "key %q", key)
	}
}
