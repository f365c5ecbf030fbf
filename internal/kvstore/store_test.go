package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func runStoreSuite(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "chat:c1:l1:t1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "chat:c1:l1:t1", []byte("one")))
	require.NoError(t, store.Set(ctx, "chat:c1:l1:t2", []byte("two")))
	require.NoError(t, store.Set(ctx, "comments:c1:l1", []byte("three")))

	value, ok, err := store.Get(ctx, "chat:c1:l1:t1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("one"), value)

	// Overwrite.
	require.NoError(t, store.Set(ctx, "chat:c1:l1:t1", []byte("uno")))
	value, ok, err = store.Get(ctx, "chat:c1:l1:t1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("uno"), value)

	keys, err := store.Keys(ctx, "chat:")
	require.NoError(t, err)
	require.Equal(t, []string{"chat:c1:l1:t1", "chat:c1:l1:t2"}, keys)

	keys, err = store.Keys(ctx, "comments:")
	require.NoError(t, err)
	require.Equal(t, []string{"comments:c1:l1"}, keys)

	require.NoError(t, store.Delete(ctx, "chat:c1:l1:t1"))
	_, ok, err = store.Get(ctx, "chat:c1:l1:t1")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting a missing key is not an error.
	require.NoError(t, store.Delete(ctx, "chat:c1:l1:t1"))
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, NewMemory())
}

func TestLocalStore(t *testing.T) {
	store, err := New("local", map[string]interface{}{"dir": t.TempDir()})
	require.NoError(t, err)
	runStoreSuite(t, store)
}

func TestLocalStoreRequiresDir(t *testing.T) {
	_, err := New("local", map[string]interface{}{})
	require.Error(t, err)
}

func TestNewUnknownType(t *testing.T) {
	_, err := New("cassandra", nil)
	require.Error(t, err)
}

func TestNewMemoryIgnoresArgs(t *testing.T) {
	store, err := New("memory", nil)
	require.NoError(t, err)
	require.NotNil(t, store)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	input := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", input))
	input[0] = 'x'

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("abc"), value)

	value[0] = 'y'
	again, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), again)
}
