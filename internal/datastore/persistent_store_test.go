package datastore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/featuregate/go-client-sdk/subsystems"
)

func testStoreBehavior(t *testing.T, makeStore func(t *testing.T) subsystems.PersistentStore) {
	t.Run("get of unknown key is a miss", func(t *testing.T) {
		store := makeStore(t)
		_, ok := store.Get("nope")
		assert.False(t, ok)
	})

	t.Run("set and get", func(t *testing.T) {
		store := makeStore(t)
		store.Set("key1", []byte("value1"))
		store.Set("key2", []byte("value2"))

		data, ok := store.Get("key1")
		require.True(t, ok)
		assert.Equal(t, "value1", string(data))

		store.Set("key1", []byte("updated"))
		data, _ = store.Get("key1")
		assert.Equal(t, "updated", string(data))
	})

	t.Run("delete", func(t *testing.T) {
		store := makeStore(t)
		store.Set("key1", []byte("value1"))
		store.Delete("key1")
		store.Delete("never-existed")
		_, ok := store.Get("key1")
		assert.False(t, ok)
	})

	t.Run("delete all", func(t *testing.T) {
		store := makeStore(t)
		store.Set("key1", []byte("value1"))
		store.Set("key2", []byte("value2"))
		store.DeleteAll()
		_, ok := store.Get("key1")
		assert.False(t, ok)
		_, ok = store.Get("key2")
		assert.False(t, ok)
	})
}

func TestMemoryPersistentStore(t *testing.T) {
	testStoreBehavior(t, func(t *testing.T) subsystems.PersistentStore {
		return NewMemoryPersistentStore()
	})
}

func TestFilePersistentStore(t *testing.T) {
	testStoreBehavior(t, func(t *testing.T) subsystems.PersistentStore {
		return NewFilePersistentStore(filepath.Join(t.TempDir(), "cache.json"), ldlog.NewDisabledLoggers())
	})
}

func TestFilePersistentStoreSurvivesReopening(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	store := NewFilePersistentStore(path, ldlog.NewDisabledLoggers())
	store.Set("key1", []byte("value1"))

	reopened := NewFilePersistentStore(path, ldlog.NewDisabledLoggers())
	data, ok := reopened.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "value1", string(data))
}

func TestFilePersistentStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "cache.json")
	store := NewFilePersistentStore(path, ldlog.NewDisabledLoggers())
	store.Set("key1", []byte("value1"))
	_, ok := store.Get("key1")
	assert.True(t, ok)
}

func TestFilePersistentStoreTreatsCorruptFileAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0600))

	store := NewFilePersistentStore(path, ldlog.NewDisabledLoggers())
	_, ok := store.Get("key1")
	assert.False(t, ok)

	// Writing replaces the corrupt file with a valid one.
	store.Set("key1", []byte("value1"))
	data, ok := store.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "value1", string(data))
}

func TestFilePersistentStoreLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFilePersistentStore(filepath.Join(dir, "cache.json"), ldlog.NewDisabledLoggers())
	store.Set("key1", []byte("value1"))
	store.Set("key2", []byte("value2"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cache.json", entries[0].Name())
}
