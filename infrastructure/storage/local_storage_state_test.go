package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageStateSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	store, err := NewLocalStorageState(dir)
	require.NoError(t, err)

	items, err := store.Load("https://example.com")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, store.Save("https://example.com", map[string]string{"token": "abc"}))
	require.NoError(t, store.Save("https://a.test", map[string]string{"k": "v"}))
	require.NoError(t, store.Save("https://example.com", map[string]string{"token": "def", "lang": "en"}))

	items, err = store.Load("https://example.com")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"token": "def", "lang": "en"}, items)

	origins, err := store.Origins()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.test", "https://example.com"}, origins)

	assert.FileExists(t, filepath.Join(dir, localStorageFile))
	assert.NoFileExists(t, filepath.Join(dir, localStorageFile+".tmp"))
}

func TestLocalStorageStatePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first, err := NewLocalStorageState(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save("https://example.com", map[string]string{"sid": "1"}))

	second, err := NewLocalStorageState(dir)
	require.NoError(t, err)
	items, err := second.Load("https://example.com")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"sid": "1"}, items)
}

func TestLocalStorageStateCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, localStorageFile), []byte("{broken"), 0600))

	store, err := NewLocalStorageState(dir)
	require.NoError(t, err)

	_, err = store.Load("https://example.com")
	assert.Error(t, err)
	assert.Error(t, store.Save("https://example.com", map[string]string{}))
}
