package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/tunes/internal/store"
)

const testEndpoint = "https://itunes.apple.com"

func TestClearLookupCacheKeepsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	playlist := filepath.Join(dir, "my-playlist.m3u")
	require.NoError(t, os.WriteFile(playlist, []byte("#EXTM3U\n"), 0644))

	cache, err := store.NewLookupStore(dir, testEndpoint)
	require.NoError(t, err)
	require.NoError(t, cache.SaveLookup("prince", sampleResult()))
	require.NoError(t, cache.Close())

	require.NoError(t, clearLookupCache(dir, testEndpoint))

	data, err := os.ReadFile(playlist)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\n", string(data))

	cache, err = store.NewLookupStore(dir, testEndpoint)
	require.NoError(t, err)
	defer cache.Close()
	_, ok := cache.GetLookup("prince", time.Hour)
	assert.False(t, ok)
}

func TestClearLookupCacheWithoutDir(t *testing.T) {
	assert.NoError(t, clearLookupCache("", testEndpoint))
}
