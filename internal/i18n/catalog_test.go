package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	for _, id := range []string{
		"artist_search", "artist_list", "search_query_artist", "matching_artists",
		"artist_name", "track_name", "genre", "no_results_found",
		"artist_search_default", "something_went_wrong",
	} {
		assert.True(t, c.Has(id), id)
	}

	assert.Equal(t, "No results found", c.T("no_results_found", nil))
	assert.Equal(t, "3 matching tracks", c.T("matching_artists", Values{"totalCount": 3}))
	assert.Equal(t, `Results for "prince"`, c.T("search_query_artist", Values{"artistName": "prince"}))
}

func TestUnknownIDPassesThrough(t *testing.T) {
	c := Default()
	assert.Equal(t, "Invalid value(s) for key(s): [country]", c.T("Invalid value(s) for key(s): [country]", nil))
}

func TestPlaceholderValuesAreNotReexpanded(t *testing.T) {
	c := Default()
	assert.Equal(t, "Artist: {genre}", c.T("artist_name", Values{"name": "{genre}", "genre": "Pop"}))
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.toml")
	require.NoError(t, os.WriteFile(path, []byte(`no_results_found = "Nichts gefunden"`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Nichts gefunden", c.T("no_results_found", nil))
	assert.Equal(t, "Artists", c.T("artist_list", nil))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte(`no_results_found = `), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}
