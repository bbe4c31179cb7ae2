package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/tunes/internal/adapter"
	"github.com/mmcdole/tunes/internal/domain"
	"github.com/mmcdole/tunes/internal/store"
)

func TestCachedLookupServesRepeatsFromCache(t *testing.T) {
	lookup := newFakeLookup()
	lookup.respond("prince", okResult("Prince"))

	cache, err := store.NewLookupStore("", "")
	require.NoError(t, err)

	cached := NewCachedLookup(lookup, cache, time.Hour, adapter.NullLogger(), "US", "25")

	for i := 0; i < 3; i++ {
		resp, err := cached.LookupArtists(context.Background(), "prince")
		require.NoError(t, err)
		assert.True(t, resp.OK)
		assert.Equal(t, "Prince", resp.Data.Results[0].ArtistName)
	}
	assert.Equal(t, 1, lookup.callCount())

	_, err = cached.LookupArtists(context.Background(), "PRINCE ")
	require.NoError(t, err)
	assert.Equal(t, 1, lookup.callCount(), "keys are case and space insensitive")
}

func TestCachedLookupDoesNotCacheFailures(t *testing.T) {
	lookup := newFakeLookup()
	lookup.respond("prince", domain.LookupResponse{OK: false, Message: "nope"})

	cache, err := store.NewLookupStore("", "")
	require.NoError(t, err)
	cached := NewCachedLookup(lookup, cache, time.Hour, nil)

	for i := 0; i < 2; i++ {
		resp, err := cached.LookupArtists(context.Background(), "prince")
		require.NoError(t, err)
		assert.False(t, resp.OK)
	}
	assert.Equal(t, 2, lookup.callCount())
	assert.Equal(t, 0, cache.Len())
}

func TestRankHits(t *testing.T) {
	hits := []domain.ArtistHit{
		{ArtistName: "The Artist Formerly Known as Prince"},
		{ArtistName: "Prince Royce"},
		{ArtistName: "Prynce"},
		{ArtistName: "Prince"},
		{ArtistName: "Prince & The Revolution"},
	}

	ranked := RankHits("Prince", hits)

	names := make([]string, len(ranked))
	for i, h := range ranked {
		names[i] = h.ArtistName
	}
	assert.Equal(t, []string{
		"Prince",
		"Prince Royce",
		"Prince & The Revolution",
		"The Artist Formerly Known as Prince",
		"Prynce",
	}, names)

	assert.Equal(t, "The Artist Formerly Known as Prince", hits[0].ArtistName, "input is untouched")
	assert.Empty(t, RankHits("x", nil))
}
