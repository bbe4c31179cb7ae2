package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/tunes/internal/domain"
	"github.com/mmcdole/tunes/internal/store"
)

// CachedLookup serves successful lookups from a cache before asking the
// wrapped lookup. Failures are never cached.
type CachedLookup struct {
	next   domain.ArtistLookup
	cache  domain.LookupCache
	ttl    time.Duration
	params []string
	logger *slog.Logger
}

// NewCachedLookup wraps next. params are folded into the cache key so that
// results for different countries or limits do not collide.
func NewCachedLookup(next domain.ArtistLookup, cache domain.LookupCache, ttl time.Duration, logger *slog.Logger, params ...string) *CachedLookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedLookup{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		params: params,
		logger: logger,
	}
}

// LookupArtists implements domain.ArtistLookup
func (c *CachedLookup) LookupArtists(ctx context.Context, term string) (domain.LookupResponse, error) {
	key := store.LookupKey(term, c.params...)

	if result, ok := c.cache.GetLookup(key, c.ttl); ok {
		c.logger.Debug("lookup cache hit", "term", term, "results", result.ResultCount)
		return domain.LookupResponse{OK: true, Data: result}, nil
	}

	resp, err := c.next.LookupArtists(ctx, term)
	if err != nil || !resp.OK {
		return resp, err
	}

	if err := c.cache.SaveLookup(key, resp.Data); err != nil {
		c.logger.Warn("failed to cache lookup", "term", term, "error", err)
	}
	return resp, nil
}
