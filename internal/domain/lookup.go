package domain

import (
	"context"
	"time"
)

// LookupResponse is the outcome of a lookup that reached the service.
// When OK is false, Message holds the failure reason reported by the API (may be empty).
type LookupResponse struct {
	OK      bool
	Data    SearchResult
	Message string
}

// ArtistLookup resolves a search term to artist hits.
// A returned error means the call itself failed (transport, decoding);
// service-reported failures come back as a response with OK == false.
type ArtistLookup interface {
	LookupArtists(ctx context.Context, term string) (LookupResponse, error)
}

// LookupCache stores successful lookup payloads
type LookupCache interface {
	GetLookup(key string, maxAge time.Duration) (SearchResult, bool)
	SaveLookup(key string, result SearchResult) error
	InvalidateAll() error
	Close() error
}
