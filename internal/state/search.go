// Package state holds the artist search slice: its events, the pure reducer
// that applies them, and the container that serializes dispatch.
package state

import (
	"slices"

	"github.com/mmcdole/tunes/internal/domain"
)

// SearchState is the artist search slice of the store.
// Results is nil until a lookup succeeds and after a failure or clear.
type SearchState struct {
	QueryTerm string
	Results   *domain.SearchResult
	Err       *domain.ErrorInfo

	// RequestID identifies the latest RequestSearch; outcomes tagged with
	// another id are stale.
	RequestID string
}

// Initial returns the empty search state
func Initial() SearchState {
	return SearchState{}
}

// HasResults reports whether at least one hit is stored
func (s SearchState) HasResults() bool {
	return s.Results.Len() > 0
}

// Loaded reports whether the last request has resolved (results present,
// even if empty, or an error).
func (s SearchState) Loaded() bool {
	return s.Results != nil || s.Err != nil
}

// Event is a store mutation
type Event interface {
	EventName() string
}

// RequestSearch asks for a lookup of Term
type RequestSearch struct {
	Term      string
	RequestID string
}

// SearchSucceeded carries a successful lookup payload
type SearchSucceeded struct {
	Data      domain.SearchResult
	RequestID string
}

// SearchFailed carries a failed lookup; Message may be empty
type SearchFailed struct {
	Message   string
	RequestID string
}

// ClearSearch resets the slice
type ClearSearch struct{}

func (RequestSearch) EventName() string   { return "request_search" }
func (SearchSucceeded) EventName() string { return "search_succeeded" }
func (SearchFailed) EventName() string    { return "search_failed" }
func (ClearSearch) EventName() string     { return "clear_search" }

// Apply returns the state that results from applying ev to s.
// It never mutates s and is total over the event types; unknown events
// return s unchanged.
func Apply(s SearchState, ev Event) SearchState {
	switch e := ev.(type) {
	case RequestSearch:
		s.QueryTerm = e.Term
		s.RequestID = e.RequestID

	case SearchSucceeded:
		if stale(s, e.RequestID) {
			return s
		}
		data := e.Data
		data.Results = slices.Clone(e.Data.Results)
		s.Results = &data
		s.Err = nil

	case SearchFailed:
		if stale(s, e.RequestID) {
			return s
		}
		s.Err = &domain.ErrorInfo{Message: domain.FailureMessage(e.Message)}
		s.Results = nil

	case ClearSearch:
		return Initial()
	}
	return s
}

// stale reports whether an outcome tagged with id belongs to a superseded request
func stale(s SearchState, id string) bool {
	return id != "" && id != s.RequestID
}
