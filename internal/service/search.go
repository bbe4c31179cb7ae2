package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/tunes/internal/domain"
	"github.com/mmcdole/tunes/internal/state"
)

// SearchService bridges RequestSearch events to the lookup service.
// Only the most recent request is honored: a newer RequestSearch or a
// ClearSearch cancels the lookup in flight and its outcome is discarded.
type SearchService struct {
	lookup domain.ArtistLookup
	logger *slog.Logger

	base context.Context
	stop context.CancelFunc

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	pending int
	wg      sync.WaitGroup
}

// NewSearchService creates a new search service
func NewSearchService(lookup domain.ArtistLookup, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	base, stop := context.WithCancel(context.Background())
	return &SearchService{
		lookup: lookup,
		logger: logger,
		base:   base,
		stop:   stop,
	}
}

// Middleware returns the store hook that drives lookups
func (s *SearchService) Middleware() state.Middleware {
	return func(ev state.Event, dispatch func(state.Event)) {
		switch e := ev.(type) {
		case state.RequestSearch:
			s.start(e, dispatch)
		case state.ClearSearch:
			s.cancelInFlight("cleared")
		}
	}
}

// InFlight returns the number of lookups that have not returned yet,
// including superseded ones still unwinding.
func (s *SearchService) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Close cancels any lookup in flight and waits for its goroutine to exit
func (s *SearchService) Close() {
	s.stop()
	s.wg.Wait()
}

func (s *SearchService) start(req state.RequestSearch, dispatch func(state.Event)) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.logger.Debug("superseded in-flight lookup", "term", req.Term)
	}
	ctx, cancel := context.WithCancel(s.base)
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.pending++
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Debug("starting lookup", "term", req.Term, "request_id", req.RequestID)

	go func() {
		defer s.wg.Done()
		defer cancel()

		outcome := s.run(ctx, req)

		s.mu.Lock()
		s.pending--
		latest := gen == s.gen
		if latest {
			s.cancel = nil
		}
		s.mu.Unlock()

		if outcome == nil || !latest {
			s.logger.Debug("discarding stale lookup", "term", req.Term, "request_id", req.RequestID)
			return
		}
		dispatch(outcome)
	}()
}

// run performs the lookup and maps it to an outcome event.
// Returns nil when the lookup was cancelled.
func (s *SearchService) run(ctx context.Context, req state.RequestSearch) (outcome state.Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("lookup panicked", "term", req.Term, "panic", fmt.Sprint(r))
			outcome = state.SearchFailed{RequestID: req.RequestID}
		}
	}()

	resp, err := s.lookup.LookupArtists(ctx, req.Term)
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		// transport faults carry no user-facing message
		s.logger.Warn("lookup failed", "term", req.Term, "error", err)
		return state.SearchFailed{RequestID: req.RequestID}
	}
	if !resp.OK {
		return state.SearchFailed{Message: resp.Message, RequestID: req.RequestID}
	}

	s.logger.Info("lookup succeeded", "term", req.Term, "results", resp.Data.ResultCount)
	return state.SearchSucceeded{Data: resp.Data, RequestID: req.RequestID}
}

func (s *SearchService) cancelInFlight(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.logger.Debug("cancelled in-flight lookup", "reason", reason)
	}
}
