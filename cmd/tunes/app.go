package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/mmcdole/tunes/internal/adapter"
	"github.com/mmcdole/tunes/internal/adapter/itunes"
	"github.com/mmcdole/tunes/internal/domain"
	"github.com/mmcdole/tunes/internal/i18n"
	"github.com/mmcdole/tunes/internal/service"
	"github.com/mmcdole/tunes/internal/state"
	"github.com/mmcdole/tunes/internal/store"
)

// app holds the wired services shared by all commands
type app struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	catalog *i18n.Catalog
	store   *state.Store
	search  *service.SearchService

	closers []io.Closer
}

// newApp loads configuration and wires the lookup client, cache, store and
// search effect.
func newApp(path string, opts ...state.Option) (*app, error) {
	cfg, err := adapter.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &app{cfg: cfg}

	logger, logFile, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		a.closers = append(a.closers, logFile)
	}
	slog.SetDefault(logger)
	a.logger = logger

	a.catalog, err = i18n.Load(cfg.UI.MessagesFile)
	if err != nil {
		a.Close()
		return nil, err
	}

	lookup, err := a.newLookup()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.store = state.NewStore(logger, opts...)
	a.search = service.NewSearchService(lookup, logger)
	a.store.Use(a.search.Middleware())
	return a, nil
}

// newLookup builds the iTunes client, wrapped in the response cache when enabled
func (a *app) newLookup() (domain.ArtistLookup, error) {
	cfg := a.cfg
	client := itunes.NewClient(itunes.Options{
		BaseURL: cfg.Lookup.BaseURL,
		Country: cfg.Lookup.Country,
		Limit:   cfg.Lookup.Limit,
		Timeout: cfg.Lookup.Timeout,
	}, a.logger)

	if !cfg.Cache.Enabled {
		return client, nil
	}

	cache, err := store.NewLookupStore(cfg.Cache.Dir, cfg.Lookup.BaseURL)
	if err != nil {
		// A locked or unreadable cache should not stop searching
		a.logger.Warn("lookup cache unavailable, using memory", "dir", cfg.Cache.Dir, "error", err)
		cache, _ = store.NewLookupStore("", "")
	}
	a.closers = append(a.closers, cache)

	return service.NewCachedLookup(client, cache, cfg.Cache.TTL, a.logger,
		cfg.Lookup.Country, strconv.Itoa(cfg.Lookup.Limit)), nil
}

// Close stops the search effect and store, then releases files
func (a *app) Close() {
	if a.search != nil {
		a.search.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.logger != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}
