package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/tunes/internal/adapter"
	"github.com/mmcdole/tunes/internal/domain"
	"github.com/mmcdole/tunes/internal/i18n"
	"github.com/mmcdole/tunes/internal/service"
	"github.com/mmcdole/tunes/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

type fakeLookup struct {
	mu        sync.Mutex
	responses map[string]domain.LookupResponse
	errs      map[string]error
	terms     []string
}

func (f *fakeLookup) LookupArtists(ctx context.Context, term string) (domain.LookupResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terms = append(f.terms, term)
	if err, ok := f.errs[term]; ok {
		return domain.LookupResponse{}, err
	}
	if resp, ok := f.responses[term]; ok {
		return resp, nil
	}
	return domain.LookupResponse{OK: true, Data: domain.SearchResult{}}, nil
}

func (f *fakeLookup) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.terms...)
}

type fakeOpener struct {
	urls []string
	err  error
}

func (f *fakeOpener) Open(url string) error {
	f.urls = append(f.urls, url)
	return f.err
}

func princeHits() domain.SearchResult {
	hits := []domain.ArtistHit{
		{ArtistName: "Prince", TrackName: "Purple Rain", PrimaryGenreName: "Pop", TrackViewURL: "https://music.apple.com/1"},
		{ArtistName: "Prince", TrackName: "Kiss", PrimaryGenreName: "R&B/Soul", TrackViewURL: "https://music.apple.com/2"},
		{ArtistName: "Prince Royce", TrackName: "Darte un Beso", PrimaryGenreName: "Latin"},
	}
	return domain.SearchResult{ResultCount: len(hits), Results: hits}
}

type harness struct {
	lookup *fakeLookup
	opener *fakeOpener
	store  *state.Store
	model  Model
}

func newHarness(t *testing.T, opts ...state.Option) *harness {
	t.Helper()
	return newHarnessWithDelay(t, 10*time.Millisecond, opts...)
}

func newHarnessWithDelay(t *testing.T, delay time.Duration, opts ...state.Option) *harness {
	t.Helper()

	logger := adapter.NullLogger()
	lookup := &fakeLookup{
		responses: map[string]domain.LookupResponse{
			"prince": {OK: true, Data: princeHits()},
			"zzzqqq": {OK: true, Data: domain.SearchResult{ResultCount: 0, Results: []domain.ArtistHit{}}},
			"bad":    {OK: false, Message: "Invalid value(s) for key(s): [country]"},
		},
		errs: map[string]error{
			"offline": errors.New("dial tcp: connection refused"),
		},
	}
	store := state.NewStore(logger, opts...)
	svc := service.NewSearchService(lookup, logger)
	store.Use(svc.Middleware())

	opener := &fakeOpener{}
	m := NewModel(store, Options{
		Debounce: delay,
		Catalog:  i18n.Default(),
		Opener:   opener,
		Logger:   logger,
	})

	h := &harness{lookup: lookup, opener: opener, store: store, model: m}
	h.send(tea.WindowSizeMsg{Width: 80, Height: 60})

	t.Cleanup(func() {
		h.model.Close()
		svc.Close()
		store.Close()
	})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) typeText(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) backspace(n int) {
	for i := 0; i < n; i++ {
		h.send(tea.KeyMsg{Type: tea.KeyBackspace})
	}
}

// settle waits for the debouncer and feeds the released value to the model
func (h *harness) settle(t *testing.T) {
	t.Helper()
	select {
	case term := <-h.model.debouncer.C():
		h.send(InputSettledMsg{Term: term})
	case <-time.After(waitTimeout):
		t.Fatal("debounced input never settled")
	}
}

// await feeds store snapshots to the model until cond holds
func (h *harness) await(t *testing.T, cond func(Model) bool) {
	t.Helper()
	deadline := time.After(waitTimeout)
	for !cond(h.model) {
		select {
		case s, ok := <-h.model.updates:
			require.True(t, ok, "store subscription closed")
			h.send(StateChangedMsg{State: s})
		case <-deadline:
			t.Fatalf("condition not reached; state=%+v loading=%v", h.model.State(), h.model.Loading)
		}
	}
}

func idle(m Model) bool { return !m.Loading }

func TestInitialViewShowsDefaultPrompt(t *testing.T) {
	h := newHarness(t)

	view := h.model.View()
	assert.Contains(t, view, "Artist Search")
	assert.Contains(t, view, "Search for an artist to see their tracks")
	assert.False(t, h.model.Loading)
}

func TestSearchShowsResultCards(t *testing.T) {
	h := newHarness(t)

	h.typeText("prince")
	assert.False(t, h.model.Loading, "loading starts when the search is issued")
	h.settle(t)
	assert.True(t, h.model.Loading)
	assert.Contains(t, h.model.View(), "Searching...")

	h.await(t, idle)

	s := h.model.State()
	assert.Equal(t, "prince", s.QueryTerm)
	require.Equal(t, 3, s.Results.Len())
	assert.Nil(t, s.Err)

	view := h.model.View()
	assert.Contains(t, view, `Results for "prince"`)
	assert.Contains(t, view, "3 matching tracks")
	assert.Equal(t, 3, strings.Count(view, "Track: "))
	assert.Contains(t, view, "Purple Rain")
	assert.NotContains(t, view, "No results found")
	assert.Equal(t, []string{"prince"}, h.lookup.calls())
}

func TestEmptyResultsShowNoResultsFound(t *testing.T) {
	h := newHarness(t)

	h.typeText("zzzqqq")
	h.settle(t)
	h.await(t, idle)

	view := h.model.View()
	assert.Contains(t, view, "No results found")
	assert.NotContains(t, view, "matching tracks")
}

func TestLookupFailureShowsMessage(t *testing.T) {
	h := newHarness(t)

	h.typeText("bad")
	h.settle(t)
	h.await(t, idle)

	assert.Nil(t, h.model.State().Results)
	assert.Contains(t, h.model.View(), "Invalid value(s) for key(s): [country]")
}

func TestTransportFailureShowsGenericMessage(t *testing.T) {
	h := newHarness(t)

	h.typeText("offline")
	h.settle(t)
	h.await(t, idle)

	require.NotNil(t, h.model.State().Err)
	assert.Equal(t, domain.DefaultErrorMessage, h.model.State().Err.Message)
	assert.Contains(t, h.model.View(), "Something went wrong, please try again")
}

func TestErrorOnScreenSuppressesLoading(t *testing.T) {
	h := newHarness(t)

	h.typeText("bad")
	h.settle(t)
	h.await(t, idle)
	require.NotNil(t, h.model.State().Err)

	// Refining the term keeps the error card up instead of the skeleton
	h.typeText("x")
	h.settle(t)
	assert.False(t, h.model.Loading)
	assert.Contains(t, h.model.View(), "Invalid value(s) for key(s): [country]")

	h.await(t, func(m Model) bool { return m.State().Results != nil })
	assert.Nil(t, h.model.State().Err)
	assert.Contains(t, h.model.View(), "No results found")
	assert.Equal(t, []string{"bad", "badx"}, h.lookup.calls())
}

func TestClearingAfterErrorRestoresLoading(t *testing.T) {
	h := newHarness(t)

	h.typeText("bad")
	h.settle(t)
	h.await(t, idle)

	h.backspace(3)
	h.await(t, func(m Model) bool { return m.State().Err == nil })

	h.typeText("prince")
	h.settle(t)
	assert.True(t, h.model.Loading)

	h.await(t, idle)
	assert.Equal(t, 3, h.model.State().Results.Len())
}

func TestClearingInputResetsWithoutLookup(t *testing.T) {
	h := newHarness(t)

	h.typeText("prince")
	h.settle(t)
	h.await(t, idle)
	require.Len(t, h.lookup.calls(), 1)

	h.backspace(len("prince"))
	assert.False(t, h.model.Loading)
	h.await(t, func(m Model) bool { return m.State() == state.Initial() })

	assert.Len(t, h.lookup.calls(), 1)
	assert.Contains(t, h.model.View(), "Search for an artist to see their tracks")
}

func TestBlankInputCancelsPendingDebounce(t *testing.T) {
	h := newHarness(t)

	h.typeText("p")
	assert.True(t, h.model.debouncer.Pending())
	h.backspace(1)
	assert.False(t, h.model.debouncer.Pending())

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, h.lookup.calls())
	assert.False(t, h.model.Loading)
}

func TestWhitespaceInputClears(t *testing.T) {
	h := newHarness(t)

	h.typeText("   ")
	assert.False(t, h.model.debouncer.Pending())
	assert.False(t, h.model.Loading)
}

func TestSupersededSettledValueIgnored(t *testing.T) {
	h := newHarness(t)

	h.typeText("prince")
	h.send(InputSettledMsg{Term: "prin"})

	assert.False(t, h.model.Loading)
	time.Sleep(30 * time.Millisecond)
	assert.NotContains(t, h.lookup.calls(), "prin")
}

func TestEnterFlushesDebounce(t *testing.T) {
	// Only Enter can release input within the test
	h := newHarnessWithDelay(t, time.Hour)

	h.typeText("prince")
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.settle(t)
	assert.True(t, h.model.Loading)

	h.await(t, idle)
	assert.Equal(t, 3, h.model.State().Results.Len())
}

func TestMountWithSeededTerm(t *testing.T) {
	h := newHarness(t, state.WithInitialState(state.SearchState{QueryTerm: "prince"}))

	assert.Equal(t, "prince", h.model.input.Value())
	h.send(MountedMsg{})
	assert.True(t, h.model.Loading)

	h.await(t, idle)
	assert.Equal(t, 3, h.model.State().Results.Len())
}

func TestMountWithCachedResultsDoesNotSearch(t *testing.T) {
	data := princeHits()
	h := newHarness(t, state.WithInitialState(state.SearchState{QueryTerm: "prince", Results: &data}))

	h.send(MountedMsg{})
	assert.False(t, h.model.Loading)
	assert.Empty(t, h.lookup.calls())
	assert.Contains(t, h.model.View(), "3 matching tracks")
}

func TestSelectAndOpen(t *testing.T) {
	h := newHarness(t)

	h.typeText("prince")
	h.settle(t)
	h.await(t, idle)

	h.send(tea.KeyMsg{Type: tea.KeyDown})
	cmd := h.send(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.NotNil(t, cmd)

	msg := cmd()
	opened, ok := msg.(LinkOpenedMsg)
	require.True(t, ok)
	assert.NoError(t, opened.Err)
	assert.Equal(t, []string{"https://music.apple.com/2"}, h.opener.urls)

	h.send(opened)
	assert.Equal(t, "Opened Kiss", h.model.StatusMsg)
	assert.False(t, h.model.StatusIsErr)
}

func TestOpenWithoutLink(t *testing.T) {
	h := newHarness(t)

	h.typeText("prince")
	h.settle(t)
	h.await(t, idle)

	h.send(tea.KeyMsg{Type: tea.KeyDown})
	h.send(tea.KeyMsg{Type: tea.KeyDown})
	h.send(tea.KeyMsg{Type: tea.KeyDown}) // stays on the last hit
	assert.Equal(t, 2, h.model.cursor)

	h.send(tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Empty(t, h.opener.urls)
	assert.Equal(t, "This track has no link", h.model.StatusMsg)
	assert.True(t, h.model.StatusIsErr)
}

func TestQuit(t *testing.T) {
	h := newHarness(t)

	cmd := h.send(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestMountWithBlankSeededTermDoesNotSearch(t *testing.T) {
	h := newHarness(t, state.WithInitialState(state.SearchState{QueryTerm: "   "}))

	h.send(MountedMsg{})
	assert.False(t, h.model.Loading)

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, h.lookup.calls())
	assert.Contains(t, h.model.View(), "Search for an artist to see their tracks")
}

func TestSettledTermIsTrimmed(t *testing.T) {
	h := newHarness(t)

	h.typeText("  prince  ")
	h.settle(t)
	assert.True(t, h.model.Loading)

	h.await(t, idle)
	assert.Equal(t, []string{"prince"}, h.lookup.calls())
	assert.Equal(t, "prince", h.model.State().QueryTerm)
}

func TestResolvedWithoutTermClearsStore(t *testing.T) {
	h := newHarness(t)

	h.model.Loading = true
	h.store.Dispatch(state.SearchSucceeded{Data: princeHits()})

	h.await(t, func(m Model) bool {
		return !m.Loading && m.State() == state.Initial()
	})
	assert.Equal(t, state.Initial(), h.store.State())
	assert.Empty(t, h.lookup.calls())
	assert.Contains(t, h.model.View(), "Search for an artist to see their tracks")
}
