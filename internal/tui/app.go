package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/tunes/internal/debounce"
	"github.com/mmcdole/tunes/internal/i18n"
	"github.com/mmcdole/tunes/internal/state"
	"github.com/mmcdole/tunes/internal/tui/styles"
)

// DefaultDebounce is the quiet interval before typed input becomes a search
const DefaultDebounce = 200 * time.Millisecond

// Layout
const (
	// title + bordered input + footer
	ChromeHeight = 6
	MinWidth     = 30
)

// LinkOpener opens a track link outside the terminal
type LinkOpener interface {
	Open(url string) error
}

// Options configure a Model
type Options struct {
	Debounce time.Duration
	Catalog  *i18n.Catalog
	Opener   LinkOpener
	Logger   *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Store binding
	store       *state.Store
	updates     <-chan state.SearchState
	unsubscribe func()
	snapshot    state.SearchState

	// Input
	input     textinput.Model
	debouncer *debounce.Debouncer[string]
	lastInput string

	// Results
	viewport    viewport.Model
	cursor      int
	cardOffsets []int

	catalog *i18n.Catalog
	opener  LinkOpener
	logger  *slog.Logger
	keys    KeyMap

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// UI state
	Loading      bool
	SpinnerFrame int
	StatusMsg    string
	StatusIsErr  bool
}

// NewModel binds a model to store. The input starts with the store's query term.
func NewModel(store *state.Store, opts Options) Model {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Catalog == nil {
		opts.Catalog = i18n.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	catalog := opts.Catalog
	snapshot := store.State()
	updates, unsubscribe := store.Subscribe()

	ti := textinput.New()
	ti.Placeholder = catalog.T("search_placeholder", nil)
	ti.CharLimit = 100
	ti.Prompt = "🔍 "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	ti.SetValue(snapshot.QueryTerm)
	ti.Focus()

	return Model{
		store:       store,
		updates:     updates,
		unsubscribe: unsubscribe,
		snapshot:    snapshot,
		input:       ti,
		debouncer:   debounce.New[string](opts.Debounce),
		lastInput:   snapshot.QueryTerm,
		viewport:    viewport.New(0, 0),
		catalog:     catalog,
		opener:      opts.Opener,
		logger:      opts.Logger,
		keys:        DefaultKeyMap(),
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		listenForStateCmd(m.updates),
		listenForInputCmd(m.debouncer),
		TickCmd(100*time.Millisecond),
		func() tea.Msg { return MountedMsg{} },
	)
}

// Close releases the store subscription and stops the debouncer
func (m Model) Close() {
	m.debouncer.Stop()
	m.unsubscribe()
}

// State returns the last store snapshot the model has seen
func (m Model) State() state.SearchState {
	return m.snapshot
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case MountedMsg:
		// A seeded term with nothing to show yet is searched right away
		if term := strings.TrimSpace(m.snapshot.QueryTerm); term != "" && !m.snapshot.HasResults() {
			m.issue(term)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case InputSettledMsg:
		// Values released after the input moved on are superseded
		if msg.Term == strings.TrimSpace(m.input.Value()) && msg.Term != "" {
			m.issue(msg.Term)
		}
		return m, listenForInputCmd(m.debouncer)

	case StateChangedMsg:
		m.onState(msg.State)
		return m, listenForStateCmd(m.updates)

	case StoreClosedMsg:
		return m, nil

	case LinkOpenedMsg:
		if msg.Err != nil {
			m.logger.Error("failed to open link", "track", msg.TrackName, "error", msg.Err)
			m.StatusMsg = msg.Err.Error()
			m.StatusIsErr = true
		} else {
			m.StatusMsg = m.catalog.T("opened_link", i18n.Values{"trackName": msg.TrackName})
			m.StatusIsErr = false
		}
		return m, ClearStatusCmd(3 * time.Second)

	case TickMsg:
		m.SpinnerFrame++
		if m.Loading {
			m.refreshContent()
		}
		return m, TickCmd(100 * time.Millisecond)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		// Nothing pending: search the current input again
		if !m.debouncer.Flush() {
			if term := strings.TrimSpace(m.input.Value()); term != "" {
				m.issue(term)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refreshContent()
			m.ensureCursorVisible()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.snapshot.Results.Len()-1 {
			m.cursor++
			m.refreshContent()
			m.ensureCursorVisible()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
		return m, nil

	case key.Matches(msg, m.keys.Open):
		return m.openSelected()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.onInputChanged()
	return m, cmd
}

// onInputChanged debounces typed input. Blank input clears the search at once.
func (m *Model) onInputChanged() {
	value := m.input.Value()
	if value == m.lastInput {
		return
	}
	m.lastInput = value

	term := strings.TrimSpace(value)
	if term == "" {
		m.debouncer.Cancel()
		m.store.Dispatch(state.ClearSearch{})
		m.Loading = false
		m.refreshContent()
		return
	}
	m.debouncer.Call(term)
}

// issue dispatches a search for term, already trimmed, and enters the
// loading state unless an error is already on screen.
func (m *Model) issue(term string) {
	m.logger.Debug("issuing search", "term", term)
	m.store.Dispatch(state.RequestSearch{Term: term})
	if m.snapshot.Err == nil {
		m.Loading = true
	}
	m.refreshContent()
}

// onState takes a new snapshot. Loading ends when the results or error
// change to a resolved value; a resolution without a term clears the slice.
func (m *Model) onState(next state.SearchState) {
	prev := m.snapshot
	m.snapshot = next

	resolved := next.Results != prev.Results || next.Err != prev.Err
	if resolved {
		m.cursor = 0
		m.viewport.GotoTop()
	}
	if m.Loading && resolved && next.Loaded() {
		m.Loading = false
		if next.QueryTerm == "" {
			m.store.Dispatch(state.ClearSearch{})
		}
	}
	m.refreshContent()
}

func (m Model) openSelected() (tea.Model, tea.Cmd) {
	hits := m.snapshot.Results.Hits()
	if m.opener == nil || m.cursor >= len(hits) {
		return m, nil
	}
	hit := hits[m.cursor]
	if hit.TrackViewURL == "" {
		m.StatusMsg = m.catalog.T("no_link", nil)
		m.StatusIsErr = true
		return m, ClearStatusCmd(3 * time.Second)
	}
	return m, OpenLinkCmd(m.opener, hit)
}

// updateLayout sizes the input and the result viewport
func (m *Model) updateLayout() {
	width := max(m.Width, MinWidth)
	m.input.Width = width - 8
	m.viewport.Width = width
	m.viewport.Height = max(m.Height-ChromeHeight, 1)
	m.refreshContent()
}

// ensureCursorVisible scrolls the viewport so the selected card is on screen
func (m *Model) ensureCursorVisible() {
	if m.cursor >= len(m.cardOffsets) {
		return
	}
	top := m.cardOffsets[m.cursor]
	bottom := m.viewport.TotalLineCount()
	if m.cursor+1 < len(m.cardOffsets) {
		bottom = m.cardOffsets[m.cursor+1]
	}

	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

// View renders the UI
func (m Model) View() string {
	if !m.Ready {
		return ""
	}

	width := max(m.Width, MinWidth)
	title := styles.TitleStyle.Render(m.catalog.T("artist_search", nil))
	search := styles.ActiveBorder.Width(width - 2).Render(m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		search,
		m.viewport.View(),
		m.renderFooter(width),
	)
}
