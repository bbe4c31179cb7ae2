package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/tunes/internal/debounce"
	"github.com/mmcdole/tunes/internal/domain"
	"github.com/mmcdole/tunes/internal/state"
)

// Command factories for async operations

// listenForStateCmd waits for the next store snapshot
func listenForStateCmd(updates <-chan state.SearchState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return StoreClosedMsg{}
		}
		return StateChangedMsg{State: s}
	}
}

// listenForInputCmd waits for the debouncer to release a settled input value
func listenForInputCmd(d *debounce.Debouncer[string]) tea.Cmd {
	return func() tea.Msg {
		return InputSettledMsg{Term: <-d.C()}
	}
}

// OpenLinkCmd opens a hit's track link
func OpenLinkCmd(opener LinkOpener, hit domain.ArtistHit) tea.Cmd {
	return func() tea.Msg {
		return LinkOpenedMsg{TrackName: hit.TrackName, Err: opener.Open(hit.TrackViewURL)}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
