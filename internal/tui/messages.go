package tui

import "github.com/mmcdole/tunes/internal/state"

// Message types for the TUI

// StateChangedMsg carries a new snapshot of the search slice
type StateChangedMsg struct {
	State state.SearchState
}

// StoreClosedMsg signals that the store subscription ended
type StoreClosedMsg struct{}

// InputSettledMsg carries the input value once typing has paused
type InputSettledMsg struct {
	Term string
}

// LinkOpenedMsg reports the outcome of opening a hit's link
type LinkOpenedMsg struct {
	TrackName string
	Err       error
}

// TickMsg is sent periodically to animate loading indicators
type TickMsg struct{}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}

// MountedMsg is sent once when the program starts
type MountedMsg struct{}
