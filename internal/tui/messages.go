package tui

import "github.com/rbright/maak/internal/session"

// StateMsg carries a controller snapshot.
type StateMsg struct {
	State session.State
}

// StateClosedMsg is sent when the controller closes its subscription.
type StateClosedMsg struct{}

// ActionErrorMsg reports a dispatch failure worth showing.
type ActionErrorMsg struct {
	Kind session.ActionKind
	Err  error
}

// ClearErrorMsg clears the error bar after a timeout.
type ClearErrorMsg struct{}
