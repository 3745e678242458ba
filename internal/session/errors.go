package session

import "errors"

var (
	// ErrNotAllowed reports an action that is invalid in the current state.
	// The state is left unchanged.
	ErrNotAllowed = errors.New("action not allowed in current state")
	// ErrClosed reports an action dispatched after Close.
	ErrClosed = errors.New("session controller closed")
)
