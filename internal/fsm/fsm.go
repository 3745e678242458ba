// Package fsm defines the top-level screen router transition table.
package fsm

import (
	"errors"
	"fmt"
)

type Screen string

type Event string

const (
	ScreenWelcome Screen = "welcome"
	ScreenLogin   Screen = "login"
	ScreenHome    Screen = "home"
)

const (
	EventBegin  Event = "begin"
	EventSubmit Event = "submit"
	EventLogout Event = "logout"
	EventReset  Event = "reset"
)

// ErrGuardViolation reports a transition attempted while its guard is unmet.
// The current screen is returned unchanged alongside it.
var ErrGuardViolation = errors.New("transition guard not satisfied")

// Guard carries the facts transition guards depend on.
type Guard struct {
	ProfileComplete bool
}

func Transition(current Screen, event Event, guard Guard) (Screen, error) {
	if event == EventReset {
		if !current.Valid() {
			return current, fmt.Errorf("unknown screen %q", current)
		}
		return ScreenWelcome, nil
	}

	switch current {
	case ScreenWelcome:
		switch event {
		case EventBegin:
			return ScreenLogin, nil
		default:
			return current, invalidTransition(current, event)
		}
	case ScreenLogin:
		switch event {
		case EventSubmit:
			if !guard.ProfileComplete {
				return current, fmt.Errorf("%s --(%s)--> %s: %w", current, event, ScreenHome, ErrGuardViolation)
			}
			return ScreenHome, nil
		default:
			return current, invalidTransition(current, event)
		}
	case ScreenHome:
		switch event {
		case EventLogout:
			return ScreenLogin, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown screen %q", current)
	}
}

// Valid reports whether s is one of the known screens.
func (s Screen) Valid() bool {
	switch s {
	case ScreenWelcome, ScreenLogin, ScreenHome:
		return true
	default:
		return false
	}
}

func invalidTransition(screen Screen, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", screen, event)
}
