package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rbright/maak/internal/fsm"
)

// Begin moves from Welcome to Login.
func (c *Controller) Begin(context.Context) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	return c.routeLocked(fsm.EventBegin, "begin")
}

// SetAgeGroup records the age group while on the Login screen.
func (c *Controller) SetAgeGroup(_ context.Context, group AgeGroup) error {
	if !group.Valid() {
		return fmt.Errorf("unknown age group %q", group)
	}
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if c.state.Screen != fsm.ScreenLogin {
		return fmt.Errorf("%w: set age group on %s", ErrNotAllowed, c.state.Screen)
	}
	c.state.Profile.AgeGroup = group
	c.publishLocked()
	return nil
}

// SetEmail records the (unchecked) email while on the Login screen.
func (c *Controller) SetEmail(_ context.Context, email string) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if c.state.Screen != fsm.ScreenLogin {
		return fmt.Errorf("%w: set email on %s", ErrNotAllowed, c.state.Screen)
	}
	c.state.Profile.Email = email
	c.publishLocked()
	return nil
}

// Submit advances from Login to Home. An incomplete profile leaves the
// screen unchanged without error.
func (c *Controller) Submit(context.Context) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	err := c.routeLocked(fsm.EventSubmit, "submit")
	if errors.Is(err, fsm.ErrGuardViolation) {
		c.logger.Debug("login guard not satisfied", "session_id", c.state.SessionID)
		return nil
	}
	return err
}

// Logout closes any open panel and returns to Login. Profile fields are kept.
func (c *Controller) Logout(context.Context) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if c.state.Screen != fsm.ScreenHome {
		return fmt.Errorf("%w: logout from %s", ErrNotAllowed, c.state.Screen)
	}
	c.teardownFeatureLocked()
	return c.routeLocked(fsm.EventLogout, "logout")
}

// ResetSession discards the whole session: panel, alert, profile, and
// session id, then returns to Welcome.
func (c *Controller) ResetSession(context.Context) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	c.teardownFeatureLocked()
	if c.state.Emergency {
		c.spawn(func() { c.indicator.HideAlert(c.ctx) })
	}
	c.cancelAlertLocked()
	c.state.Emergency = false
	c.state.Profile = Profile{}
	c.state.Notice = ""
	c.state.SessionID = uuid.NewString()
	return c.routeLocked(fsm.EventReset, "reset")
}

func (c *Controller) routeLocked(event fsm.Event, action string) error {
	next, err := fsm.Transition(c.state.Screen, event, fsm.Guard{ProfileComplete: c.state.Profile.Complete()})
	if err != nil {
		if errors.Is(err, fsm.ErrGuardViolation) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrNotAllowed, err)
	}
	c.state.Screen = next
	c.logTransition(action)
	c.publishLocked()
	return nil
}
