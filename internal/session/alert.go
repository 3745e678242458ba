package session

import "context"

// TriggerAlert raises the emergency flag, vibrates, and shows the alert
// surface. The flag clears after the alert window measured from the latest
// call.
func (c *Controller) TriggerAlert(context.Context) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	c.cancelAlertLocked()
	token := c.alertToken
	c.state.Emergency = true
	c.alertTimer = c.clock.AfterFunc(c.alertWindow, func() { c.clearAlert(token) })
	c.logger.Warn("emergency alert", "session_id", c.state.SessionID)
	c.publishLocked()

	pattern := c.vibrate
	text := c.alertText
	c.spawn(func() {
		c.indicator.ShowAlert(c.ctx, text)
		c.indicator.Vibrate(c.ctx, pattern)
	})
	return nil
}

func (c *Controller) clearAlert(token uint64) {
	if err := c.lock(); err != nil {
		return
	}
	defer c.mu.Unlock()

	if token != c.alertToken || !c.state.Emergency {
		return
	}
	c.alertTimer = nil
	c.state.Emergency = false
	c.publishLocked()
	c.spawn(func() { c.indicator.HideAlert(c.ctx) })
}

// cancelAlertLocked invalidates the pending auto-clear.
func (c *Controller) cancelAlertLocked() {
	c.alertToken++
	if c.alertTimer != nil {
		c.alertTimer.Stop()
		c.alertTimer = nil
	}
}
