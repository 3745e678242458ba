package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rbright/maak/internal/capture"
	"github.com/rbright/maak/internal/fsm"
)

// OpenFeature shows a panel. Opening while another panel is open closes the
// previous one first.
func (c *Controller) OpenFeature(_ context.Context, feature Feature) error {
	if !feature.Valid() {
		return fmt.Errorf("unknown feature %q", feature)
	}
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if c.state.Screen != fsm.ScreenHome {
		return fmt.Errorf("%w: open %s on %s", ErrNotAllowed, feature, c.state.Screen)
	}
	c.teardownFeatureLocked()
	c.state.Feature = feature
	c.state.Notice = ""
	c.logTransition("open_feature")
	c.publishLocked()
	return nil
}

// CloseFeature dismisses the open panel. Capture, radar and any pending
// inference are released before the panel is marked closed.
func (c *Controller) CloseFeature(context.Context) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if c.state.Feature == FeatureNone {
		return nil
	}
	c.teardownFeatureLocked()
	c.logTransition("close_feature")
	c.publishLocked()
	return nil
}

// ToggleCapture acquires a video device when none is held, or releases the
// held one. A refused request leaves capture off, records a notice, and
// returns the provider error.
func (c *Controller) ToggleCapture(ctx context.Context) error {
	if err := c.lock(); err != nil {
		return err
	}

	if c.state.Feature != FeatureSignToText {
		feature := c.state.Feature
		c.mu.Unlock()
		return fmt.Errorf("%w: capture in panel %q", ErrNotAllowed, feature)
	}

	if c.captureHandle != nil {
		defer c.mu.Unlock()
		c.cancelJobLocked()
		c.state.Inference.Running = false
		if err := c.captureHandle.StopAll(); err != nil {
			c.logger.Warn("stop capture tracks", "session_id", c.state.SessionID, "error", err.Error())
		}
		c.captureHandle = nil
		c.state.Capturing = false
		c.logger.Info("capture released", "session_id", c.state.SessionID)
		c.publishLocked()
		return nil
	}

	if c.capturePending {
		c.mu.Unlock()
		return nil
	}
	c.capturePending = true
	gen := c.featureGen
	c.mu.Unlock()

	handle, err := c.capture.RequestVideo(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	stale := c.closed || gen != c.featureGen
	if !stale {
		c.capturePending = false
	}

	if err != nil {
		if stale {
			return nil
		}
		c.state.Notice = captureNotice(err)
		c.logger.Warn("capture unavailable", "session_id", c.state.SessionID, "error", err.Error())
		c.publishLocked()
		return err
	}

	if stale {
		c.logger.Debug("discarding stale capture grant", "session_id", c.state.SessionID)
		if stopErr := handle.StopAll(); stopErr != nil {
			c.logger.Warn("stop stale capture", "error", stopErr.Error())
		}
		return nil
	}

	c.captureHandle = handle
	c.state.Capturing = true
	c.state.Notice = ""
	c.logger.Info("capture acquired", "session_id", c.state.SessionID, "tracks", handle.Tracks())
	c.publishLocked()
	return nil
}

func captureNotice(err error) string {
	switch {
	case errors.Is(err, capture.ErrPermissionDenied):
		return "capture unavailable: permission denied"
	case errors.Is(err, capture.ErrNoDevice):
		return "capture unavailable: no camera found"
	default:
		return "capture unavailable"
	}
}

// ToggleRadar arms or disarms the sound radar in the SoundRadar panel.
func (c *Controller) ToggleRadar(context.Context) error {
	if err := c.lock(); err != nil {
		return err
	}

	if c.state.Feature != FeatureSoundRadar {
		feature := c.state.Feature
		c.mu.Unlock()
		return fmt.Errorf("%w: radar in panel %q", ErrNotAllowed, feature)
	}

	if c.radarHandle != nil {
		defer c.mu.Unlock()
		if err := c.radarHandle.Stop(); err != nil {
			c.logger.Warn("stop sound radar", "session_id", c.state.SessionID, "error", err.Error())
		}
		c.radarHandle = nil
		c.state.Radar = false
		c.publishLocked()
		return nil
	}

	if c.radarPending {
		c.mu.Unlock()
		return nil
	}
	c.radarPending = true
	gen := c.featureGen
	c.mu.Unlock()

	handle, err := c.radar.Listen(c.ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return
		}
		c.spawn(func() { c.radarAlert(gen) })
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	stale := c.closed || gen != c.featureGen
	if !stale {
		c.radarPending = false
	}

	if err != nil {
		if stale {
			return nil
		}
		c.state.Notice = "sound radar unavailable"
		c.logger.Warn("sound radar unavailable", "session_id", c.state.SessionID, "error", err.Error())
		c.publishLocked()
		return err
	}
	if stale {
		_ = handle.Stop()
		return nil
	}

	c.radarHandle = handle
	c.state.Radar = true
	c.state.Notice = ""
	c.publishLocked()
	return nil
}

// radarAlert raises an alert unless the radar that fired has since been
// torn down.
func (c *Controller) radarAlert(gen uint64) {
	if err := c.lock(); err != nil {
		return
	}
	live := gen == c.featureGen && c.radarHandle != nil
	c.mu.Unlock()

	if live {
		c.logger.Info("sound radar triggered", "session_id", c.Snapshot().SessionID)
		_ = c.TriggerAlert(c.ctx)
	}
}

// SetAvatarText stores the text typed in the TextToAvatar panel.
func (c *Controller) SetAvatarText(_ context.Context, text string) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if c.state.Feature != FeatureTextToAvatar {
		return fmt.Errorf("%w: avatar text in panel %q", ErrNotAllowed, c.state.Feature)
	}
	c.state.AvatarText = text
	c.publishLocked()
	return nil
}

// CopyResult sends the last inference result to the clipboard committer.
// An empty result is a no-op.
func (c *Controller) CopyResult(ctx context.Context) error {
	if err := c.lock(); err != nil {
		return err
	}
	result := c.state.Inference.Result
	c.mu.Unlock()

	if result == "" {
		return nil
	}
	if err := c.commit.Commit(ctx, result); err != nil {
		return fmt.Errorf("copy result: %w", err)
	}
	return nil
}
