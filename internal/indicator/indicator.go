// Package indicator renders haptic buzzes and the emergency alert surface.
package indicator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rbright/maak/internal/config"
	"github.com/rbright/maak/internal/hypr"
)

// alertTimeoutMS bounds how long an alert stays up if HideAlert never runs.
const alertTimeoutMS = 60000

// Notifier sends alerts via Hyprland or desktop DBus and plays vibration
// patterns as buzz tones.
type Notifier struct {
	cfg       config.IndicatorConfig
	logger    *slog.Logger
	alertText string
	play      func(context.Context, []int16) error

	mu        sync.Mutex
	desktopID uint32
	buzzMu    sync.Mutex
}

// NewNotifier creates a notifier from config.
func NewNotifier(cfg config.IndicatorConfig, logger *slog.Logger) *Notifier {
	return &Notifier{
		cfg:       cfg,
		logger:    logger,
		alertText: defaultAlertText(),
		play:      playPCM,
	}
}

// Vibrate plays pattern as a buzz. Overlapping calls play one after another.
func (n *Notifier) Vibrate(ctx context.Context, pattern []time.Duration) {
	if !n.cfg.BuzzEnable {
		return
	}
	samples := buzzPattern(pattern, n.cfg.BuzzHz)
	if len(samples) == 0 {
		return
	}

	n.buzzMu.Lock()
	defer n.buzzMu.Unlock()
	if err := n.play(ctx, samples); err != nil {
		n.log("haptic buzz failed", err)
	}
}

// ShowAlert raises the alert notification. Empty text uses the localized
// default.
func (n *Notifier) ShowAlert(ctx context.Context, text string) {
	if !n.cfg.Enable {
		return
	}
	if text == "" {
		text = n.alertText
	}
	n.run(ctx, func(ctx context.Context) error {
		if n.desktop() {
			return n.notifyDesktop(ctx, text)
		}
		return hypr.Notify(ctx, hypr.IconError, alertTimeoutMS, hypr.DefaultColor, text)
	})
}

// HideAlert dismisses the alert notification.
func (n *Notifier) HideAlert(ctx context.Context) {
	if !n.cfg.Enable {
		return
	}
	n.run(ctx, func(ctx context.Context) error {
		if n.desktop() {
			return n.dismissDesktop(ctx)
		}
		return hypr.DismissNotify(ctx)
	})
}

func (n *Notifier) desktop() bool {
	return n.cfg.Backend == "desktop"
}

// notifyDesktop replaces the previous alert notification when one is shown.
func (n *Notifier) notifyDesktop(ctx context.Context, text string) error {
	n.mu.Lock()
	replaceID := n.desktopID
	n.mu.Unlock()

	id, err := desktopNotify(ctx, n.cfg.DesktopAppName, replaceID, text, urgencyCritical, 0)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.desktopID = id
	n.mu.Unlock()
	return nil
}

func (n *Notifier) dismissDesktop(ctx context.Context) error {
	n.mu.Lock()
	id := n.desktopID
	n.desktopID = 0
	n.mu.Unlock()

	if id == 0 {
		return nil
	}
	return desktopDismiss(ctx, id)
}

// run executes one notification call with a bounded timeout.
func (n *Notifier) run(ctx context.Context, fn func(context.Context) error) {
	runCtx, cancel := context.WithTimeout(ctx, 400*time.Millisecond)
	defer cancel()
	if err := fn(runCtx); err != nil {
		n.log("alert dispatch failed", err)
	}
}

func (n *Notifier) log(message string, err error) {
	if n.logger == nil || err == nil {
		return
	}
	n.logger.Debug(message, "error", err.Error())
}
