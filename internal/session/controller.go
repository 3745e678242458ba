package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rbright/maak/internal/capture"
	"github.com/rbright/maak/internal/fsm"
)

// closeHideTimeout bounds dismissing a raised alert while closing.
const closeHideTimeout = 500 * time.Millisecond

// Options wires the controller ports and timing. Nil ports fall back to
// inert implementations.
type Options struct {
	Logger    *slog.Logger
	Capture   CaptureProvider
	Inference InferenceProvider
	Speaker   Speaker
	Indicator Indicator
	Radar     RadarListener
	Committer Committer
	Clock     Clock

	InferenceDelay time.Duration
	Locale         string
	AlertWindow    time.Duration
	VibratePattern []time.Duration
	AlertText      string
}

// Controller owns the application state. All mutations go through its
// methods, which serialize on one mutex.
type Controller struct {
	logger    *slog.Logger
	capture   CaptureProvider
	inference InferenceProvider
	speaker   Speaker
	indicator Indicator
	radar     RadarListener
	commit    Committer
	clock     Clock

	inferenceDelay time.Duration
	locale         string
	alertWindow    time.Duration
	vibrate        []time.Duration
	alertText      string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	state State

	// featureGen changes whenever the open panel is torn down, so late
	// capture grants and radar callbacks can detect they are stale.
	featureGen     uint64
	captureHandle  capture.Handle
	capturePending bool
	radarHandle    RadarHandle
	radarPending   bool

	jobToken   uint64
	jobTimer   Timer
	alertToken uint64
	alertTimer Timer

	subscribers map[int]chan State
	nextSub     int
	closed      bool
}

// NewController constructs a controller on the Welcome screen.
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Capture == nil {
		opts.Capture = deniedCapture{}
	}
	if opts.Inference == nil {
		opts.Inference = NewPhraseStub(DefaultPhrases)
	}
	if opts.Speaker == nil {
		opts.Speaker = noopSpeaker{}
	}
	if opts.Indicator == nil {
		opts.Indicator = noopIndicator{}
	}
	if opts.Radar == nil {
		opts.Radar = silentRadar{}
	}
	if opts.Committer == nil {
		opts.Committer = CommitFunc(func(context.Context, string) error { return nil })
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.Locale == "" {
		opts.Locale = DefaultLocale
	}
	if opts.AlertWindow <= 0 {
		opts.AlertWindow = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		logger:         logger,
		capture:        opts.Capture,
		inference:      opts.Inference,
		speaker:        opts.Speaker,
		indicator:      opts.Indicator,
		radar:          opts.Radar,
		commit:         opts.Committer,
		clock:          opts.Clock,
		inferenceDelay: opts.InferenceDelay,
		locale:         opts.Locale,
		alertWindow:    opts.AlertWindow,
		vibrate:        append([]time.Duration(nil), opts.VibratePattern...),
		alertText:      opts.AlertText,
		ctx:            ctx,
		cancel:         cancel,
		state: State{
			SessionID: uuid.NewString(),
			Screen:    fsm.ScreenWelcome,
		},
		subscribers: make(map[int]chan State),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel that receives the latest snapshot after every
// change, and a func that unsubscribes. Slow receivers only see the newest
// snapshot.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = ch
	ch <- c.state

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subscribers[id]; ok {
			delete(c.subscribers, id)
			close(sub)
		}
	}
}

// Close tears down the open panel, cancels timers, closes subscriptions, and
// waits for in-flight side effects. A raised alert is dismissed last.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.teardownFeatureLocked()
	c.cancelAlertLocked()
	raised := c.state.Emergency
	c.state.Emergency = false
	c.closed = true
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()

	// Side effects are done, so nothing can re-show the alert after this.
	if raised {
		ctx, cancel := context.WithTimeout(context.Background(), closeHideTimeout)
		c.indicator.HideAlert(ctx)
		cancel()
	}
}

// Wait blocks until every spawned side effect has returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// publishLocked replaces any undelivered snapshot with the current one.
func (c *Controller) publishLocked() {
	for _, ch := range c.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- c.state
	}
}

// spawn runs a side effect off the caller's goroutine.
func (c *Controller) spawn(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

// teardownFeatureLocked releases everything owned by the open panel before
// marking it closed.
func (c *Controller) teardownFeatureLocked() {
	c.featureGen++
	c.capturePending = false
	c.radarPending = false
	c.cancelJobLocked()
	c.state.Inference = InferenceJob{}

	if c.captureHandle != nil {
		if err := c.captureHandle.StopAll(); err != nil {
			c.logger.Warn("stop capture tracks", "session_id", c.state.SessionID, "error", err.Error())
		}
		c.captureHandle = nil
	}
	if c.radarHandle != nil {
		if err := c.radarHandle.Stop(); err != nil {
			c.logger.Warn("stop sound radar", "session_id", c.state.SessionID, "error", err.Error())
		}
		c.radarHandle = nil
	}

	c.state.Capturing = false
	c.state.Radar = false
	c.state.AvatarText = ""
	c.state.Feature = FeatureNone
}

func (c *Controller) logTransition(action string) {
	c.logger.Info("session transition",
		"session_id", c.state.SessionID,
		"action", action,
		"screen", string(c.state.Screen),
		"feature", string(c.state.Feature),
	)
}

// lock acquires the state mutex unless the controller is closed.
func (c *Controller) lock() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	return nil
}
