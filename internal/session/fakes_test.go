package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rbright/maak/internal/capture"
	"github.com/rbright/maak/internal/fsm"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	done    bool
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.stopped = true
	return true
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{clock: c, at: c.now + d, fn: fn}
	c.timers = append(c.timers, timer)
	return timer
}

// Advance fires due timers in deadline order without holding the clock lock.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, timer := range c.timers {
			if timer.done || timer.at > target {
				continue
			}
			if next == nil || timer.at < next.at {
				next = timer
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.done = true
		c.now = next.at
		c.mu.Unlock()

		next.fn()
	}
}

func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	pending := 0
	for _, timer := range c.timers {
		if !timer.done {
			pending++
		}
	}
	return pending
}

type fakeHandle struct {
	stops atomic.Int32
}

func (h *fakeHandle) StopAll() error {
	h.stops.Add(1)
	return nil
}

func (h *fakeHandle) Tracks() int { return 1 }

type fakeCapture struct {
	mu        sync.Mutex
	err       error
	gate      chan struct{}
	requested chan struct{}
	handles   []*fakeHandle
}

func (f *fakeCapture) RequestVideo(context.Context) (capture.Handle, error) {
	if f.requested != nil {
		f.requested <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	handle := &fakeHandle{}
	f.handles = append(f.handles, handle)
	return handle, nil
}

func (f *fakeCapture) last() *fakeHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.handles) == 0 {
		return nil
	}
	return f.handles[len(f.handles)-1]
}

type spoken struct {
	text   string
	locale string
}

type fakeSpeaker struct {
	mu    sync.Mutex
	calls []spoken
}

func (s *fakeSpeaker) Speak(_ context.Context, text string, locale string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, spoken{text: text, locale: locale})
	return nil
}

func (s *fakeSpeaker) Calls() []spoken {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]spoken(nil), s.calls...)
}

type fakeIndicator struct {
	mu       sync.Mutex
	patterns [][]time.Duration
	shown    []string
	hides    int
}

func (f *fakeIndicator) Vibrate(_ context.Context, pattern []time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patterns = append(f.patterns, pattern)
}

func (f *fakeIndicator) ShowAlert(_ context.Context, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = append(f.shown, text)
}

func (f *fakeIndicator) HideAlert(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hides++
}

func (f *fakeIndicator) counts() (vibrations int, shown int, hides int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.patterns), len(f.shown), f.hides
}

type fakeRadarHandle struct {
	stops atomic.Int32
}

func (h *fakeRadarHandle) Stop() error {
	h.stops.Add(1)
	return nil
}

type fakeRadar struct {
	mu     sync.Mutex
	err    error
	onLoud func()
	handle *fakeRadarHandle
	// listening and gate, when set, hold Listen open after the callback is
	// registered.
	listening chan struct{}
	gate      chan struct{}
}

func (r *fakeRadar) Listen(_ context.Context, onLoud func()) (RadarHandle, error) {
	r.mu.Lock()
	r.onLoud = onLoud
	listening, gate := r.listening, r.gate
	r.mu.Unlock()

	if listening != nil {
		listening <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.handle = &fakeRadarHandle{}
	return r.handle, nil
}

func (r *fakeRadar) fire() {
	r.mu.Lock()
	onLoud := r.onLoud
	r.mu.Unlock()
	onLoud()
}

type harness struct {
	ctrl      *Controller
	clock     *fakeClock
	capture   *fakeCapture
	speaker   *fakeSpeaker
	indicator *fakeIndicator
	radar     *fakeRadar
	committed []string
}

var testPattern = []time.Duration{100 * time.Millisecond, 30 * time.Millisecond, 500 * time.Millisecond}

func newHarness(t *testing.T, mutate ...func(*Options)) *harness {
	t.Helper()

	h := &harness{
		clock:     &fakeClock{},
		capture:   &fakeCapture{},
		speaker:   &fakeSpeaker{},
		indicator: &fakeIndicator{},
		radar:     &fakeRadar{},
	}
	stub := NewPhraseStub(DefaultPhrases)
	stub.pick = func(int) int { return 1 }

	opts := Options{
		Capture:   h.capture,
		Inference: stub,
		Speaker:   h.speaker,
		Indicator: h.indicator,
		Radar:     h.radar,
		Committer: CommitFunc(func(_ context.Context, text string) error {
			h.committed = append(h.committed, text)
			return nil
		}),
		Clock:          h.clock,
		InferenceDelay: 2 * time.Second,
		Locale:         "ar-SA",
		AlertWindow:    5 * time.Second,
		VibratePattern: testPattern,
		AlertText:      "emergency",
	}
	for _, fn := range mutate {
		fn(&opts)
	}

	h.ctrl = NewController(opts)
	t.Cleanup(h.ctrl.Close)
	return h
}

// home logs in with a complete profile.
func (h *harness) home(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, h.ctrl.Begin(ctx))
	require.NoError(t, h.ctrl.SetAgeGroup(ctx, AgeGroupYoung))
	require.NoError(t, h.ctrl.SetEmail(ctx, "a@b.com"))
	require.NoError(t, h.ctrl.Submit(ctx))
	require.Equal(t, fsm.ScreenHome, h.ctrl.Snapshot().Screen)
}

// capturing opens SignToText with a granted capture.
func (h *harness) capturing(t *testing.T) {
	t.Helper()
	h.home(t)
	ctx := context.Background()
	require.NoError(t, h.ctrl.OpenFeature(ctx, FeatureSignToText))
	require.NoError(t, h.ctrl.ToggleCapture(ctx))
	require.True(t, h.ctrl.Snapshot().Capturing)
}
