package session

import (
	"context"
	"time"

	"github.com/rbright/maak/internal/capture"
)

// CaptureProvider acquires a video-only capture device.
type CaptureProvider interface {
	RequestVideo(context.Context) (capture.Handle, error)
}

// Speaker voices a phrase. Callers do not wait on the outcome.
type Speaker interface {
	Speak(ctx context.Context, text string, locale string) error
}

// Indicator is the session-facing subset of haptic and alert surfaces.
type Indicator interface {
	Vibrate(context.Context, []time.Duration)
	ShowAlert(context.Context, string)
	HideAlert(context.Context)
}

// RadarHandle is an armed loudness monitor.
type RadarHandle interface {
	Stop() error
}

// RadarListener arms a loudness monitor that calls onLoud while sound stays
// above its threshold. onLoud must not block.
type RadarListener interface {
	Listen(ctx context.Context, onLoud func()) (RadarHandle, error)
}

// Committer dispatches a recognized phrase to an output target.
type Committer interface {
	Commit(context.Context, string) error
}

// CommitFunc adapts a function to the Committer interface.
type CommitFunc func(context.Context, string) error

func (f CommitFunc) Commit(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Timer is a pending callback created by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	AfterFunc(time.Duration, func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

type deniedCapture struct{}

func (deniedCapture) RequestVideo(context.Context) (capture.Handle, error) {
	return nil, capture.ErrNoDevice
}

type noopSpeaker struct{}

func (noopSpeaker) Speak(context.Context, string, string) error { return nil }

type noopIndicator struct{}

func (noopIndicator) Vibrate(context.Context, []time.Duration) {}
func (noopIndicator) ShowAlert(context.Context, string)        {}
func (noopIndicator) HideAlert(context.Context)                {}

type noopRadar struct{}

func (noopRadar) Stop() error { return nil }

type silentRadar struct{}

func (silentRadar) Listen(context.Context, func()) (RadarHandle, error) {
	return noopRadar{}, nil
}
