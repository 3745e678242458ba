package radar

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rbright/maak/internal/audio"
	"github.com/rbright/maak/internal/session"
)

// levelSource is a running loudness stream.
type levelSource interface {
	Levels() <-chan audio.Level
	Stop() error
}

// Listener arms loudness gates on a Pulse input source.
type Listener struct {
	input     string
	fallback  string
	threshold float64
	hold      time.Duration
	logger    *slog.Logger

	start func(ctx context.Context, input string, fallback string) (levelSource, error)
}

// NewListener returns a listener for the configured input and gate.
func NewListener(input string, fallback string, thresholdDBFS float64, hold time.Duration, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &Listener{
		input:     input,
		fallback:  fallback,
		threshold: thresholdDBFS,
		hold:      hold,
		logger:    logger,
	}
	l.start = l.startPulse
	return l
}

func (l *Listener) startPulse(ctx context.Context, input string, fallback string) (levelSource, error) {
	selection, err := audio.SelectSource(ctx, input, fallback)
	if err != nil {
		return nil, err
	}
	if selection.Warning != "" {
		l.logger.Warn("sound radar source fallback", "warning", selection.Warning)
	}
	return audio.StartMeter(ctx, selection.Source)
}

// Listen starts metering and calls onLoud every time the gate fires.
func (l *Listener) Listen(ctx context.Context, onLoud func()) (session.RadarHandle, error) {
	ctx, cancel := context.WithCancel(ctx)
	source, err := l.start(ctx, l.input, l.fallback)
	if err != nil {
		cancel()
		return nil, err
	}

	m := &monitor{source: source, cancel: cancel, done: make(chan struct{})}
	gate := &Gate{Threshold: l.threshold, Hold: l.hold}
	l.logger.Info("sound radar armed", "threshold_dbfs", l.threshold, "hold_ms", l.hold.Milliseconds())

	go func() {
		defer close(m.done)
		for level := range source.Levels() {
			if gate.Observe(level) {
				l.logger.Info("sound radar gate fired", "dbfs", level.DBFS)
				onLoud()
			}
		}
	}()
	return m, nil
}

// monitor is one armed listener.
type monitor struct {
	source levelSource
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	err    error
}

// Stop halts metering and waits for the gate loop to exit.
func (m *monitor) Stop() error {
	m.once.Do(func() {
		m.cancel()
		m.err = m.source.Stop()
		<-m.done
	})
	return m.err
}
