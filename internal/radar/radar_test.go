package radar

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rbright/maak/internal/audio"
)

func level(dbfs float64) audio.Level {
	return audio.Level{DBFS: dbfs, Span: 20 * time.Millisecond}
}

func TestGateFiresAfterHold(t *testing.T) {
	gate := &Gate{Threshold: -18, Hold: 60 * time.Millisecond}

	require.False(t, gate.Observe(level(-10)))
	require.False(t, gate.Observe(level(-10)))
	require.True(t, gate.Observe(level(-18)))
	require.False(t, gate.Observe(level(-5)), "stays quiet while loudness persists")

	require.False(t, gate.Observe(level(-40)))
	require.False(t, gate.Observe(level(-10)))
	require.False(t, gate.Observe(level(-10)))
	require.True(t, gate.Observe(level(-10)))
}

func TestGateResetsOnDip(t *testing.T) {
	gate := &Gate{Threshold: -18, Hold: 60 * time.Millisecond}

	require.False(t, gate.Observe(level(-10)))
	require.False(t, gate.Observe(level(-10)))
	require.False(t, gate.Observe(level(-30)))
	require.False(t, gate.Observe(level(-10)))
	require.False(t, gate.Observe(level(-10)))
	require.True(t, gate.Observe(level(-10)))
}

func TestGateZeroHoldFiresImmediately(t *testing.T) {
	gate := &Gate{Threshold: -18}
	require.True(t, gate.Observe(level(-1)))
}

type fakeSource struct {
	levels chan audio.Level
	stops  atomic.Int32
	once   sync.Once
}

func (s *fakeSource) Levels() <-chan audio.Level { return s.levels }

func (s *fakeSource) Stop() error {
	s.stops.Add(1)
	s.once.Do(func() { close(s.levels) })
	return nil
}

func TestListenerCallsOnLoudAndStops(t *testing.T) {
	source := &fakeSource{levels: make(chan audio.Level)}
	listener := NewListener("default", "default", -18, 40*time.Millisecond, nil)
	listener.start = func(context.Context, string, string) (levelSource, error) {
		return source, nil
	}

	fired := make(chan struct{}, 4)
	handle, err := listener.Listen(context.Background(), func() { fired <- struct{}{} })
	require.NoError(t, err)

	source.levels <- level(-10)
	source.levels <- level(-10)
	source.levels <- level(-10)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("gate did not fire")
	}

	require.NoError(t, handle.Stop())
	require.NoError(t, handle.Stop())
	require.Equal(t, int32(1), source.stops.Load())
	require.Empty(t, fired)
}

func TestListenerPropagatesStartError(t *testing.T) {
	listener := NewListener("usb", "default", -18, 0, nil)
	listener.start = func(_ context.Context, input string, _ string) (levelSource, error) {
		require.Equal(t, "usb", input)
		return nil, errors.New("pulse down")
	}

	_, err := listener.Listen(context.Background(), func() {})
	require.ErrorContains(t, err, "pulse down")
}
