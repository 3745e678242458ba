package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

const (
	meterSampleRate = 16000
	// 20ms @ 16kHz mono s16
	meterChunkBytes = 640
	meterChunkSpan  = 20 * time.Millisecond
	silenceDBFS     = -120.0
)

// Level is the loudness of one metered chunk.
type Level struct {
	DBFS float64
	Span time.Duration
}

// Meter reports per-chunk loudness of one Pulse source.
type Meter struct {
	source Source

	client *pulse.Client
	stream *pulse.RecordStream

	levels chan Level
	stopCh chan struct{}

	mu       sync.Mutex
	pending  []byte
	stopped  bool
	inflight sync.WaitGroup
}

// StartMeter opens a 16kHz mono s16 record stream on source.
func StartMeter(ctx context.Context, source Source) (*Meter, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	pulseSource, err := client.SourceByID(source.ID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("resolve source %q: %w", source.ID, err)
	}

	meter := newMeter(source)
	meter.client = client

	writer := pulse.NewWriter(writerFunc(meter.onPCM), pulseproto.FormatInt16LE)
	stream, err := client.NewRecord(
		writer,
		pulse.RecordSource(pulseSource),
		pulse.RecordMono,
		pulse.RecordSampleRate(meterSampleRate),
		pulse.RecordBufferFragmentSize(meterChunkBytes),
		pulse.RecordMediaName("maak sound radar"),
	)
	if err != nil {
		_ = meter.Stop()
		return nil, fmt.Errorf("create pulse record stream: %w", err)
	}

	meter.stream = stream
	stream.Start()

	go func() {
		select {
		case <-ctx.Done():
			_ = meter.Stop()
		case <-meter.stopCh:
		}
	}()

	return meter, nil
}

func newMeter(source Source) *Meter {
	return &Meter{
		source: source,
		levels: make(chan Level, 64),
		stopCh: make(chan struct{}),
	}
}

// Source returns the metered source.
func (m *Meter) Source() Source {
	return m.source
}

// Levels streams chunk loudness until Stop. The channel is closed on stop.
func (m *Meter) Levels() <-chan Level {
	return m.levels
}

// Stop halts the stream and closes Levels exactly once.
func (m *Meter) Stop() error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	close(m.stopCh)
	m.mu.Unlock()

	if m.stream != nil {
		m.stream.Stop()
		m.stream.Close()
	}
	if m.client != nil {
		m.client.Close()
	}

	m.inflight.Wait()
	close(m.levels)
	return nil
}

// onPCM slices raw frames into chunks and emits one Level per chunk. Levels
// are dropped when the consumer lags.
func (m *Meter) onPCM(buffer []byte) (int, error) {
	if len(buffer) == 0 {
		return 0, nil
	}

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return 0, io.EOF
	}
	m.inflight.Add(1)
	m.pending = append(m.pending, buffer...)

	var levels []Level
	for len(m.pending) >= meterChunkBytes {
		levels = append(levels, Level{DBFS: LevelDBFS(m.pending[:meterChunkBytes]), Span: meterChunkSpan})
		m.pending = m.pending[meterChunkBytes:]
	}
	m.mu.Unlock()
	defer m.inflight.Done()

	for _, level := range levels {
		select {
		case m.levels <- level:
		default:
		}
	}
	return len(buffer), nil
}

// LevelDBFS returns the RMS level of little-endian s16 PCM in dBFS.
// Silence and empty input floor at -120 dBFS.
func LevelDBFS(pcm []byte) float64 {
	samples := len(pcm) / 2
	if samples == 0 {
		return silenceDBFS
	}

	var sum float64
	for i := 0; i < samples; i++ {
		sample := float64(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / 32768.0
		sum += sample * sample
	}
	rms := math.Sqrt(sum / float64(samples))
	if rms == 0 {
		return silenceDBFS
	}
	return max(20*math.Log10(rms), silenceDBFS)
}

// writerFunc adapts a function to io.Writer for pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) {
	return f(b)
}
