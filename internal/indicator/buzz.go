package indicator

import (
	"context"
	"math"
	"time"

	"github.com/rbright/maak/internal/audio"
)

const (
	buzzSampleRate = 16000
	buzzVolume     = 0.35
)

// buzzPattern renders a vibration pattern as PCM. Even entries are buzz
// segments and odd entries are silence, like navigator.vibrate.
func buzzPattern(pattern []time.Duration, hz float64) []int16 {
	total := 0
	for _, d := range pattern {
		total += samplesForDuration(d)
	}
	if total == 0 {
		return nil
	}

	pcm := make([]int16, 0, total)
	for i, d := range pattern {
		if i%2 == 0 {
			if tone := synthesizeTone(hz, d, buzzVolume); len(tone) > 0 {
				pcm = append(pcm, tone...)
				continue
			}
		}
		pcm = append(pcm, make([]int16, samplesForDuration(d))...)
	}
	return pcm
}

// synthesizeTone returns a sine tone with a short linear attack and release.
func synthesizeTone(hz float64, d time.Duration, volume float64) []int16 {
	n := samplesForDuration(d)
	if n <= 0 || hz <= 0 || volume <= 0 {
		return nil
	}

	// 5ms ramps, shorter for very short tones
	ramp := min(n/10, buzzSampleRate/200)
	ramp = max(ramp, 1)

	pcm := make([]int16, n)
	for i := 0; i < n; i++ {
		envelope := 1.0
		if i < ramp {
			envelope = float64(i) / float64(ramp)
		}
		if tail := n - i - 1; tail < ramp {
			envelope = min(envelope, float64(tail)/float64(ramp))
		}
		sample := math.Sin(2 * math.Pi * hz * float64(i) / buzzSampleRate)
		pcm[i] = int16(math.Round(sample * volume * envelope * 32767))
	}
	return pcm
}

func samplesForDuration(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * buzzSampleRate))
}

// playPCM plays the rendered buzz through Pulse.
func playPCM(ctx context.Context, samples []int16) error {
	return audio.Play(ctx, samples, buzzSampleRate, "maak haptic buzz")
}
