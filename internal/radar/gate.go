// Package radar turns a loudness stream into emergency triggers.
package radar

import (
	"time"

	"github.com/rbright/maak/internal/audio"
)

// Gate fires once when loudness stays at or above Threshold for Hold, and
// re-arms after the level drops below Threshold.
type Gate struct {
	Threshold float64
	Hold      time.Duration

	loud  time.Duration
	fired bool
}

// Observe feeds one level and reports whether the gate fires on it.
func (g *Gate) Observe(level audio.Level) bool {
	if level.DBFS < g.Threshold {
		g.loud = 0
		g.fired = false
		return false
	}
	if g.fired {
		return false
	}
	g.loud += level.Span
	if g.loud >= g.Hold {
		g.fired = true
		return true
	}
	return false
}
