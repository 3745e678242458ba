package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Loaded is a parsed config plus where it came from.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	// Exists is false when defaults were used because no file was found.
	Exists bool
}

// Load reads the config at explicitPath, or the default location when empty.
// A missing file is not an error: defaults are returned with one warning.
func Load(explicitPath string) (Loaded, error) {
	path, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}
	loaded := Loaded{Path: path}

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		loaded.Config = Default()
		loaded.Warnings = []Warning{{Message: fmt.Sprintf("no config at %s, running with defaults", path)}}
		return loaded, nil
	case err != nil:
		return Loaded{}, fmt.Errorf("read config %s: %w", path, err)
	}

	loaded.Config, loaded.Warnings, err = Parse(string(content), Default())
	if err != nil {
		return Loaded{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	loaded.Exists = true
	return loaded, nil
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// InferenceDelay is the simulated recognition latency.
func (c Config) InferenceDelay() time.Duration { return millis(c.Inference.DelayMS) }

// AlertWindow is how long an emergency alert stays raised.
func (c Config) AlertWindow() time.Duration { return millis(c.Alert.WindowMS) }

// RadarHold is how long loudness must persist before the radar alerts.
func (c Config) RadarHold() time.Duration { return millis(c.Radar.HoldMS) }

// VibratePattern is the haptic on/off pattern.
func (c Config) VibratePattern() []time.Duration {
	pattern := make([]time.Duration, len(c.Alert.VibratePattern))
	for i, ms := range c.Alert.VibratePattern {
		pattern[i] = millis(ms)
	}
	return pattern
}
