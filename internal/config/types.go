// Package config resolves, parses, validates, and defaults maak configuration.
package config

// Config is the fully materialized runtime configuration used by maak.
type Config struct {
	Capture   CaptureConfig
	Inference InferenceConfig
	Alert     AlertConfig
	Speech    SpeechConfig
	Indicator IndicatorConfig
	Radar     RadarConfig
	Clipboard CommandConfig
	Log       LogConfig
}

// CaptureConfig selects the video device used by sign translation.
type CaptureConfig struct {
	// Device is a device node path or "auto" for the first /dev/video* node.
	Device string
}

// InferenceConfig controls the simulated recognition job.
type InferenceConfig struct {
	DelayMS int
	Phrases []string
	Locale  string
}

// AlertConfig controls the emergency alert window and vibration pattern.
type AlertConfig struct {
	WindowMS       int
	VibratePattern []int
	Text           string
}

// SpeechConfig selects the speech output backend.
type SpeechConfig struct {
	Enable    bool
	Backend   string
	Binary    string
	Voice     string
	ModelPath string
}

// IndicatorConfig controls haptic buzz playback and alert notifications.
type IndicatorConfig struct {
	Enable         bool
	Backend        string
	DesktopAppName string
	BuzzEnable     bool
	BuzzHz         float64
}

// RadarConfig controls the sound radar loudness gate.
type RadarConfig struct {
	Input         string
	Fallback      string
	ThresholdDBFS float64
	HoldMS        int
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// LogConfig controls runtime log verbosity.
type LogConfig struct {
	Level string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
