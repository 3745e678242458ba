package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Capture.Device) == "" {
		return nil, fmt.Errorf("capture.device must not be empty (use \"auto\")")
	}

	if cfg.Inference.DelayMS < 0 {
		return nil, fmt.Errorf("inference.delay_ms must be >= 0")
	}
	if len(cfg.Inference.Phrases) == 0 {
		return nil, fmt.Errorf("inference.phrases must contain at least one phrase")
	}
	if strings.TrimSpace(cfg.Inference.Locale) == "" {
		return nil, fmt.Errorf("inference.locale must not be empty")
	}

	if cfg.Alert.WindowMS <= 0 {
		return nil, fmt.Errorf("alert.window_ms must be > 0")
	}
	for i, ms := range cfg.Alert.VibratePattern {
		if ms < 0 {
			return nil, fmt.Errorf("alert.vibrate_pattern[%d] must be >= 0", i)
		}
	}
	if len(cfg.Alert.VibratePattern) == 0 {
		warnings = append(warnings, Warning{Message: "alert.vibrate_pattern is empty; alerts will not vibrate"})
	}

	switch cfg.Speech.Backend {
	case "espeak", "none":
	case "piper":
		if cfg.Speech.Enable && strings.TrimSpace(cfg.Speech.ModelPath) == "" {
			return nil, fmt.Errorf("speech.model_path must not be empty when speech.backend=piper")
		}
	default:
		return nil, fmt.Errorf("speech.backend must be one of: espeak, piper, none")
	}
	if cfg.Speech.Enable && cfg.Speech.Backend != "none" && strings.TrimSpace(cfg.Speech.Binary) == "" {
		return nil, fmt.Errorf("speech.binary must not be empty when speech is enabled")
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Indicator.Backend))
	if backend != "hypr" && backend != "desktop" {
		return nil, fmt.Errorf("indicator.backend must be one of: hypr, desktop")
	}
	if backend == "desktop" && strings.TrimSpace(cfg.Indicator.DesktopAppName) == "" {
		return nil, fmt.Errorf("indicator.desktop_app_name must not be empty when indicator.backend=desktop")
	}
	if cfg.Indicator.BuzzEnable && (cfg.Indicator.BuzzHz < 20 || cfg.Indicator.BuzzHz > 4000) {
		return nil, fmt.Errorf("indicator.buzz_hz must be within 20..4000")
	}

	if cfg.Radar.ThresholdDBFS > 0 || cfg.Radar.ThresholdDBFS < -120 {
		return nil, fmt.Errorf("radar.threshold_dbfs must be within -120..0")
	}
	if cfg.Radar.HoldMS < 0 {
		return nil, fmt.Errorf("radar.hold_ms must be >= 0")
	}

	if len(cfg.Clipboard.Argv) == 0 {
		return nil, fmt.Errorf("clipboard_cmd must not be empty")
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	return warnings, nil
}
