// Package speech reads recognized phrases aloud through a local TTS engine.
package speech

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rbright/maak/internal/config"
)

// Speaker voices text in a BCP 47 locale.
type Speaker interface {
	Speak(ctx context.Context, text string, locale string) error
}

// New selects a backend from config. A disabled config or backend "none"
// yields a speaker that does nothing.
func New(cfg config.SpeechConfig, logger *slog.Logger) (Speaker, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if !cfg.Enable {
		return Silent{}, nil
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "none":
		return Silent{}, nil
	case "espeak":
		return &Espeak{Binary: cfg.Binary, Voice: cfg.Voice, logger: logger}, nil
	case "piper":
		return NewPiper(cfg.Binary, cfg.ModelPath, logger), nil
	default:
		return nil, fmt.Errorf("unsupported speech backend %q", cfg.Backend)
	}
}

// Silent discards everything.
type Silent struct{}

// Speak implements Speaker.
func (Silent) Speak(context.Context, string, string) error { return nil }

// languageTag returns the primary language subtag of a locale such as
// "ar-SA" or "en_US.UTF-8".
func languageTag(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	if idx := strings.IndexAny(locale, "-_.@"); idx >= 0 {
		locale = locale[:idx]
	}
	return strings.ToLower(locale)
}
