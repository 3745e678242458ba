package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Espeak speaks through espeak-ng (or a compatible binary) on the default
// audio sink.
type Espeak struct {
	Binary string
	// Voice overrides the voice derived from the locale.
	Voice string

	logger *slog.Logger
}

// Speak implements Speaker.
func (e *Espeak) Speak(ctx context.Context, text string, locale string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	binary := e.Binary
	if binary == "" {
		binary = "espeak-ng"
	}
	args := e.args(text, locale)

	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s failed: %w, stderr: %s", binary, err, strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("run %s: %w", binary, err)
	}
	if e.logger != nil {
		e.logger.Debug("speech spoken", "backend", "espeak", "voice", args[1], "chars", len([]rune(text)))
	}
	return nil
}

func (e *Espeak) args(text string, locale string) []string {
	voice := strings.TrimSpace(e.Voice)
	if voice == "" {
		voice = languageTag(locale)
	}
	if voice == "" {
		voice = "en"
	}
	return []string{"-v", voice, "--", text}
}
