// Package output copies recognized text to the system clipboard.
package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/rbright/maak/internal/config"
)

const clipboardTimeout = 2 * time.Second

var errNoCommand = errors.New("no clipboard command configured")

// Clipboard pipes text into the configured clipboard command.
type Clipboard struct {
	argv   []string
	logger *slog.Logger
}

// NewClipboard builds a committer from the clipboard_cmd setting.
func NewClipboard(cmd config.CommandConfig, logger *slog.Logger) *Clipboard {
	return &Clipboard{argv: append([]string(nil), cmd.Argv...), logger: logger}
}

// Commit writes text to the clipboard. Blank text is ignored.
func (c *Clipboard) Commit(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, clipboardTimeout)
	defer cancel()

	started := time.Now()
	if err := pipeTo(ctx, c.argv, text); err != nil {
		return fmt.Errorf("set clipboard: %w", err)
	}
	if c.logger != nil {
		c.logger.Debug("clipboard set",
			"command", c.argv[0],
			"chars", len([]rune(text)),
			"took_ms", time.Since(started).Milliseconds(),
		)
	}
	return nil
}

// pipeTo runs argv with input on stdin. Stderr is folded into the error.
func pipeTo(ctx context.Context, argv []string, input string) error {
	if len(argv) == 0 {
		return errNoCommand
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}
