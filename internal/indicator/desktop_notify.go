package indicator

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// urgencyCritical is the freedesktop "critical" urgency hint value.
const urgencyCritical byte = 2

// desktopNotify sends a freedesktop notification over DBus via busctl and
// returns the id the server assigned. timeoutMS 0 means no expiry.
func desktopNotify(ctx context.Context, appName string, replaceID uint32, summary string, urgency byte, timeoutMS int) (uint32, error) {
	args := []string{
		"--user", "call",
		"org.freedesktop.Notifications",
		"/org/freedesktop/Notifications",
		"org.freedesktop.Notifications",
		"Notify", "susssasa{sv}i",
		appName,
		strconv.FormatUint(uint64(replaceID), 10),
		"dialog-warning",
		summary,
		"",
		// no actions, one urgency hint
		"0",
		"1", "urgency", "y", strconv.Itoa(int(urgency)),
		strconv.Itoa(timeoutMS),
	}

	out, err := busctl(ctx, args)
	if err != nil {
		return 0, fmt.Errorf("desktop notify: %w", err)
	}

	fields := strings.Fields(out)
	if len(fields) < 2 || fields[0] != "u" {
		return 0, fmt.Errorf("desktop notify: unexpected reply %q", out)
	}
	id, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("desktop notify: parse id %q: %w", fields[1], err)
	}
	return uint32(id), nil
}

// desktopDismiss closes a notification by id.
func desktopDismiss(ctx context.Context, id uint32) error {
	args := []string{
		"--user", "call",
		"org.freedesktop.Notifications",
		"/org/freedesktop/Notifications",
		"org.freedesktop.Notifications",
		"CloseNotification", "u",
		strconv.FormatUint(uint64(id), 10),
	}
	if _, err := busctl(ctx, args); err != nil {
		return fmt.Errorf("desktop dismiss: %w", err)
	}
	return nil
}

func busctl(ctx context.Context, args []string) (string, error) {
	out, err := exec.CommandContext(ctx, "busctl", args...).CombinedOutput()
	trimmed := strings.TrimSpace(string(out))
	if err != nil {
		if trimmed == "" {
			return "", fmt.Errorf("busctl: %w", err)
		}
		return "", fmt.Errorf("busctl: %w (%s)", err, trimmed)
	}
	return trimmed, nil
}
