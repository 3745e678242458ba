// Package doctor runs runtime readiness diagnostics for config, devices, and
// the speech and alert backends.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rbright/maak/internal/audio"
	"github.com/rbright/maak/internal/capture"
	"github.com/rbright/maak/internal/config"
	"github.com/rbright/maak/internal/hypr"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(cfg config.Loaded) Report {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	checks := []Check{checkConfig(cfg)}

	checks = append(checks, checkEnv("XDG_SESSION_TYPE", func(v string) bool {
		return strings.EqualFold(strings.TrimSpace(v), "wayland")
	}, "session type is wayland", "expected XDG_SESSION_TYPE=wayland"))

	devices, err := capture.ListDevices(ctx)
	checks = append(checks, checkVideoDevice(cfg.Config.Capture.Device, devices, err))
	checks = append(checks, checkCommand(cfg.Config.Clipboard.Argv, "clipboard_cmd"))
	checks = append(checks, checkSpeech(cfg.Config.Speech)...)
	checks = append(checks, checkIndicator(ctx, cfg.Config.Indicator)...)
	checks = append(checks, checkRadarSource(ctx, cfg.Config.Radar))

	return Report{Checks: checks}
}

func checkConfig(cfg config.Loaded) Check {
	message := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		message = fmt.Sprintf("%q missing; using defaults", cfg.Path)
	}
	if n := len(cfg.Warnings); n > 0 && cfg.Exists {
		message = fmt.Sprintf("%s (%d warnings)", message, n)
	}
	return Check{Name: "config", Pass: true, Message: message}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkVideoDevice confirms the configured device (or any device for
// "auto") is present and readable.
func checkVideoDevice(configured string, devices []capture.Device, listErr error) Check {
	const name = "capture.device"
	if listErr != nil {
		return Check{Name: name, Pass: false, Message: listErr.Error()}
	}

	configured = strings.TrimSpace(configured)
	auto := configured == "" || strings.EqualFold(configured, "auto")
	for _, device := range devices {
		if !auto && device.Path != configured {
			continue
		}
		if !device.Readable {
			return Check{Name: name, Pass: false, Message: fmt.Sprintf("%s (%s) is not readable; check video group membership", device.Path, device.Name)}
		}
		return Check{Name: name, Pass: true, Message: fmt.Sprintf("%s (%s)", device.Path, device.Name)}
	}

	if auto {
		return Check{Name: name, Pass: false, Message: "no /dev/video* devices found"}
	}
	return Check{Name: name, Pass: false, Message: fmt.Sprintf("configured device %s not found", configured)}
}

func checkSpeech(cfg config.SpeechConfig) []Check {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if !cfg.Enable || backend == "none" || backend == "" {
		return []Check{{Name: "speech", Pass: true, Message: "speech output disabled"}}
	}

	checks := []Check{checkBinary(cfg.Binary, fmt.Sprintf("%s speech backend", backend))}
	if backend == "piper" {
		if _, err := os.Stat(cfg.ModelPath); err != nil {
			checks = append(checks, Check{Name: "speech.model_path", Pass: false, Message: fmt.Sprintf("piper model unreadable: %v", err)})
		} else {
			checks = append(checks, Check{Name: "speech.model_path", Pass: true, Message: cfg.ModelPath})
		}
	}
	return checks
}

func checkIndicator(ctx context.Context, cfg config.IndicatorConfig) []Check {
	if !cfg.Enable {
		return []Check{{Name: "indicator", Pass: true, Message: "alert notifications disabled"}}
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Backend), "desktop") {
		return []Check{checkBinary("busctl", "desktop notifications via DBus")}
	}

	checks := []Check{
		checkEnv("HYPRLAND_INSTANCE_SIGNATURE", func(v string) bool {
			return strings.TrimSpace(v) != ""
		}, "Hyprland session detected", "HYPRLAND_INSTANCE_SIGNATURE is empty"),
		checkBinary("hyprctl", "Hyprland notifications"),
	}
	if !checks[1].Pass {
		return checks
	}

	monitor, err := hypr.FocusedMonitor(ctx)
	if err != nil {
		checks = append(checks, Check{Name: "hypr.monitor", Pass: false, Message: err.Error()})
	} else {
		checks = append(checks, Check{Name: "hypr.monitor", Pass: true, Message: fmt.Sprintf("alerts render on %s", monitor)})
	}
	return checks
}

// checkRadarSource runs live source selection to surface fallback issues.
func checkRadarSource(ctx context.Context, cfg config.RadarConfig) Check {
	selection, err := audio.SelectSource(ctx, cfg.Input, cfg.Fallback)
	if err != nil {
		return Check{Name: "radar.source", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Source.ID)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "radar.source", Pass: true, Message: message}
}
