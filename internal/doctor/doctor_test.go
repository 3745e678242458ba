package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/maak/internal/capture"
	"github.com/rbright/maak/internal/config"
)

func TestReportOKAndString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "one", Pass: true, Message: "good"},
		{Name: "two", Pass: false, Message: "bad"},
	}}

	require.False(t, report.OK())
	text := report.String()
	require.Contains(t, text, "[OK] one: good")
	require.Contains(t, text, "[FAIL] two: bad")
}

func TestReportOKAllPassing(t *testing.T) {
	report := Report{Checks: []Check{{Name: "one", Pass: true}, {Name: "two", Pass: true}}}
	require.True(t, report.OK())
}

func TestCheckConfig(t *testing.T) {
	check := checkConfig(config.Loaded{Path: "/tmp/c.jsonc", Exists: true, Warnings: []config.Warning{{Message: "x"}}})
	require.True(t, check.Pass)
	require.Equal(t, `loaded "/tmp/c.jsonc" (1 warnings)`, check.Message)

	check = checkConfig(config.Loaded{Path: "/tmp/c.jsonc"})
	require.Contains(t, check.Message, "missing; using defaults")
}

func TestCheckEnv(t *testing.T) {
	t.Setenv("TEST_DOCTOR_ENV", "wayland")

	check := checkEnv(
		"TEST_DOCTOR_ENV",
		func(v string) bool { return strings.EqualFold(v, "wayland") },
		"looks good",
		"unexpected",
	)

	require.True(t, check.Pass)
	require.Equal(t, "looks good", check.Message)
}

func TestCheckCommandEmpty(t *testing.T) {
	check := checkCommand(nil, "clipboard_cmd")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "command is empty")
}

func TestCheckBinaryFound(t *testing.T) {
	check := checkBinary("sh", "shell available")
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "shell available")
}

func TestCheckBinaryMissing(t *testing.T) {
	check := checkBinary("definitely-not-a-real-binary", "unused")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "binary not found")
}

func TestCheckCommandUsesBinaryFromPath(t *testing.T) {
	installStub(t, "fake-bin", "exit 0")

	check := checkCommand([]string{"fake-bin", "--arg"}, "clipboard_cmd")
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "clipboard_cmd command is available")
}

func TestCheckVideoDeviceMatrix(t *testing.T) {
	devices := []capture.Device{
		{Path: "/dev/video0", Name: "Integrated Camera", Readable: false},
		{Path: "/dev/video2", Name: "USB Camera", Readable: true},
	}

	tests := []struct {
		name       string
		configured string
		devices    []capture.Device
		err        error
		wantPass   bool
		wantMsg    string
	}{
		{name: "list error", configured: "auto", err: errors.New("boom"), wantMsg: "boom"},
		{name: "auto none", configured: "auto", wantMsg: "no /dev/video* devices found"},
		{name: "auto first unreadable", configured: "auto", devices: devices, wantMsg: "not readable"},
		{name: "explicit readable", configured: "/dev/video2", devices: devices, wantPass: true, wantMsg: "USB Camera"},
		{name: "explicit missing", configured: "/dev/video9", devices: devices, wantMsg: "not found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			check := checkVideoDevice(tc.configured, tc.devices, tc.err)
			require.Equal(t, "capture.device", check.Name)
			require.Equal(t, tc.wantPass, check.Pass)
			require.Contains(t, check.Message, tc.wantMsg)
		})
	}
}

func TestCheckSpeech(t *testing.T) {
	cfg := config.Default().Speech
	cfg.Enable = false
	checks := checkSpeech(cfg)
	require.Len(t, checks, 1)
	require.True(t, checks[0].Pass)

	installStub(t, "piper", "exit 0")
	cfg = config.SpeechConfig{Enable: true, Backend: "piper", Binary: "piper", ModelPath: filepath.Join(t.TempDir(), "missing.onnx")}
	checks = checkSpeech(cfg)
	require.Len(t, checks, 2)
	require.True(t, checks[0].Pass)
	require.False(t, checks[1].Pass)
	require.Equal(t, "speech.model_path", checks[1].Name)
}

func TestCheckIndicatorDesktopNeedsBusctl(t *testing.T) {
	installStub(t, "busctl", "exit 0")

	checks := checkIndicator(context.Background(), config.Default().Indicator)
	require.Len(t, checks, 1)
	require.Equal(t, "busctl", checks[0].Name)
	require.True(t, checks[0].Pass)
}

func TestCheckIndicatorHyprQueriesMonitor(t *testing.T) {
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "abc123")
	installStub(t, "hyprctl", `echo '[{"name":"DP-1","focused":false},{"name":"eDP-1","focused":true}]'`)

	cfg := config.Default().Indicator
	cfg.Backend = "hypr"
	checks := checkIndicator(context.Background(), cfg)
	require.Len(t, checks, 3)
	require.True(t, checks[2].Pass)
	require.Contains(t, checks[2].Message, "eDP-1")
}

func TestCheckRadarSourceFailureWithInvalidPulseServer(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	check := checkRadarSource(context.Background(), config.Default().Radar)
	require.False(t, check.Pass)
	require.Equal(t, "radar.source", check.Name)
}

func TestRunIncludesBackendChecks(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")
	t.Setenv("XDG_SESSION_TYPE", "wayland")
	installStub(t, "fake-copy", "exit 0")

	cfg := config.Default()
	cfg.Clipboard = config.CommandConfig{Raw: "fake-copy", Argv: []string{"fake-copy"}}
	cfg.Speech.Enable = false
	cfg.Indicator.Enable = false

	report := Run(config.Loaded{Path: "/tmp/config.jsonc", Config: cfg, Exists: true})

	names := make([]string, 0, len(report.Checks))
	for _, check := range report.Checks {
		names = append(names, check.Name)
	}
	require.Equal(t, []string{"config", "XDG_SESSION_TYPE", "capture.device", "fake-copy", "speech", "indicator", "radar.source"}, names)
	require.False(t, report.OK())
}

func installStub(t *testing.T, name string, body string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/usr/bin/env bash\n"+body+"\n"), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))
}
