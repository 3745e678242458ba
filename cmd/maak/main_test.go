package main

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// maakArgsEnv carries NUL-separated CLI args into a re-executed test binary
// that then behaves as the maak command.
const maakArgsEnv = "MAAK_TEST_MAIN_ARGS"

func TestMain(m *testing.M) {
	if raw, ok := os.LookupEnv(maakArgsEnv); ok {
		os.Args = append([]string{"maak"}, strings.Split(raw, "\x00")...)
		if raw == "" {
			os.Args = os.Args[:1]
		}
		main()
		return
	}
	os.Exit(m.Run())
}

// execMaak runs the test binary as maak and returns its output and exit code.
func execMaak(t *testing.T, args ...string) (string, int) {
	t.Helper()

	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), maakArgsEnv+"="+strings.Join(args, "\x00"))
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return string(out), 0
	case errors.As(err, &exitErr):
		return string(out), exitErr.ExitCode()
	default:
		t.Fatalf("exec maak: %v", err)
		return "", -1
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		args     []string
		wantCode int
		wantOut  string
	}{
		{args: []string{"--help"}, wantCode: 0, wantOut: "Usage:"},
		{args: []string{"version"}, wantCode: 0, wantOut: "maak "},
		{args: []string{"teleport"}, wantCode: 2, wantOut: "unknown command"},
		{args: []string{"open"}, wantCode: 2, wantOut: "open requires exactly one feature"},
	}

	for _, tc := range tests {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			out, code := execMaak(t, tc.args...)
			require.Equal(t, tc.wantCode, code, out)
			require.Contains(t, out, tc.wantOut)
		})
	}
}

func TestStatusWithoutRunningSession(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	out, code := execMaak(t, "status")
	require.Equal(t, 0, code, out)
	require.Contains(t, out, "not running")
}
