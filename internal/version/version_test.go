package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	prev := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = prev[0], prev[1], prev[2] })
	Version, Commit, Date = version, commit, date
}

func TestStringReportsLinkTimeStamp(t *testing.T) {
	stamp(t, "0.4.0", "9f1c2ab", "2026-10-01")

	got := String()
	require.Regexp(t, `^maak 0\.4\.0 \(commit=9f1c2ab, date=2026-10-01, go=go[0-9.]+.*\)$`, got)
}

func TestResolvedVersionKeepsDevWithoutModuleVersion(t *testing.T) {
	stamp(t, "dev", "none", "unknown")

	// Test binaries carry no release module version.
	require.Equal(t, "dev", resolvedVersion())
}
