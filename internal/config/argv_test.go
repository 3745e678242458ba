package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseArgvClipboardCommands(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "   ", want: nil},
		{in: "# disabled", want: nil},
		{in: "wl-copy", want: []string{"wl-copy"}},
		{in: "  wl-copy   --type text/plain ", want: []string{"wl-copy", "--type", "text/plain"}},
		{in: `xclip -selection "clip board"`, want: []string{"xclip", "-selection", "clip board"}},
		{in: `sh -c 'tee /tmp/out | wl-copy'`, want: []string{"sh", "-c", "tee /tmp/out | wl-copy"}},
		{in: `copy '' last`, want: []string{"copy", "", "last"}},
		{in: `copy a\ b "c\"d"`, want: []string{"copy", "a b", `c"d`}},
		{in: `copy --label="نص عربي" --flag`, want: []string{"copy", "--label=نص عربي", "--flag"}},
		{in: "copy\tone\ntwo", want: []string{"copy", "one", "two"}},
		{in: `copy mid"dle quo"ted`, want: []string{"copy", "middle quoted"}},
	}

	for _, tc := range cases {
		got, err := parseArgv(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseArgvRejectsUnbalancedInput(t *testing.T) {
	_, err := parseArgv(`wl-copy "open`)
	require.ErrorContains(t, err, "unterminated quote")

	_, err = parseArgv(`wl-copy trailing\`)
	require.ErrorContains(t, err, "unterminated escape")

	require.Panics(t, func() { mustParseArgv(`wl-copy 'open`) })
}
