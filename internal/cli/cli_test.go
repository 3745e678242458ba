package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDefaultsToRun(t *testing.T) {
	parsed, err := Parse(nil)
	require.NoError(t, err)
	require.False(t, parsed.ShowHelp)
	require.Equal(t, CommandRun, parsed.Command)
}

func TestParseCommandWithConfig(t *testing.T) {
	parsed, err := Parse([]string{"--config", "/tmp/maak.jsonc", "doctor"})
	require.NoError(t, err)
	require.Equal(t, CommandDoctor, parsed.Command)
	require.Equal(t, "/tmp/maak.jsonc", parsed.ConfigPath)
	require.False(t, parsed.ShowHelp)
}

func TestParseArgMatrix(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  string
		wantCmd  Command
		wantArg  string
		wantHelp bool
		wantPath string
	}{
		{
			name:     "help short flag",
			args:     []string{"-h"},
			wantCmd:  CommandHelp,
			wantHelp: true,
		},
		{
			name:     "help long flag",
			args:     []string{"--help"},
			wantCmd:  CommandHelp,
			wantHelp: true,
		},
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantCmd: CommandVersion,
		},
		{
			name:     "config only runs ui",
			args:     []string{"--config", "/tmp/cfg"},
			wantCmd:  CommandRun,
			wantPath: "/tmp/cfg",
		},
		{
			name:    "config after command",
			args:    []string{"status", "--config", "/tmp/cfg"},
			wantErr: "unexpected arguments after command",
		},
		{
			name:    "missing config path",
			args:    []string{"--config"},
			wantErr: "requires a path",
		},
		{
			name:    "unknown flag",
			args:    []string{"--bogus"},
			wantErr: "unknown flag",
		},
		{
			name:    "unknown command",
			args:    []string{"bogus"},
			wantErr: "unknown command",
		},
		{
			name:    "extra args after command",
			args:    []string{"doctor", "extra"},
			wantErr: "unexpected arguments",
		},
		{
			name:    "open with feature",
			args:    []string{"open", "sound-radar"},
			wantCmd: CommandOpen,
			wantArg: "sound-radar",
		},
		{
			name:    "open without feature",
			args:    []string{"open"},
			wantErr: "open requires exactly one feature",
		},
		{
			name:    "open with two features",
			args:    []string{"open", "image-ocr", "sound-radar"},
			wantErr: "open requires exactly one feature",
		},
		{
			name:     "alert with config",
			args:     []string{"--config", "/tmp/cfg", "alert"},
			wantCmd:  CommandAlert,
			wantPath: "/tmp/cfg",
		},
		{
			name:     "config equals form",
			args:     []string{"--config=/tmp/cfg.yaml", "status"},
			wantCmd:  CommandStatus,
			wantPath: "/tmp/cfg.yaml",
		},
		{
			name:    "empty config equals form",
			args:    []string{"--config="},
			wantErr: "requires a path",
		},
		{
			name:     "help wins over later command",
			args:     []string{"--help", "bogus"},
			wantCmd:  CommandHelp,
			wantHelp: true,
		},
		{
			name:    "close",
			args:    []string{"close"},
			wantCmd: CommandClose,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Parse(tc.args)
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.wantCmd, parsed.Command)
			require.Equal(t, tc.wantArg, parsed.Arg)
			require.Equal(t, tc.wantHelp, parsed.ShowHelp)
			require.Equal(t, tc.wantPath, parsed.ConfigPath)
		})
	}
}

func TestHelpTextListsEveryCommand(t *testing.T) {
	text := HelpText("maak")
	require.True(t, strings.HasPrefix(text, "Usage:\n  maak [--config PATH] [command]\n"))
	require.Contains(t, text, "  open FEATURE    Open sign-to-text")
	for _, spec := range commands {
		require.Contains(t, text, spec.summary)
	}
}
