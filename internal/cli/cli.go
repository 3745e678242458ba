// Package cli parses maak's global flags and subcommand.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandRun     Command = "run"
	CommandStatus  Command = "status"
	CommandAlert   Command = "alert"
	CommandClose   Command = "close"
	CommandOpen    Command = "open"
	CommandDevices Command = "devices"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

type commandSpec struct {
	name    Command
	usage   string
	summary string
	// wantsArg marks commands that take exactly one positional argument.
	wantsArg bool
}

// commands is ordered as printed in the help text.
var commands = []commandSpec{
	{name: CommandRun, summary: "Start the interface (default)"},
	{name: CommandStatus, summary: "Print screen, open panel, and alert state"},
	{name: CommandAlert, summary: "Raise the emergency alert"},
	{name: CommandClose, summary: "Close the open feature panel"},
	{name: CommandOpen, usage: "open FEATURE", summary: "Open sign-to-text, text-to-avatar, sound-radar, or image-ocr", wantsArg: true},
	{name: CommandDevices, summary: "List video devices and audio sources"},
	{name: CommandDoctor, summary: "Run configuration and environment checks"},
	{name: CommandVersion, summary: "Print version information"},
	{name: CommandHelp, summary: "Show this help"},
}

func lookup(name string) (commandSpec, bool) {
	for _, spec := range commands {
		if string(spec.name) == name {
			return spec, true
		}
	}
	return commandSpec{}, false
}

type Parsed struct {
	Command    Command
	Arg        string
	ConfigPath string
	ShowHelp   bool
}

// Parse reads global flags followed by at most one command. Flags after the
// command are rejected. With no command the UI runs.
func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandRun}

	for len(args) > 0 {
		arg := args[0]
		args = args[1:]

		switch {
		case arg == "-h" || arg == "--help":
			return Parsed{Command: CommandHelp, ShowHelp: true, ConfigPath: parsed.ConfigPath}, nil
		case arg == "--version":
			parsed.Command = CommandVersion
		case arg == "--config":
			if len(args) == 0 {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath, args = args[0], args[1:]
		case strings.HasPrefix(arg, "--config="):
			parsed.ConfigPath = strings.TrimPrefix(arg, "--config=")
			if parsed.ConfigPath == "" {
				return Parsed{}, errors.New("--config requires a path")
			}
		case strings.HasPrefix(arg, "-"):
			return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
		default:
			return parseCommand(parsed, arg, args)
		}
	}
	return parsed, nil
}

func parseCommand(parsed Parsed, name string, rest []string) (Parsed, error) {
	spec, ok := lookup(name)
	if !ok {
		return Parsed{}, fmt.Errorf("unknown command: %s", name)
	}
	parsed.Command = spec.name
	parsed.ShowHelp = spec.name == CommandHelp

	if spec.wantsArg {
		if len(rest) != 1 || strings.TrimSpace(rest[0]) == "" {
			return Parsed{}, fmt.Errorf("%s requires exactly one feature", name)
		}
		parsed.Arg = rest[0]
		return parsed, nil
	}
	if len(rest) > 0 {
		return Parsed{}, fmt.Errorf("unexpected arguments after command %q: %s", name, strings.Join(rest, " "))
	}
	return parsed, nil
}

// HelpText renders usage for binaryName from the command table.
func HelpText(binaryName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage:\n  %s [--config PATH] [command]\n\nCommands:\n", binaryName)
	for _, spec := range commands {
		usage := spec.usage
		if usage == "" {
			usage = string(spec.name)
		}
		fmt.Fprintf(&b, "  %-15s %s\n", usage, spec.summary)
	}
	b.WriteString(`
Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/maak/config.jsonc)
  -h, --help      Show help
  --version       Show version
`)
	return b.String()
}
