package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rbright/maak/internal/audio"
	"github.com/rbright/maak/internal/capture"
	"github.com/rbright/maak/internal/cli"
	"github.com/rbright/maak/internal/config"
	"github.com/rbright/maak/internal/doctor"
	"github.com/rbright/maak/internal/indicator"
	"github.com/rbright/maak/internal/ipc"
	"github.com/rbright/maak/internal/logging"
	"github.com/rbright/maak/internal/output"
	"github.com/rbright/maak/internal/radar"
	"github.com/rbright/maak/internal/session"
	"github.com/rbright/maak/internal/speech"
	"github.com/rbright/maak/internal/tui"
	"github.com/rbright/maak/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	// UI drives the controller until the user quits. Nil runs the terminal UI.
	UI func(context.Context, *session.Controller) error
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("maak"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("maak"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New("info")
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	if err := logRuntime.SetLevel(cfgLoaded.Config.Log.Level); err != nil {
		logger.Warn("keeping default log level", "error", err.Error())
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		if parsed.Command != cli.CommandRun {
			fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		}
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices(ctx)
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandAlert, cli.CommandClose, cli.CommandOpen:
		return r.forwardOrFail(ctx, ipc.Request{Command: string(parsed.Command), Arg: parsed.Arg})
	case cli.CommandRun:
		return r.commandRun(ctx, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandDevices(ctx context.Context) int {
	videos, err := capture.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintln(r.Stdout, "video:")
	if len(videos) == 0 {
		fmt.Fprintln(r.Stdout, "  no video devices found")
	}
	for _, device := range videos {
		fmt.Fprintf(r.Stdout, "  path=%s | name=%q | readable=%s\n", device.Path, device.Name, yesNo(device.Readable))
	}

	sources, err := audio.ListSources(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintln(r.Stdout, "audio:")
	if len(sources) == 0 {
		fmt.Fprintln(r.Stdout, "  no audio sources found")
	}
	for _, source := range sources {
		defaultMark := " "
		if source.Default {
			defaultMark = "*"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			source.ID,
			source.Description,
			source.State,
			yesNo(source.Available),
			yesNo(source.Muted),
		)
	}

	if len(videos) == 0 && len(sources) == 0 {
		return 1
	}
	return 0
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "not running")
		return 0
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: "status"})
	if !handled {
		fmt.Fprintln(r.Stdout, "not running")
		return 0
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintln(r.Stdout, formatStatus(resp))
	return 0
}

func formatStatus(resp ipc.Response) string {
	feature := resp.Feature
	if feature == "" {
		feature = "none"
	}
	return fmt.Sprintf("screen=%s feature=%s emergency=%t", resp.Screen, feature, resp.Emergency)
}

func (r Runner) forwardOrFail(ctx context.Context, req ipc.Request) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, req)
	if !handled {
		fmt.Fprintf(r.Stderr, "error: maak is not running\n")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

// commandRun owns the control socket, wires the adapters into a controller,
// and runs the UI until it exits.
func (r Runner) commandRun(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	speaker, err := speech.New(cfg.Speech, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	controller := session.NewController(session.Options{
		Logger:         logger,
		Capture:        capture.NewProvider(cfg.Capture.Device, logger),
		Inference:      session.NewPhraseStub(cfg.Inference.Phrases),
		Speaker:        speaker,
		Indicator:      indicator.NewNotifier(cfg.Indicator, logger),
		Radar:          radar.NewListener(cfg.Radar.Input, cfg.Radar.Fallback, cfg.Radar.ThresholdDBFS, cfg.RadarHold(), logger),
		Committer:      output.NewClipboard(cfg.Clipboard, logger),
		InferenceDelay: cfg.InferenceDelay(),
		Locale:         cfg.Inference.Locale,
		AlertWindow:    cfg.AlertWindow(),
		VibratePattern: cfg.VibratePattern(),
		AlertText:      cfg.Alert.Text,
	})
	sessionID := controller.Snapshot().SessionID
	logger.Info("session start", "session_id", sessionID, "socket", socketPath)

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		srv := &ipc.Server{Handler: controller, Logger: logger}
		serverErrCh <- srv.Serve(serverCtx, listener)
	}()

	ui := r.UI
	if ui == nil {
		ui = func(ctx context.Context, ctrl *session.Controller) error {
			return tui.Run(ctx, ctrl)
		}
	}
	uiErr := ui(ctx, controller)

	serverCancel()
	serverErr := <-serverErrCh
	controller.Close()

	if uiErr != nil {
		logger.Error("session failed", "session_id", sessionID, "error", uiErr.Error())
		fmt.Fprintf(r.Stderr, "error: %v\n", uiErr)
		return 1
	}
	if serverErr != nil {
		logger.Error("ipc server failed", "session_id", sessionID, "error", serverErr.Error())
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}
	logger.Info("session complete", "session_id", sessionID)
	return 0
}

func tryForward(ctx context.Context, socketPath string, req ipc.Request) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, req, 220*time.Millisecond)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if ipc.NoOwner(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", req.Command, err)
}
