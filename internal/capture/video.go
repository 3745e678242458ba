// Package capture acquires and releases video input devices (V4L2 nodes).
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
)

var (
	// ErrPermissionDenied indicates the device exists but access was refused.
	ErrPermissionDenied = errors.New("video capture permission denied")
	// ErrNoDevice indicates no usable video device node was found.
	ErrNoDevice = errors.New("no video capture device available")
)

const (
	defaultDevRoot = "/dev"
	defaultSysRoot = "/sys/class/video4linux"
)

// Device describes one video device node.
type Device struct {
	Path     string
	Name     string
	Readable bool
}

// Handle is an acquired capture session. StopAll releases every track.
type Handle interface {
	StopAll() error
	Tracks() int
}

// ListDevices enumerates /dev/video* nodes with their sysfs names.
func ListDevices(_ context.Context) ([]Device, error) {
	return listDevices(defaultDevRoot, defaultSysRoot)
}

func listDevices(devRoot, sysRoot string) ([]Device, error) {
	paths, err := filepath.Glob(filepath.Join(devRoot, "video*"))
	if err != nil {
		return nil, fmt.Errorf("list video nodes: %w", err)
	}
	sort.Strings(paths)

	devices := make([]Device, 0, len(paths))
	for _, path := range paths {
		base := filepath.Base(path)
		name := base
		if raw, err := os.ReadFile(filepath.Join(sysRoot, base, "name")); err == nil {
			if trimmed := strings.TrimSpace(string(raw)); trimmed != "" {
				name = trimmed
			}
		}
		devices = append(devices, Device{
			Path:     path,
			Name:     name,
			Readable: readable(path),
		})
	}
	return devices, nil
}

func readable(path string) bool {
	f, err := os.OpenFile(path, os.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Provider opens the configured video device on request.
type Provider struct {
	device  string
	devRoot string
	sysRoot string
	logger  *slog.Logger
	open    func(path string) (io.Closer, error)
}

// NewProvider builds a provider for a device path, or "auto" for the first node.
func NewProvider(device string, logger *slog.Logger) *Provider {
	return &Provider{
		device:  strings.TrimSpace(device),
		devRoot: defaultDevRoot,
		sysRoot: defaultSysRoot,
		logger:  logger,
		open:    openNode,
	}
}

// RequestVideo acquires a video-only capture session.
func (p *Provider) RequestVideo(ctx context.Context) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := p.resolve()
	if err != nil {
		return nil, err
	}

	closer, err := p.open(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrPermission):
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", ErrNoDevice, path)
		default:
			return nil, fmt.Errorf("open video device %s: %w", path, err)
		}
	}

	if p.logger != nil {
		p.logger.Debug("video capture acquired", "device", path)
	}
	return &Session{tracks: []track{{path: path, closer: closer}}}, nil
}

// resolve picks the configured path or the first enumerated node.
func (p *Provider) resolve() (string, error) {
	if p.device != "" && !strings.EqualFold(p.device, "auto") {
		return p.device, nil
	}
	devices, err := listDevices(p.devRoot, p.sysRoot)
	if err != nil {
		return "", err
	}
	if len(devices) == 0 {
		return "", ErrNoDevice
	}
	return devices[0].Path, nil
}

func openNode(path string) (io.Closer, error) {
	return os.OpenFile(path, os.O_RDWR|syscall.O_NONBLOCK, 0)
}

type track struct {
	path   string
	closer io.Closer
}

// Session holds the open tracks of one acquisition.
type Session struct {
	mu      sync.Mutex
	tracks  []track
	stopped bool
}

// Tracks reports how many tracks are still live.
func (s *Session) Tracks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return 0
	}
	return len(s.tracks)
}

// StopAll closes every track exactly once.
func (s *Session) StopAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true

	var errs []error
	for _, t := range s.tracks {
		if err := t.closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("stop track %s: %w", t.path, err))
		}
	}
	return errors.Join(errs...)
}
