package capture

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingCloser struct {
	closes int
	err    error
}

func (c *countingCloser) Close() error {
	c.closes++
	return c.err
}

func newTestProvider(t *testing.T, device string) (*Provider, string, string) {
	t.Helper()
	devRoot := t.TempDir()
	sysRoot := t.TempDir()
	p := NewProvider(device, nil)
	p.devRoot = devRoot
	p.sysRoot = sysRoot
	return p, devRoot, sysRoot
}

func TestListDevicesReadsSysfsNames(t *testing.T) {
	devRoot := t.TempDir()
	sysRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(devRoot, "video1"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(devRoot, "video0"), nil, 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(sysRoot, "video0"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sysRoot, "video0", "name"), []byte("Integrated Camera\n"), 0o644))

	devices, err := listDevices(devRoot, sysRoot)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	require.Equal(t, filepath.Join(devRoot, "video0"), devices[0].Path)
	require.Equal(t, "Integrated Camera", devices[0].Name)
	require.Equal(t, "video1", devices[1].Name)
	require.True(t, devices[0].Readable)
}

func TestRequestVideoAutoWithoutDevices(t *testing.T) {
	p, _, _ := newTestProvider(t, "auto")

	_, err := p.RequestVideo(context.Background())
	require.ErrorIs(t, err, ErrNoDevice)
}

func TestRequestVideoAutoOpensFirstNode(t *testing.T) {
	p, devRoot, _ := newTestProvider(t, "auto")
	require.NoError(t, os.WriteFile(filepath.Join(devRoot, "video0"), nil, 0o600))

	var opened string
	closer := &countingCloser{}
	p.open = func(path string) (io.Closer, error) {
		opened = path
		return closer, nil
	}

	handle, err := p.RequestVideo(context.Background())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(devRoot, "video0"), opened)
	require.Equal(t, 1, handle.Tracks())

	require.NoError(t, handle.StopAll())
	require.NoError(t, handle.StopAll())
	require.Equal(t, 1, closer.closes)
	require.Equal(t, 0, handle.Tracks())
}

func TestRequestVideoMapsOpenErrors(t *testing.T) {
	tests := []struct {
		name    string
		openErr error
		want    error
	}{
		{name: "permission", openErr: &fs.PathError{Op: "open", Path: "/dev/video0", Err: fs.ErrPermission}, want: ErrPermissionDenied},
		{name: "missing", openErr: &fs.PathError{Op: "open", Path: "/dev/video0", Err: fs.ErrNotExist}, want: ErrNoDevice},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProvider("/dev/video0", nil)
			p.open = func(string) (io.Closer, error) { return nil, tc.openErr }

			handle, err := p.RequestVideo(context.Background())
			require.ErrorIs(t, err, tc.want)
			require.Nil(t, handle)
		})
	}
}

func TestRequestVideoOtherOpenErrorIsWrapped(t *testing.T) {
	p := NewProvider("/dev/video0", nil)
	busy := errors.New("device busy")
	p.open = func(string) (io.Closer, error) { return nil, busy }

	_, err := p.RequestVideo(context.Background())
	require.ErrorIs(t, err, busy)
	require.Contains(t, err.Error(), "open video device /dev/video0")
}

func TestRequestVideoHonoursCancelledContext(t *testing.T) {
	p := NewProvider("/dev/video0", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.RequestVideo(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStopAllJoinsTrackErrors(t *testing.T) {
	failing := &countingCloser{err: errors.New("close failed")}
	s := &Session{tracks: []track{{path: "/dev/video0", closer: failing}, {path: "/dev/video1", closer: &countingCloser{}}}}

	err := s.StopAll()
	require.Error(t, err)
	require.Contains(t, err.Error(), "stop track /dev/video0")
	require.Equal(t, 1, failing.closes)
}
