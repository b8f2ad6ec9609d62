// ABOUTME: TTY is a dedicated blocking read handle on the controlling terminal device.
// ABOUTME: Opened with open(2) so the descriptor never enters the runtime poller's non-blocking mode.

//go:build unix

package terminal

import (
	"fmt"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// DefaultDevice is the controlling terminal of the current process.
const DefaultDevice = "/dev/tty"

// TTY is a read-only, blocking descriptor on a terminal device.
type TTY struct {
	fd   int
	path string
}

// OpenTTY opens path for reading in blocking mode. An empty path means DefaultDevice.
func OpenTTY(path string) (*TTY, error) {
	if path == "" {
		path = DefaultDevice
	}
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if !term.IsTerminal(fd) {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("opening %s: not a terminal", path)
	}
	return &TTY{fd: fd, path: path}, nil
}

// Fd returns the descriptor.
func (t *TTY) Fd() int {
	return t.fd
}

// Path returns the device path the TTY was opened from.
func (t *TTY) Path() string {
	return t.path
}

// Close closes the descriptor. Closing twice is a no-op.
func (t *TTY) Close() error {
	if t.fd < 0 {
		return nil
	}
	err := unix.Close(t.fd)
	t.fd = -1
	if err != nil {
		return fmt.Errorf("closing %s: %w", t.path, err)
	}
	return nil
}
