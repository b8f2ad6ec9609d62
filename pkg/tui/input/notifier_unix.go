// ABOUTME: ResizeNotifier turns SIGWINCH deliveries into readability on one end of a socket pair.
// ABOUTME: Any number of queued notifications is drained at once so the Multiplexer emits a single resize.

//go:build unix

package input

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// DefaultDrainSize absorbs a burst of unacknowledged notifications in one read.
const DefaultDrainSize = 32

// ErrNotifierClosed is returned when the resize channel hangs up or errors.
var ErrNotifierClosed = errors.New("resize notifier closed")

// resizeMarker is the byte written per notification. Its value is never inspected.
const resizeMarker = 'W'

// SignalRegistrar arranges for a marker byte to be written to the
// descriptor w whenever the window-change signal is delivered. w is already
// non-blocking when it is handed over. It is called exactly once per
// notifier and returns a function that undoes the registration.
type SignalRegistrar func(w int) (stop func(), err error)

// NotifyPipe returns the default SignalRegistrar. The Go runtime owns the
// real signal handler, so a small goroutine forwards each delivery from an
// os/signal channel into the non-blocking write end. A full socket buffer
// drops the marker, which is harmless because readers coalesce anyway.
func NotifyPipe(sigs ...os.Signal) SignalRegistrar {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGWINCH}
	}
	return func(w int) (func(), error) {
		ch := make(chan os.Signal, 1)
		done := make(chan struct{})
		exited := make(chan struct{})
		signal.Notify(ch, sigs...)

		go func() {
			defer close(exited)
			marker := []byte{resizeMarker}
			for {
				select {
				case <-done:
					return
				case <-ch:
					writeMarker(w, marker)
				}
			}
		}()

		var once sync.Once
		stop := func() {
			once.Do(func() {
				signal.Stop(ch)
				close(done)
				<-exited
			})
		}
		return stop, nil
	}
}

// writeMarker writes one marker byte, retrying on EINTR. EAGAIN means
// markers are already queued and is ignored.
func writeMarker(fd int, marker []byte) {
	for {
		_, err := unix.Write(fd, marker)
		if err == unix.EINTR {
			continue
		}
		return
	}
}

// ResizeNotifier holds the readable end of the notification channel.
type ResizeNotifier struct {
	r, w int
	stop func()
}

// NewResizeNotifier creates the socket pair and hands its write end to
// register. A nil register leaves the notifier unregistered; Notify can
// still be used to inject notifications.
func NewResizeNotifier(register SignalRegistrar) (*ResizeNotifier, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("creating notifier socket pair: %w", err)
	}
	unix.CloseOnExec(fds[0])
	unix.CloseOnExec(fds[1])

	n := &ResizeNotifier{r: fds[0], w: fds[1]}
	if err := unix.SetNonblock(n.w, true); err != nil {
		_ = n.Close()
		return nil, fmt.Errorf("setting notifier non-blocking: %w", err)
	}
	if register == nil {
		return n, nil
	}

	stop, err := register(n.w)
	if err != nil {
		_ = n.Close()
		return nil, fmt.Errorf("registering resize signal: %w", err)
	}
	n.stop = stop
	return n, nil
}

// Fd returns the descriptor that becomes readable after a notification.
func (n *ResizeNotifier) Fd() int {
	return n.r
}

// Notify queues one notification, as if the signal had been delivered.
// Callers use it to request an initial size query.
func (n *ResizeNotifier) Notify() error {
	for {
		_, err := unix.Write(n.w, []byte{resizeMarker})
		switch {
		case err == nil, errors.Is(err, unix.EAGAIN):
			return nil
		case errors.Is(err, unix.EINTR):
			continue
		default:
			return fmt.Errorf("queueing resize notification: %w", err)
		}
	}
}

// Drain consumes up to len(buf) queued markers with a single read and
// discards them. Read errors are ignored: a failed drain only means the next
// wait wakes again. A zero-length read means the write end is gone and is
// reported as ErrNotifierClosed.
func (n *ResizeNotifier) Drain(buf []byte) error {
	for {
		k, err := unix.Read(n.r, buf)
		switch {
		case err == unix.EINTR:
			continue
		case err == nil && k == 0:
			return ErrNotifierClosed
		default:
			return nil
		}
	}
}

// Close unregisters the signal and closes both ends of the socket pair.
// Closing twice is a no-op.
func (n *ResizeNotifier) Close() error {
	if n.stop != nil {
		n.stop()
		n.stop = nil
	}
	if n.r < 0 {
		return nil
	}
	errR := unix.Close(n.r)
	errW := unix.Close(n.w)
	n.r, n.w = -1, -1
	if err := errors.Join(errR, errW); err != nil {
		return fmt.Errorf("closing notifier: %w", err)
	}
	return nil
}
