// ABOUTME: Multiplexer merges the resize notifier and the terminal byte stream into one blocking event iterator.
// ABOUTME: Buffered bytes are drained before waiting again; on a shared wake, resize always wins.

//go:build unix

package input

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"golang.org/x/sys/unix"

	"github.com/mauromedda/ttyev/pkg/tui/key"
	"github.com/mauromedda/ttyev/pkg/tui/terminal"
)

// Poll slots. The order is significant: the resize source is inspected first.
const (
	resizeIndex = 0
	dataIndex   = 1
)

// pollForever blocks the readiness wait with no timeout.
const pollForever = -1

// State describes what the Multiplexer is doing or last did.
type State int

const (
	StateIdle     State = iota // constructed, no call yet
	StateDraining              // decoding bytes already buffered, no wait
	StateWaiting               // blocked in the readiness wait
	StateEmitting              // an event was produced
	StateFatal                 // an unrecoverable error was produced; sticky
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDraining:
		return "draining"
	case StateWaiting:
		return "waiting"
	case StateEmitting:
		return "emitting"
	case StateFatal:
		return "fatal"
	default:
		return "invalid"
	}
}

// Multiplexer owns a BufferedReader over the terminal descriptor and a
// ResizeNotifier, and yields one Event (or one fatal error) per Next call.
//
// A Multiplexer is owned by a single goroutine. It takes no locks.
// Cancellation is not provided: a caller that needs it must merge a further
// self-notification descriptor into the same wait.
type Multiplexer struct {
	fds      [2]unix.PollFd
	notifier *ResizeNotifier
	in       *BufferedReader
	dec      key.Decoder
	drainBuf []byte
	poll     func(fds []unix.PollFd, timeout int) (int, error)
	log      *slog.Logger
	state    State
	closers  []io.Closer
}

// Option configures a Multiplexer.
type Option func(*muxConfig)

type muxConfig struct {
	bufferSize int
	drainSize  int
	decoder    key.Decoder
	reader     io.Reader
	logger     *slog.Logger
	poll       func(fds []unix.PollFd, timeout int) (int, error)
}

// WithBufferSize sets the BufferedReader capacity. Values below 1 are ignored.
func WithBufferSize(n int) Option {
	return func(c *muxConfig) {
		if n >= 1 {
			c.bufferSize = n
		}
	}
}

// WithDrainSize sets how many queued resize markers one drain absorbs.
// Values below 1 are ignored.
func WithDrainSize(n int) Option {
	return func(c *muxConfig) {
		if n >= 1 {
			c.drainSize = n
		}
	}
}

// WithDecoder substitutes the byte-to-event grammar.
func WithDecoder(d key.Decoder) Option {
	return func(c *muxConfig) {
		if d != nil {
			c.decoder = d
		}
	}
}

// WithReader substitutes the physical reader for the data descriptor, for
// example to tee raw bytes into a trace. Readiness is still taken from the
// descriptor, so r must read from it.
func WithReader(r io.Reader) Option {
	return func(c *muxConfig) {
		if r != nil {
			c.reader = r
		}
	}
}

// WithLogger routes debug output about waits, resizes, and failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *muxConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewMultiplexer builds a Multiplexer over the blocking descriptor dataFd
// and notifier. It takes ownership of notifier; dataFd stays the caller's.
func NewMultiplexer(dataFd int, notifier *ResizeNotifier, opts ...Option) *Multiplexer {
	cfg := muxConfig{
		bufferSize: DefaultBufferSize,
		drainSize:  DefaultDrainSize,
		reader:     fdReader(dataFd),
		logger:     slog.New(slog.DiscardHandler),
		poll:       unix.Poll,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.decoder == nil {
		cfg.decoder = key.NewDecoder()
	}

	m := &Multiplexer{
		notifier: notifier,
		in:       NewBufferedReader(cfg.reader, cfg.bufferSize),
		dec:      cfg.decoder,
		drainBuf: make([]byte, cfg.drainSize),
		poll:     cfg.poll,
		log:      cfg.logger,
		closers:  []io.Closer{notifier},
	}
	m.fds[resizeIndex] = unix.PollFd{Fd: int32(notifier.Fd()), Events: unix.POLLIN}
	m.fds[dataIndex] = unix.PollFd{Fd: int32(dataFd), Events: unix.POLLIN}
	return m
}

// Open opens the terminal device at path (usually /dev/tty), registers for
// SIGWINCH, and returns a Multiplexer that owns both.
func Open(path string, opts ...Option) (*Multiplexer, error) {
	tty, err := terminal.OpenTTY(path)
	if err != nil {
		return nil, err
	}
	notifier, err := NewResizeNotifier(NotifyPipe())
	if err != nil {
		_ = tty.Close()
		return nil, err
	}
	m := NewMultiplexer(tty.Fd(), notifier, opts...)
	m.closers = append(m.closers, tty)
	return m, nil
}

// Notifier returns the resize notifier, e.g. to queue an initial resize.
func (m *Multiplexer) Notifier() *ResizeNotifier {
	return m.notifier
}

// State reports the current state.
func (m *Multiplexer) State() State {
	return m.state
}

// Next blocks until one event is available and returns it. A non-nil error
// is fatal: the input source is no longer usable and the caller should stop.
// Interrupted waits and reads are retried and never returned.
func (m *Multiplexer) Next() (Event, error) {
	// Bytes already resident (or very likely queued after a full refill)
	// are decoded before the sources are inspected again.
	if m.in.MightHaveBufferedData() {
		m.setState(StateDraining)
		return m.decode()
	}

	for {
		m.setState(StateWaiting)
		if err := m.wait(); err != nil {
			m.log.Debug("readiness wait failed", "err", err)
			return m.fail(fmt.Errorf("waiting for terminal input: %w", err))
		}

		resize := m.fds[resizeIndex].Revents
		switch {
		case resize&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0:
			return m.fail(ErrNotifierClosed)
		case resize&unix.POLLIN != 0:
			if err := m.notifier.Drain(m.drainBuf); err != nil {
				return m.fail(err)
			}
			m.log.Debug("resize notification drained")
			m.setState(StateEmitting)
			return Event{Type: EventResize}, nil
		}

		data := m.fds[dataIndex].Revents
		switch {
		case data&unix.POLLNVAL != 0:
			return m.fail(fmt.Errorf("terminal descriptor: %w", unix.EBADF))
		case data&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0:
			// Hang-up and error conditions surface through the read itself.
			m.setState(StateDraining)
			return m.decode()
		}
	}
}

// wait performs the combined readiness wait, retrying on EINTR.
func (m *Multiplexer) wait() error {
	for {
		m.fds[resizeIndex].Revents = 0
		m.fds[dataIndex].Revents = 0
		_, err := m.poll(m.fds[:], pollForever)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

// decode pulls one lead byte and lets the decoder pull the rest.
func (m *Multiplexer) decode() (Event, error) {
	lead, err := m.in.NextByte()
	if err != nil {
		return m.fail(fmt.Errorf("reading terminal input: %w", err))
	}
	res, err := m.dec.Decode(lead, m.in)
	if err != nil {
		return m.fail(fmt.Errorf("decoding terminal input: %w", err))
	}
	m.setState(StateEmitting)
	return eventFromResult(res), nil
}

func (m *Multiplexer) fail(err error) (Event, error) {
	m.log.Debug("input failed", "err", err)
	m.state = StateFatal
	return Event{}, err
}

func (m *Multiplexer) setState(s State) {
	if m.state == StateFatal {
		return
	}
	m.state = s
}

// Events returns an iterator over Next. Iteration ends when the consumer
// stops or right after a fatal error has been yielded.
func (m *Multiplexer) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			ev, err := m.Next()
			if !yield(ev, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the notifier and, for a Multiplexer built by Open, the
// terminal descriptor.
func (m *Multiplexer) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil
	return errors.Join(errs...)
}
