// ABOUTME: Tests for Multiplexer ordering, coalescing, resize priority, retry, and failure behaviour.
// ABOUTME: Data arrives through a real pipe; the readiness wait is faked where a condition cannot be staged.

//go:build unix

package input

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/mauromedda/ttyev/pkg/tui/key"
)

type muxFixture struct {
	m *Multiplexer
	n *ResizeNotifier
	r int // data read end, polled by the multiplexer
	w int // data write end
}

func newMuxFixture(t *testing.T, opts ...Option) *muxFixture {
	t.Helper()

	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	f := &muxFixture{r: p[0], w: p[1]}
	t.Cleanup(func() {
		_ = unix.Close(f.r)
		f.closeWriter()
	})

	n, err := NewResizeNotifier(nil)
	if err != nil {
		t.Fatalf("NewResizeNotifier() unexpected error: %v", err)
	}
	f.n = n
	f.m = NewMultiplexer(p[0], n, opts...)
	t.Cleanup(func() { _ = f.m.Close() })
	return f
}

// closeWriter hangs up the data pipe. Safe to call more than once.
func (f *muxFixture) closeWriter() {
	if f.w >= 0 {
		_ = unix.Close(f.w)
		f.w = -1
	}
}

func (f *muxFixture) write(t *testing.T, s string) {
	t.Helper()
	if _, err := unix.Write(f.w, []byte(s)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func (f *muxFixture) notify(t *testing.T, times int) {
	t.Helper()
	for range times {
		if err := f.n.Notify(); err != nil {
			t.Fatalf("Notify() unexpected error: %v", err)
		}
	}
}

type nextResult struct {
	ev  Event
	err error
}

// next calls Next with a deadline so a wrong wait fails instead of hanging.
func (f *muxFixture) next(t *testing.T) (Event, error) {
	t.Helper()
	ch := make(chan nextResult, 1)
	go func() {
		ev, err := f.m.Next()
		ch <- nextResult{ev, err}
	}()
	select {
	case r := <-ch:
		return r.ev, r.err
	case <-time.After(5 * time.Second):
		t.Fatal("Next() did not return")
		return Event{}, nil
	}
}

func (f *muxFixture) expect(t *testing.T, want Event) {
	t.Helper()
	got, err := f.next(t)
	if err != nil {
		t.Fatalf("Next() unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("Next() = %v, want %v", got, want)
	}
}

func withPoll(fn func(fds []unix.PollFd, timeout int) (int, error)) Option {
	return func(c *muxConfig) { c.poll = fn }
}

var (
	resizeEvent = Event{Type: EventResize}
	upEvent     = Event{Type: EventKey, Key: key.Key{Type: key.KeyUp}}
)

func runeEvent(r rune) Event {
	return Event{Type: EventKey, Key: key.Key{Type: key.KeyRune, Rune: r}}
}

func TestMultiplexer_PrintableByte(t *testing.T) {
	t.Parallel()
	f := newMuxFixture(t)

	if f.m.State() != StateIdle {
		t.Errorf("State() = %v, want idle", f.m.State())
	}
	f.write(t, "a")
	f.expect(t, runeEvent('a'))
	if f.m.State() != StateEmitting {
		t.Errorf("State() = %v, want emitting", f.m.State())
	}
}

func TestMultiplexer_ArrowSequenceIsOneEvent(t *testing.T) {
	t.Parallel()
	f := newMuxFixture(t)

	f.write(t, "\x1b[A")
	f.expect(t, upEvent)
	if f.m.in.MightHaveBufferedData() {
		t.Errorf("leftover bytes after arrow sequence: %d", f.m.in.Buffered())
	}
}

func TestMultiplexer_ResizeThenKey(t *testing.T) {
	t.Parallel()
	f := newMuxFixture(t)

	f.notify(t, 1)
	f.write(t, "\x1b[A")

	f.expect(t, resizeEvent)
	f.expect(t, upEvent)
	if f.m.in.MightHaveBufferedData() {
		t.Error("unexpected buffered data after the key")
	}
}

func TestMultiplexer_CoalescesNotifications(t *testing.T) {
	t.Parallel()

	for _, k := range []int{1, 2, 7, DefaultDrainSize} {
		f := newMuxFixture(t)
		f.notify(t, k)
		f.write(t, "x")

		f.expect(t, resizeEvent)
		// A second resize here would mean the burst was not coalesced.
		f.expect(t, runeEvent('x'))
	}
}

func TestMultiplexer_ResizeHasPriority(t *testing.T) {
	t.Parallel()
	f := newMuxFixture(t)

	f.write(t, "x")
	f.notify(t, 1)

	f.expect(t, resizeEvent)
	f.expect(t, runeEvent('x'))
}

func TestMultiplexer_BufferedBytesBeforeWait(t *testing.T) {
	t.Parallel()
	f := newMuxFixture(t)

	f.write(t, "ab")
	f.expect(t, runeEvent('a'))

	// 'b' is already resident; it is served before the resize is looked at.
	f.notify(t, 1)
	f.expect(t, runeEvent('b'))
	f.expect(t, resizeEvent)
}

func TestMultiplexer_FullRefillSkipsWait(t *testing.T) {
	t.Parallel()
	f := newMuxFixture(t, WithBufferSize(2))

	f.write(t, "abc")
	f.expect(t, runeEvent('a'))
	f.expect(t, runeEvent('b'))
	if !f.m.in.LikelyMore() {
		t.Fatal("LikelyMore() = false after an exact refill")
	}

	f.notify(t, 1)
	f.expect(t, runeEvent('c'))
	if f.m.State() != StateEmitting {
		t.Errorf("State() = %v, want emitting", f.m.State())
	}
	f.expect(t, resizeEvent)
}

func TestMultiplexer_DecodesKindsOfInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Event
	}{
		{name: "ctrl c", input: "\x03", want: Event{Type: EventKey, Key: key.Key{Type: key.KeyCtrlC, Ctrl: true}}},
		{name: "utf8 rune", input: "é", want: runeEvent('é')},
		{name: "kitty ctrl a", input: "\x1b[97;5u", want: Event{Type: EventKey, Key: key.Key{Type: key.KeyRune, Rune: 'a', Ctrl: true}}},
		{
			name:  "sgr mouse press",
			input: "\x1b[<0;10;5M",
			want:  Event{Type: EventMouse, Mouse: key.Mouse{Action: key.MousePress, Button: key.MouseLeft, X: 10, Y: 5}},
		},
		{name: "unknown csi", input: "\x1b[999z", want: Event{Type: EventUnknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newMuxFixture(t)
			f.write(t, tt.input)
			f.expect(t, tt.want)
		})
	}
}

func TestMultiplexer_RetriesInterruptedWait(t *testing.T) {
	t.Parallel()

	calls := 0
	f := newMuxFixture(t, withPoll(func(fds []unix.PollFd, timeout int) (int, error) {
		calls++
		if calls < 3 {
			return 0, unix.EINTR
		}
		return unix.Poll(fds, timeout)
	}))

	f.write(t, "z")
	f.expect(t, runeEvent('z'))
	if calls != 3 {
		t.Errorf("poll calls = %d, want 3", calls)
	}
}

func TestMultiplexer_SpuriousWakeWaitsAgain(t *testing.T) {
	t.Parallel()

	calls := 0
	f := newMuxFixture(t, withPoll(func(fds []unix.PollFd, timeout int) (int, error) {
		calls++
		if calls == 1 {
			return 0, nil
		}
		return unix.Poll(fds, timeout)
	}))

	f.write(t, "z")
	f.expect(t, runeEvent('z'))
	if calls != 2 {
		t.Errorf("poll calls = %d, want 2", calls)
	}
}

func TestMultiplexer_FatalConditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		poll    func(fds []unix.PollFd, timeout int) (int, error)
		wantErr error
	}{
		{
			name:    "wait fails",
			poll:    func([]unix.PollFd, int) (int, error) { return 0, unix.EINVAL },
			wantErr: unix.EINVAL,
		},
		{
			name: "notifier hang up",
			poll: func(fds []unix.PollFd, _ int) (int, error) {
				fds[resizeIndex].Revents = unix.POLLHUP
				return 1, nil
			},
			wantErr: ErrNotifierClosed,
		},
		{
			name: "notifier hang up beats data",
			poll: func(fds []unix.PollFd, _ int) (int, error) {
				fds[resizeIndex].Revents = unix.POLLERR
				fds[dataIndex].Revents = unix.POLLIN
				return 2, nil
			},
			wantErr: ErrNotifierClosed,
		},
		{
			name: "invalid data descriptor",
			poll: func(fds []unix.PollFd, _ int) (int, error) {
				fds[dataIndex].Revents = unix.POLLNVAL
				return 1, nil
			},
			wantErr: unix.EBADF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newMuxFixture(t, withPoll(tt.poll))

			_, err := f.next(t)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Next() error = %v, want %v", err, tt.wantErr)
			}
			if f.m.State() != StateFatal {
				t.Errorf("State() = %v, want fatal", f.m.State())
			}
		})
	}
}

func TestMultiplexer_DataHangUp(t *testing.T) {
	t.Parallel()
	f := newMuxFixture(t)

	f.write(t, "k")
	f.closeWriter()

	f.expect(t, runeEvent('k'))
	_, err := f.next(t)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("Next() error = %v, want io.EOF", err)
	}
	if f.m.State() != StateFatal {
		t.Errorf("State() = %v, want fatal", f.m.State())
	}
}

func TestMultiplexer_NotifierPeerGone(t *testing.T) {
	t.Parallel()
	f := newMuxFixture(t)

	if err := unix.Shutdown(f.n.w, unix.SHUT_WR); err != nil {
		t.Fatal(err)
	}
	_, err := f.next(t)
	if !errors.Is(err, ErrNotifierClosed) {
		t.Fatalf("Next() error = %v, want %v", err, ErrNotifierClosed)
	}
}

func TestMultiplexer_SubstituteDecoder(t *testing.T) {
	t.Parallel()

	var leads []byte
	dec := key.DecoderFunc(func(lead byte, src key.ByteSource) (key.Result, error) {
		leads = append(leads, lead)
		// Consume pairs: the second byte is pulled through the source.
		if _, err := src.NextByte(); err != nil {
			return key.Result{}, err
		}
		return key.Result{Kind: key.ResultKey, Key: key.Key{Type: key.KeyRune, Rune: 'Z'}}, nil
	})
	f := newMuxFixture(t, WithDecoder(dec))

	f.write(t, "abcd")
	f.expect(t, runeEvent('Z'))
	f.expect(t, runeEvent('Z'))
	if string(leads) != "ac" {
		t.Errorf("decoder saw leads %q, want %q", leads, "ac")
	}
}

func TestMultiplexer_DecoderError(t *testing.T) {
	t.Parallel()

	boom := &key.DecodeError{Seq: []byte{'q'}, Reason: "rejected"}
	dec := key.DecoderFunc(func(byte, key.ByteSource) (key.Result, error) {
		return key.Result{}, boom
	})
	f := newMuxFixture(t, WithDecoder(dec))

	f.write(t, "q")
	_, err := f.next(t)
	var de *key.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Next() error = %v, want *key.DecodeError", err)
	}
	if f.m.State() != StateFatal {
		t.Errorf("State() = %v, want fatal", f.m.State())
	}
}

func TestMultiplexer_WithReaderTees(t *testing.T) {
	t.Parallel()

	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = unix.Close(p[0])
		_ = unix.Close(p[1])
	})
	n, err := NewResizeNotifier(nil)
	if err != nil {
		t.Fatal(err)
	}

	var seen bytes.Buffer
	m := NewMultiplexer(p[0], n, WithReader(io.TeeReader(fdReader(p[0]), &seen)))
	t.Cleanup(func() { _ = m.Close() })

	if _, err := unix.Write(p[1], []byte("\x1b[B")); err != nil {
		t.Fatal(err)
	}
	ev, err := m.Next()
	if err != nil {
		t.Fatalf("Next() unexpected error: %v", err)
	}
	if ev.Type != EventKey || ev.Key.Type != key.KeyDown {
		t.Errorf("Next() = %v, want key Down", ev)
	}
	if seen.String() != "\x1b[B" {
		t.Errorf("tee saw %q, want %q", seen.String(), "\x1b[B")
	}
}

func TestMultiplexer_Events(t *testing.T) {
	t.Parallel()
	f := newMuxFixture(t)

	f.notify(t, 3)
	f.write(t, "hi")

	var got []Event
	for ev, err := range f.m.Events() {
		if err != nil {
			t.Fatalf("Events() unexpected error: %v", err)
		}
		got = append(got, ev)
		if len(got) == 3 {
			break
		}
	}

	want := []Event{resizeEvent, runeEvent('h'), runeEvent('i')}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMultiplexer_EventsStopsAfterFatal(t *testing.T) {
	t.Parallel()
	f := newMuxFixture(t, withPoll(func([]unix.PollFd, int) (int, error) { return 0, unix.EINVAL }))

	count := 0
	for _, err := range f.m.Events() {
		count++
		if err == nil {
			t.Fatal("expected only a fatal error")
		}
	}
	if count != 1 {
		t.Errorf("iterations = %d, want 1", count)
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s    State
		want string
	}{
		{StateIdle, "idle"},
		{StateDraining, "draining"},
		{StateWaiting, "waiting"},
		{StateEmitting, "emitting"},
		{StateFatal, "fatal"},
		{State(99), "invalid"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
