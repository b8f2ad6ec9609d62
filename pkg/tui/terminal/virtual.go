// ABOUTME: VirtualTerminal is an in-memory Terminal that mirrors what a real tty would be told.
// ABOUTME: Tracks raw mode and the input modes switched by written sequences; Resize fires a notification hook.

package terminal

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
)

// modeSwitches maps each sequence a Terminal may be sent to its effect on
// Modes. Mouse is keyed on the basic button tracking toggle.
var modeSwitches = []struct {
	seq   string
	apply func(*Modes)
}{
	{"\x1b[?1000h", func(m *Modes) { m.Mouse = true }},
	{"\x1b[?1000l", func(m *Modes) { m.Mouse = false }},
	{kittyOn, func(m *Modes) { m.KittyKeyboard = true }},
	{kittyOff, func(m *Modes) { m.KittyKeyboard = false }},
	{pasteOn, func(m *Modes) { m.BracketedPaste = true }},
	{pasteOff, func(m *Modes) { m.BracketedPaste = false }},
	{hideCursor, func(m *Modes) { m.HideCursor = true }},
	{showCursor, func(m *Modes) { m.HideCursor = false }},
}

// VirtualTerminal stands in for a tty in tests and headless runs. Output is
// captured, and mode sequences found in it update Modes. Sequences split
// across two writes are not recognised.
type VirtualTerminal struct {
	mu       sync.Mutex
	out      bytes.Buffer
	cols     int
	rows     int
	raw      bool
	rawSwaps int
	modes    Modes
	onResize func() error
}

// NewVirtualTerminal returns a cooked-mode VirtualTerminal of cols x rows.
func NewVirtualTerminal(cols, rows int) *VirtualTerminal {
	return &VirtualTerminal{cols: cols, rows: rows}
}

// EnterRawMode switches to raw mode. It is a no-op when already raw, like
// ProcessTerminal.
func (v *VirtualTerminal) EnterRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.raw {
		v.raw = true
		v.rawSwaps++
	}
	return nil
}

// ExitRawMode leaves raw mode. It is a no-op when not raw.
func (v *VirtualTerminal) ExitRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.raw {
		v.raw = false
		v.rawSwaps++
	}
	return nil
}

// Size returns the current dimensions.
func (v *VirtualTerminal) Size() (width, height int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.cols, v.rows, nil
}

// Write captures p and applies any mode sequences it contains.
func (v *VirtualTerminal) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n, err := v.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to virtual terminal: %w", err)
	}
	v.track(string(p))
	return n, nil
}

func (v *VirtualTerminal) track(s string) {
	for i := strings.IndexByte(s, 0x1b); i >= 0; {
		for _, sw := range modeSwitches {
			if strings.HasPrefix(s[i:], sw.seq) {
				sw.apply(&v.modes)
				break
			}
		}
		next := strings.IndexByte(s[i+1:], 0x1b)
		if next < 0 {
			return
		}
		i += 1 + next
	}
}

// OnResize registers fn to run after every Resize, outside the lock.
// Wiring it to a ResizeNotifier's Notify stands in for SIGWINCH.
func (v *VirtualTerminal) OnResize(fn func() error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.onResize = fn
}

// Resize changes the dimensions and runs the OnResize hook.
func (v *VirtualTerminal) Resize(cols, rows int) error {
	v.mu.Lock()
	v.cols, v.rows = cols, rows
	fn := v.onResize
	v.mu.Unlock()

	if fn == nil {
		return nil
	}
	if err := fn(); err != nil {
		return fmt.Errorf("resize hook: %w", err)
	}
	return nil
}

// Output returns everything written so far.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.out.String()
}

// Lines splits the output on CRLF, the raw-mode line ending. A trailing
// terminator does not produce an empty last line.
func (v *VirtualTerminal) Lines() []string {
	s := strings.TrimSuffix(v.Output(), "\r\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\r\n")
}

// Modes returns the input modes the written sequences left switched on.
func (v *VirtualTerminal) Modes() Modes {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.modes
}

// IsRawMode reports whether raw mode is active.
func (v *VirtualTerminal) IsRawMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.raw
}

// RawSwaps counts effective raw/cooked transitions; no-op calls are not counted.
func (v *VirtualTerminal) RawSwaps() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.rawSwaps
}
