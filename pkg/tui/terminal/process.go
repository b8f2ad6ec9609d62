// ABOUTME: ProcessTerminal implements Terminal over a terminal descriptor and an output writer using golang.org/x/term.
// ABOUTME: Manages raw mode state for the input descriptor; size comes from the same descriptor.

package terminal

import (
	"fmt"
	"io"
	"sync"

	"golang.org/x/term"
)

// ProcessTerminal is a real terminal: termios and size are taken from fd,
// output goes to out (usually os.Stdout).
type ProcessTerminal struct {
	mu       sync.Mutex
	fd       int
	out      io.Writer
	oldState *term.State
}

// NewProcessTerminal returns a ProcessTerminal for the terminal descriptor fd.
func NewProcessTerminal(fd int, out io.Writer) *ProcessTerminal {
	return &ProcessTerminal{fd: fd, out: out}
}

// EnterRawMode switches the terminal to raw mode, saving the previous state.
// Calling it again while already raw is a no-op.
func (t *ProcessTerminal) EnterRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState != nil {
		return nil
	}
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.oldState = state
	return nil
}

// ExitRawMode restores the terminal to its previous state.
func (t *ProcessTerminal) ExitRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(t.fd, t.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	t.oldState = nil
	return nil
}

// IsRawMode reports whether EnterRawMode is in effect.
func (t *ProcessTerminal) IsRawMode() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.oldState != nil
}

// Size returns the current terminal dimensions.
func (t *ProcessTerminal) Size() (width, height int, err error) {
	w, h, err := term.GetSize(t.fd)
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// Write sends bytes to the output writer.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to terminal: %w", err)
	}
	return n, nil
}
