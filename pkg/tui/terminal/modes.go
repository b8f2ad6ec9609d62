// ABOUTME: Escape sequences that switch terminal input reporting modes on and off.
// ABOUTME: Covers SGR mouse tracking, kitty keyboard disambiguation, bracketed paste, and cursor visibility.

package terminal

import (
	"fmt"
	"io"
	"strings"
)

const (
	showCursor = "\x1b[?25h"
	hideCursor = "\x1b[?25l"

	// Button events, drag motion, SGR extended coordinates.
	mouseOn  = "\x1b[?1000h\x1b[?1002h\x1b[?1006h"
	mouseOff = "\x1b[?1006l\x1b[?1002l\x1b[?1000l"

	// Push/pop the kitty keyboard flags (1 = disambiguate escape codes).
	kittyOn  = "\x1b[>1u"
	kittyOff = "\x1b[<u"

	pasteOn  = "\x1b[?2004h"
	pasteOff = "\x1b[?2004l"
)

// Modes selects optional input reporting modes.
type Modes struct {
	Mouse          bool
	KittyKeyboard  bool
	BracketedPaste bool
	HideCursor     bool
}

// EnableSequence returns the bytes that turn the selected modes on.
func (m Modes) EnableSequence() string {
	var b strings.Builder
	if m.Mouse {
		b.WriteString(mouseOn)
	}
	if m.KittyKeyboard {
		b.WriteString(kittyOn)
	}
	if m.BracketedPaste {
		b.WriteString(pasteOn)
	}
	if m.HideCursor {
		b.WriteString(hideCursor)
	}
	return b.String()
}

// DisableSequence returns the bytes that undo EnableSequence, in reverse order.
func (m Modes) DisableSequence() string {
	var b strings.Builder
	if m.HideCursor {
		b.WriteString(showCursor)
	}
	if m.BracketedPaste {
		b.WriteString(pasteOff)
	}
	if m.KittyKeyboard {
		b.WriteString(kittyOff)
	}
	if m.Mouse {
		b.WriteString(mouseOff)
	}
	return b.String()
}

// EnableModes writes the enable sequence to w and returns a function that
// writes the matching disable sequence.
func EnableModes(w io.Writer, m Modes) (restore func() error, err error) {
	restore = func() error {
		seq := m.DisableSequence()
		if seq == "" {
			return nil
		}
		if _, err := io.WriteString(w, seq); err != nil {
			return fmt.Errorf("disabling terminal modes: %w", err)
		}
		return nil
	}

	seq := m.EnableSequence()
	if seq == "" {
		return restore, nil
	}
	if _, err := io.WriteString(w, seq); err != nil {
		return nil, fmt.Errorf("enabling terminal modes: %w", err)
	}
	return restore, nil
}
