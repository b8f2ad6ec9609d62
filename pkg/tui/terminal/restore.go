// ABOUTME: RestoreOnPanic recovers from panics, resets input modes, leaves raw mode, and prints the stack trace.
// ABOUTME: Intended for use as a deferred call at the top of main, which owns the terminal.

package terminal

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// exit is swapped in tests.
var exit = os.Exit

// RestoreOnPanic should be deferred at the top of main (or the goroutine
// that owns the terminal). On panic it writes the disable sequence for
// modes, exits raw mode via t, prints the panic value and stack trace to
// errOut, then exits with code 1.
func RestoreOnPanic(t Terminal, modes Modes, errOut io.Writer) {
	r := recover()
	if r == nil {
		return
	}

	reset(t, modes)
	fmt.Fprintf(errOut, "\npanic: %v\n\n%s\n", r, debug.Stack())
	exit(1)
}

// reset is best-effort: the terminal may already be gone.
func reset(t Terminal, modes Modes) {
	seq := modes.DisableSequence()
	if !modes.HideCursor {
		seq += showCursor
	}
	_, _ = t.Write([]byte(seq))
	_ = t.ExitRawMode()
}
