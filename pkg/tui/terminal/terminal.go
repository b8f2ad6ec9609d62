// ABOUTME: Defines the Terminal interface for raw mode, size queries, and output.
// ABOUTME: Resize notifications are not part of it; they arrive as events from the input multiplexer.

package terminal

// Terminal abstracts low-level terminal operations: raw mode, size
// queries, and output writing.
type Terminal interface {
	EnterRawMode() error
	ExitRawMode() error
	Size() (width, height int, err error)
	Write(p []byte) (n int, err error)
}
