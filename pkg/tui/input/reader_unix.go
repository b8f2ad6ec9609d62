// ABOUTME: fdReader adapts a raw blocking descriptor to io.Reader via read(2).

//go:build unix

package input

import (
	"io"

	"golang.org/x/sys/unix"
)

// fdReader reads directly from a descriptor, bypassing the runtime poller so
// the descriptor stays in blocking mode.
type fdReader int

func (fd fdReader) Read(p []byte) (int, error) {
	n, err := unix.Read(int(fd), p)
	if n < 0 {
		n = 0
	}
	return n, err
}

// NewFdReader returns a reader over a blocking descriptor, the same one
// NewMultiplexer uses by default. Wrap it to pass through WithReader.
func NewFdReader(fd int) io.Reader {
	return fdReader(fd)
}
