// ABOUTME: InterruptibleReader retries reads interrupted by signal delivery; BufferedReader serves bytes one at a time.
// ABOUTME: The buffer is a fixed arena with size/cursor offsets and a likely-more flag recomputed on every refill.

package input

import (
	"errors"
	"io"
	"syscall"
)

// DefaultBufferSize is the capacity used when no WithBufferSize option is given.
const DefaultBufferSize = 1024

// InterruptibleReader wraps a blocking reader and transparently retries any
// read that fails with EINTR, reusing the same buffer. Other errors are
// returned unchanged.
type InterruptibleReader struct {
	r io.Reader
}

// NewInterruptibleReader wraps r.
func NewInterruptibleReader(r io.Reader) *InterruptibleReader {
	return &InterruptibleReader{r: r}
}

// Read implements io.Reader.
func (ir *InterruptibleReader) Read(p []byte) (int, error) {
	for {
		n, err := ir.r.Read(p)
		if err != nil && errors.Is(err, syscall.EINTR) {
			continue
		}
		return n, err
	}
}

// BufferedReader serves bytes one at a time from a fixed-capacity buffer
// refilled by single physical reads. It satisfies key.ByteSource so a
// decoder can pull continuation bytes from the same buffer.
//
// Invariant: cursor <= size <= len(buf).
type BufferedReader struct {
	src        io.Reader
	buf        []byte
	size       int
	cursor     int
	likelyMore bool
}

// NewBufferedReader returns a reader with the given capacity drawing from r
// through an InterruptibleReader. It panics if capacity is less than 1.
func NewBufferedReader(r io.Reader, capacity int) *BufferedReader {
	if capacity < 1 {
		panic("input: buffer capacity must be at least 1")
	}
	return &BufferedReader{
		src: NewInterruptibleReader(r),
		buf: make([]byte, capacity),
	}
}

// NextByte returns the next byte, refilling the buffer with one physical
// read when it is exhausted. A read that returns no bytes and no error is
// reported as io.EOF.
func (b *BufferedReader) NextByte() (byte, error) {
	if b.cursor < b.size {
		return b.take(), nil
	}

	b.cursor = 0
	b.size = 0
	b.likelyMore = false

	n, err := b.src.Read(b.buf)
	if n < 0 {
		n = 0
	}
	b.size = n
	b.likelyMore = n == len(b.buf)
	if err != nil {
		// Bytes delivered alongside the error stay buffered for later calls.
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return b.take(), nil
}

// take serves the byte under the cursor. Reaching past the valid region is a
// programming error, not an input condition.
func (b *BufferedReader) take() byte {
	if b.cursor >= b.size {
		panic("input: no data in buffer")
	}
	c := b.buf[b.cursor]
	b.cursor++
	return c
}

// MightHaveBufferedData reports whether a byte can probably be served
// without waiting: either unread bytes remain, or the last refill filled the
// whole buffer and more input is likely already queued in the device.
func (b *BufferedReader) MightHaveBufferedData() bool {
	return b.likelyMore || b.cursor < b.size
}

// Buffered returns the number of unread bytes held in the buffer.
func (b *BufferedReader) Buffered() int {
	return b.size - b.cursor
}

// LikelyMore reports whether the most recent refill returned exactly Cap bytes.
func (b *BufferedReader) LikelyMore() bool {
	return b.likelyMore
}

// Cap returns the buffer capacity.
func (b *BufferedReader) Cap() int {
	return len(b.buf)
}
