// ABOUTME: Streaming decoder that turns a lead byte plus pulled continuation bytes into a key or mouse result.
// ABOUTME: Defines the ByteSource and Decoder contracts so alternate grammars can be substituted.

package key

import (
	"fmt"
	"unicode/utf8"
)

// ByteSource yields the bytes that follow a lead byte. NextByte may block
// until more input arrives. MightHaveBufferedData reports whether a byte is
// resident (or very likely to be) so a decoder can avoid blocking on a
// continuation that may never come, such as after a lone Escape.
type ByteSource interface {
	NextByte() (byte, error)
	MightHaveBufferedData() bool
}

// Decoder turns one input unit into a Result. Errors returned by the
// ByteSource are passed through unchanged; malformed input is reported as
// a *DecodeError.
type Decoder interface {
	Decode(lead byte, src ByteSource) (Result, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(lead byte, src ByteSource) (Result, error)

// Decode calls f.
func (f DecoderFunc) Decode(lead byte, src ByteSource) (Result, error) {
	return f(lead, src)
}

// ResultKind tells which field of a Result is meaningful.
type ResultKind int

const (
	ResultKey         ResultKind = iota // Key is valid
	ResultMouse                         // Mouse is valid
	ResultUnsupported                   // well-formed input with no Key/Mouse representation
)

// Result is the outcome of decoding one input unit.
type Result struct {
	Kind  ResultKind
	Key   Key
	Mouse Mouse
	Raw   []byte // bytes consumed, lead byte included
}

// DecodeError reports input that does not follow the terminal grammar.
type DecodeError struct {
	Seq    []byte
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %s", e.Seq, e.Reason)
}

const (
	bracketStart = "\x1b[200~"
	bracketEnd   = "\x1b[201~"
)

// StandardDecoder understands legacy CSI/SS3 keys, kitty CSI u keys,
// modifier-encoded keys, X10/SGR/urxvt mouse reports, UTF-8 runes and
// Alt-prefixed input. Bracketed paste content is consumed and reported as
// a single unsupported result.
//
// Whether ESC starts a sequence is decided by MightHaveBufferedData, never
// by waiting. A sequence split by a short read right after ESC or ESC [
// therefore decodes as Escape or Alt+[ followed by its tail as separate keys.
//
// A StandardDecoder reuses an internal scratch buffer and must not be
// shared between goroutines.
type StandardDecoder struct {
	seq []byte
}

// NewDecoder returns a StandardDecoder.
func NewDecoder() *StandardDecoder {
	return &StandardDecoder{seq: make([]byte, 0, maxCSILen)}
}

// Decode implements Decoder.
func (d *StandardDecoder) Decode(lead byte, src ByteSource) (Result, error) {
	d.seq = append(d.seq[:0], lead)

	switch {
	case lead == 0x1b:
		return d.decodeEscape(src)
	case lead >= 0x80:
		r, err := d.decodeUTF8(lead, src)
		if err != nil {
			return Result{}, err
		}
		return d.keyResult(Key{Type: KeyRune, Rune: r}), nil
	default:
		return d.keyResult(parseSingleByte(lead)), nil
	}
}

// pull reads one continuation byte and records it in the sequence.
func (d *StandardDecoder) pull(src ByteSource) (byte, error) {
	b, err := src.NextByte()
	if err != nil {
		return 0, err
	}
	d.seq = append(d.seq, b)
	return b, nil
}

func (d *StandardDecoder) decodeEscape(src ByteSource) (Result, error) {
	if !src.MightHaveBufferedData() {
		return d.keyResult(Key{Type: KeyEscape}), nil
	}

	b, err := d.pull(src)
	if err != nil {
		return Result{}, err
	}

	switch {
	case b == '[':
		return d.decodeCSI(src)
	case b == 'O':
		return d.decodeSS3(src)
	case b >= 0x80:
		r, err := d.decodeUTF8(b, src)
		if err != nil {
			return Result{}, err
		}
		return d.keyResult(Key{Type: KeyRune, Rune: r, Alt: true}), nil
	default:
		k := parseSingleByte(b)
		k.Alt = true
		return d.keyResult(k), nil
	}
}

func (d *StandardDecoder) decodeSS3(src ByteSource) (Result, error) {
	if !src.MightHaveBufferedData() {
		return d.keyResult(Key{Type: KeyRune, Rune: 'O', Alt: true}), nil
	}
	if _, err := d.pull(src); err != nil {
		return Result{}, err
	}
	if k, ok := legacySequences[string(d.seq)]; ok {
		return d.keyResult(k), nil
	}
	return d.unsupported(), nil
}

func (d *StandardDecoder) decodeCSI(src ByteSource) (Result, error) {
	if !src.MightHaveBufferedData() {
		return d.keyResult(Key{Type: KeyRune, Rune: '[', Alt: true}), nil
	}

	b, err := d.pull(src)
	if err != nil {
		return Result{}, err
	}

	switch b {
	case 'M':
		return d.decodeX10Mouse(src)
	case '[':
		// Linux console function keys: ESC [ [ A..E
		if _, err := d.pull(src); err != nil {
			return Result{}, err
		}
		if k, ok := legacySequences[string(d.seq)]; ok {
			return d.keyResult(k), nil
		}
		return d.unsupported(), nil
	}

	for !isCSIFinal(b) {
		if b < 0x20 || b > 0x7e {
			return Result{}, d.errorf("unexpected byte 0x%02x in control sequence", b)
		}
		if len(d.seq) >= maxCSILen {
			return Result{}, d.errorf("control sequence longer than %d bytes", maxCSILen)
		}
		if b, err = d.pull(src); err != nil {
			return Result{}, err
		}
	}

	if string(d.seq) == bracketStart {
		return d.skipPaste(src)
	}

	if k, ok := legacySequences[string(d.seq)]; ok {
		return d.keyResult(k), nil
	}

	c, ok := parseCSI(d.seq[2:])
	if !ok {
		// Syntactically a control sequence, but with intermediates or
		// parameters we do not interpret.
		return d.unsupported(), nil
	}

	switch {
	case c.private == '<' && (c.final == 'M' || c.final == 'm'):
		m, ok := mouseFromSGR(c)
		if !ok {
			return Result{}, d.errorf("malformed SGR mouse report")
		}
		return d.mouseResult(m), nil
	case c.private == 0 && c.final == 'M' && len(c.params) == 3:
		m, ok := mouseFromURXVT(c)
		if !ok {
			return Result{}, d.errorf("malformed urxvt mouse report")
		}
		return d.mouseResult(m), nil
	case c.private == 0:
		if k, ok := keyFromCSI(c); ok {
			return d.keyResult(k), nil
		}
	}
	return d.unsupported(), nil
}

// decodeX10Mouse reads the three raw bytes that follow ESC [ M.
func (d *StandardDecoder) decodeX10Mouse(src ByteSource) (Result, error) {
	var raw [3]byte
	for i := range raw {
		b, err := d.pull(src)
		if err != nil {
			return Result{}, err
		}
		raw[i] = b
	}
	m, err := mouseFromX10(raw[0], raw[1], raw[2])
	if err != nil {
		return Result{}, d.errorf("%v", err)
	}
	return d.mouseResult(m), nil
}

// skipPaste discards bracketed paste content up to and including the end marker.
func (d *StandardDecoder) skipPaste(src ByteSource) (Result, error) {
	matched := 0
	for matched < len(bracketEnd) {
		b, err := src.NextByte()
		if err != nil {
			return Result{}, err
		}
		switch {
		case b == bracketEnd[matched]:
			matched++
		case b == bracketEnd[0]:
			matched = 1
		default:
			matched = 0
		}
	}
	d.seq = append(d.seq[:0], bracketStart+bracketEnd...)
	return d.unsupported(), nil
}

// decodeUTF8 completes a multi-byte rune whose first byte is lead.
func (d *StandardDecoder) decodeUTF8(lead byte, src ByteSource) (rune, error) {
	var n int
	switch {
	case lead >= 0xc2 && lead <= 0xdf:
		n = 2
	case lead >= 0xe0 && lead <= 0xef:
		n = 3
	case lead >= 0xf0 && lead <= 0xf4:
		n = 4
	default:
		return 0, d.errorf("invalid UTF-8 lead byte 0x%02x", lead)
	}

	start := len(d.seq) - 1
	for i := 1; i < n; i++ {
		b, err := d.pull(src)
		if err != nil {
			return 0, err
		}
		if b&0xc0 != 0x80 {
			return 0, d.errorf("invalid UTF-8 continuation byte 0x%02x", b)
		}
	}

	r, size := utf8.DecodeRune(d.seq[start:])
	if r == utf8.RuneError && size <= 1 {
		return 0, d.errorf("invalid UTF-8 sequence")
	}
	return r, nil
}

func (d *StandardDecoder) raw() []byte {
	return append([]byte(nil), d.seq...)
}

func (d *StandardDecoder) keyResult(k Key) Result {
	return Result{Kind: ResultKey, Key: k, Raw: d.raw()}
}

func (d *StandardDecoder) mouseResult(m Mouse) Result {
	return Result{Kind: ResultMouse, Mouse: m, Raw: d.raw()}
}

func (d *StandardDecoder) unsupported() Result {
	return Result{Kind: ResultUnsupported, Raw: d.raw()}
}

func (d *StandardDecoder) errorf(format string, args ...any) error {
	return &DecodeError{Seq: d.raw(), Reason: fmt.Sprintf(format, args...)}
}
