// ABOUTME: JSON-lines recorder for input events and raw input chunks
// ABOUTME: Entries encode themselves through easyjson's jwriter; no reflection on the event path

package trace

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"

	"github.com/mauromedda/ttyev/pkg/tui/input"
)

// Entry is one trace line.
type Entry struct {
	Seq     int
	Elapsed time.Duration
	Event   input.Event
	Cols    int // resize only
	Rows    int // resize only
	Raw     []byte
}

// MarshalEasyJSON implements easyjson.Marshaler.
func (e Entry) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"seq":`)
	w.Int(e.Seq)
	w.RawString(`,"elapsed_ms":`)
	w.Float64(float64(e.Elapsed.Microseconds()) / 1000)

	if e.Raw != nil {
		// Chunks may hold invalid UTF-8 (X10 mouse, split runes), so they are
		// base64 rather than a JSON string.
		w.RawString(`,"type":"raw","bytes":`)
		w.Base64Bytes(e.Raw)
		w.RawByte('}')
		return
	}

	w.RawString(`,"type":`)
	w.String(e.Event.Type.String())

	switch e.Event.Type {
	case input.EventResize:
		w.RawString(`,"cols":`)
		w.Int(e.Cols)
		w.RawString(`,"rows":`)
		w.Int(e.Rows)
	case input.EventKey:
		k := e.Event.Key
		w.RawString(`,"key":`)
		w.String(k.String())
		if k.Rune != 0 {
			w.RawString(`,"rune":`)
			w.String(string(k.Rune))
		}
	case input.EventMouse:
		m := e.Event.Mouse
		w.RawString(`,"action":`)
		w.String(m.Action.String())
		w.RawString(`,"button":`)
		w.String(m.Button.String())
		w.RawString(`,"x":`)
		w.Int(m.X)
		w.RawString(`,"y":`)
		w.Int(m.Y)
		writeMods(w, m.Shift, m.Alt, m.Ctrl)
	}
	w.RawByte('}')
}

func writeMods(w *jwriter.Writer, shift, alt, ctrl bool) {
	if !shift && !alt && !ctrl {
		return
	}
	w.RawString(`,"mods":[`)
	first := true
	for _, m := range []struct {
		on   bool
		name string
	}{{shift, "shift"}, {alt, "alt"}, {ctrl, "ctrl"}} {
		if !m.on {
			continue
		}
		if !first {
			w.RawByte(',')
		}
		w.String(m.name)
		first = false
	}
	w.RawByte(']')
}

// Recorder appends entries to w, one JSON object per line. It is safe for
// concurrent use.
type Recorder struct {
	mu    sync.Mutex
	w     io.Writer
	seq   int
	start time.Time
	now   func() time.Time
}

// NewRecorder returns a Recorder writing to w. Elapsed times are measured
// from this call.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w, start: time.Now(), now: time.Now}
}

// Event records ev. For resize events cols and rows carry the new size;
// they are ignored otherwise.
func (r *Recorder) Event(ev input.Event, cols, rows int) error {
	return r.write(Entry{Event: ev, Cols: cols, Rows: rows})
}

// Raw records a chunk of undecoded input bytes.
func (r *Recorder) Raw(p []byte) error {
	return r.write(Entry{Raw: append([]byte{}, p...)})
}

// RawWriter adapts Raw to io.Writer for use with io.TeeReader.
func (r *Recorder) RawWriter() io.Writer {
	return rawWriter{r}
}

type rawWriter struct{ r *Recorder }

func (rw rawWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := rw.r.Raw(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (r *Recorder) write(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	e.Seq = r.seq
	e.Elapsed = r.now().Sub(r.start)

	if _, err := easyjson.MarshalToWriter(e, r.w); err != nil {
		return fmt.Errorf("writing trace entry %d: %w", e.Seq, err)
	}
	if _, err := io.WriteString(r.w, "\n"); err != nil {
		return fmt.Errorf("writing trace entry %d: %w", e.Seq, err)
	}
	return nil
}
