// ABOUTME: Event is the tagged union the Multiplexer produces: resize, key, mouse, or unknown input.
// ABOUTME: Events are plain values, produced once and never mutated.

package input

import "github.com/mauromedda/ttyev/pkg/tui/key"

// EventType discriminates the Event union.
type EventType int

const (
	EventResize  EventType = iota // window size changed; query the terminal for the new size
	EventKey                      // Key is valid
	EventMouse                    // Mouse is valid
	EventUnknown                  // decoded input with no key or mouse representation
)

// Event is one item of the input stream.
type Event struct {
	Type  EventType
	Key   key.Key
	Mouse key.Mouse
}

func (t EventType) String() string {
	switch t {
	case EventResize:
		return "resize"
	case EventKey:
		return "key"
	case EventMouse:
		return "mouse"
	case EventUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// String returns a debug label for the event.
func (e Event) String() string {
	switch e.Type {
	case EventKey:
		return "key " + e.Key.String()
	case EventMouse:
		return "mouse " + e.Mouse.String()
	default:
		return e.Type.String()
	}
}

// eventFromResult maps a decoder result onto the event union.
func eventFromResult(res key.Result) Event {
	switch res.Kind {
	case key.ResultKey:
		return Event{Type: EventKey, Key: res.Key}
	case key.ResultMouse:
		return Event{Type: EventMouse, Mouse: res.Mouse}
	default:
		return Event{Type: EventUnknown}
	}
}
