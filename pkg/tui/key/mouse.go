// ABOUTME: Mouse descriptor types and decoders for X10, SGR (1006) and urxvt (1015) mouse reports.
// ABOUTME: Converts button codes and coordinates into Mouse values with action and modifiers.

package key

import "fmt"

// MouseButton identifies the button involved in a mouse event.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseWheelLeft
	MouseWheelRight
	MouseBack
	MouseForward
)

// MouseAction is what happened to the button.
type MouseAction uint8

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseDrag // motion with a button held
	MouseMove // motion with no button held
)

// Mouse is a decoded mouse report. X and Y are 1-based cell coordinates
// exactly as the terminal reported them.
type Mouse struct {
	Action MouseAction
	Button MouseButton
	X, Y   int
	Shift  bool
	Alt    bool
	Ctrl   bool
}

// Button code bits shared by every xterm mouse encoding.
const (
	mouseBtnMask   = 0x03
	mouseShiftBit  = 0x04
	mouseAltBit    = 0x08
	mouseCtrlBit   = 0x10
	mouseMotionBit = 0x20
	mouseWheelBit  = 0x40
	mouseExtraBit  = 0x80
	x10Offset      = 32
)

// mouseFromCode decodes an xterm button code. release reports whether the
// encoding carried an explicit release (SGR 'm').
func mouseFromCode(code, x, y int, release bool) Mouse {
	m := Mouse{
		X:     x,
		Y:     y,
		Shift: code&mouseShiftBit != 0,
		Alt:   code&mouseAltBit != 0,
		Ctrl:  code&mouseCtrlBit != 0,
	}

	btn := code & mouseBtnMask
	switch {
	case code&mouseExtraBit != 0:
		m.Button = [...]MouseButton{MouseBack, MouseForward, MouseNone, MouseNone}[btn]
	case code&mouseWheelBit != 0:
		m.Button = [...]MouseButton{MouseWheelUp, MouseWheelDown, MouseWheelLeft, MouseWheelRight}[btn]
	default:
		m.Button = [...]MouseButton{MouseLeft, MouseMiddle, MouseRight, MouseNone}[btn]
	}

	switch {
	case release:
		m.Action = MouseRelease
	case code&mouseMotionBit != 0 && m.Button == MouseNone:
		m.Action = MouseMove
	case code&mouseMotionBit != 0:
		m.Action = MouseDrag
	case m.Button == MouseNone:
		// X10/urxvt report release as button 3 without saying which one.
		m.Action = MouseRelease
	default:
		m.Action = MousePress
	}
	return m
}

// mouseFromX10 decodes the three raw bytes following ESC [ M.
func mouseFromX10(cb, cx, cy byte) (Mouse, error) {
	if cb < x10Offset || cx <= x10Offset || cy <= x10Offset {
		return Mouse{}, fmt.Errorf("x10 mouse report out of range: %d %d %d", cb, cx, cy)
	}
	return mouseFromCode(int(cb)-x10Offset, int(cx)-x10Offset, int(cy)-x10Offset, false), nil
}

// mouseFromSGR decodes ESC [ < code ; x ; y (M|m).
func mouseFromSGR(c csi) (Mouse, bool) {
	if c.private != '<' || len(c.params) != 3 || (c.final != 'M' && c.final != 'm') {
		return Mouse{}, false
	}
	code, x, y := c.param(0, -1), c.param(1, -1), c.param(2, -1)
	if code < 0 || x < 1 || y < 1 {
		return Mouse{}, false
	}
	return mouseFromCode(code, x, y, c.final == 'm'), true
}

// mouseFromURXVT decodes ESC [ code ; x ; y M, where code carries the X10 offset.
func mouseFromURXVT(c csi) (Mouse, bool) {
	if c.private != 0 || len(c.params) != 3 || c.final != 'M' {
		return Mouse{}, false
	}
	code, x, y := c.param(0, -1), c.param(1, -1), c.param(2, -1)
	if code < x10Offset || x < 1 || y < 1 {
		return Mouse{}, false
	}
	return mouseFromCode(code-x10Offset, x, y, false), true
}

var mouseButtonNames = [...]string{
	MouseNone:       "None",
	MouseLeft:       "Left",
	MouseMiddle:     "Middle",
	MouseRight:      "Right",
	MouseWheelUp:    "WheelUp",
	MouseWheelDown:  "WheelDown",
	MouseWheelLeft:  "WheelLeft",
	MouseWheelRight: "WheelRight",
	MouseBack:       "Back",
	MouseForward:    "Forward",
}

// String returns human-readable button name
func (b MouseButton) String() string {
	if int(b) < len(mouseButtonNames) {
		return mouseButtonNames[b]
	}
	return "None"
}

// String returns human-readable action name
func (a MouseAction) String() string {
	switch a {
	case MousePress:
		return "Press"
	case MouseRelease:
		return "Release"
	case MouseDrag:
		return "Drag"
	case MouseMove:
		return "Move"
	default:
		return "Unknown"
	}
}

func (m Mouse) String() string {
	mods := ""
	if m.Ctrl {
		mods += "Ctrl+"
	}
	if m.Alt {
		mods += "Alt+"
	}
	if m.Shift {
		mods += "Shift+"
	}
	return fmt.Sprintf("%s%s %s @%d,%d", mods, m.Button, m.Action, m.X, m.Y)
}
