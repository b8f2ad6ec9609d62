// ABOUTME: Tests for mouse button-code decoding and descriptor labels.
// ABOUTME: Covers modifier bits, extra buttons, motion, and X10 range checks.

package key

import "testing"

func TestMouseFromCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		code    int
		release bool
		want    Mouse
	}{
		{name: "left press", code: 0, want: Mouse{Action: MousePress, Button: MouseLeft, X: 1, Y: 2}},
		{name: "right press shift ctrl", code: 2 | 0x04 | 0x10, want: Mouse{Action: MousePress, Button: MouseRight, X: 1, Y: 2, Shift: true, Ctrl: true}},
		{name: "middle sgr release", code: 1, release: true, want: Mouse{Action: MouseRelease, Button: MouseMiddle, X: 1, Y: 2}},
		{name: "x10 release", code: 3, want: Mouse{Action: MouseRelease, Button: MouseNone, X: 1, Y: 2}},
		{name: "drag left alt", code: 0x20 | 0x08, want: Mouse{Action: MouseDrag, Button: MouseLeft, X: 1, Y: 2, Alt: true}},
		{name: "move", code: 0x20 | 3, want: Mouse{Action: MouseMove, Button: MouseNone, X: 1, Y: 2}},
		{name: "wheel down", code: 0x41, want: Mouse{Action: MousePress, Button: MouseWheelDown, X: 1, Y: 2}},
		{name: "wheel right", code: 0x43, want: Mouse{Action: MousePress, Button: MouseWheelRight, X: 1, Y: 2}},
		{name: "back", code: 0x80, want: Mouse{Action: MousePress, Button: MouseBack, X: 1, Y: 2}},
		{name: "forward", code: 0x81, want: Mouse{Action: MousePress, Button: MouseForward, X: 1, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := mouseFromCode(tt.code, 1, 2, tt.release); got != tt.want {
				t.Errorf("mouseFromCode(%#x) = %+v, want %+v", tt.code, got, tt.want)
			}
		})
	}
}

func TestMouseFromX10_OutOfRange(t *testing.T) {
	t.Parallel()

	if _, err := mouseFromX10(31, 40, 40); err == nil {
		t.Error("expected error for button byte below offset")
	}
	if _, err := mouseFromX10(32, 32, 40); err == nil {
		t.Error("expected error for zero column")
	}
	m, err := mouseFromX10(32, 33, 34)
	if err != nil {
		t.Fatalf("mouseFromX10 unexpected error: %v", err)
	}
	if m.X != 1 || m.Y != 2 {
		t.Errorf("coords = %d,%d, want 1,2", m.X, m.Y)
	}
}

func TestMouseString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		m    Mouse
		want string
	}{
		{Mouse{Action: MousePress, Button: MouseLeft, X: 3, Y: 4}, "Left Press @3,4"},
		{Mouse{Action: MouseDrag, Button: MouseRight, X: 1, Y: 1, Ctrl: true, Shift: true}, "Ctrl+Shift+Right Drag @1,1"},
		{Mouse{Action: MouseAction(9), Button: MouseButton(99)}, "None Unknown @0,0"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
