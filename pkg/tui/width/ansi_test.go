// ABOUTME: Tests for ANSI escape sequence stripping
// ABOUTME: Covers SGR, OSC with BEL and ST terminators, and truncated sequences

package width

import "testing"

func TestStripANSI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no escapes", input: "plain", want: "plain"},
		{name: "sgr", input: "\x1b[1;31mbold red\x1b[0m", want: "bold red"},
		{name: "osc bel", input: "\x1b]0;t\aX", want: "X"},
		{name: "osc st", input: "\x1b]8;;http://x\x1b\\link", want: "link"},
		{name: "charset", input: "\x1b(Bok", want: "ok"},
		{name: "two byte", input: "\x1b=ok", want: "ok"},
		{name: "truncated csi", input: "ok\x1b[12", want: "ok"},
		{name: "lone esc", input: "ok\x1b", want: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StripANSI(tt.input); got != tt.want {
				t.Errorf("StripANSI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
