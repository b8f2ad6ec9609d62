// ABOUTME: Tests for VisibleWidth and PadRight
// ABOUTME: Covers ASCII, wide runes, combining marks, and ANSI styling

package width

import "testing"

func TestVisibleWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty string", input: "", want: 0},
		{name: "ascii", input: "hello", want: 5},
		{name: "ansi colored", input: "\x1b[31mred\x1b[0m", want: 3},
		{name: "cjk", input: "日本", want: 4},
		{name: "mixed", input: "hi\x1b[1m!\x1b[0m", want: 3},
		{name: "emoji", input: "\U0001F44B", want: 2},
		{name: "combining accent", input: "e\u0301", want: 1},
		{name: "only ansi", input: "\x1b[31m\x1b[0m", want: 0},
		{name: "osc title", input: "\x1b]0;title\aok", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := VisibleWidth(tt.input); got != tt.want {
				t.Errorf("VisibleWidth(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{name: "ascii", input: "ab", n: 4, want: "ab  "},
		{name: "wide rune", input: "日", n: 4, want: "日  "},
		{name: "styled", input: "\x1b[1mab\x1b[0m", n: 3, want: "\x1b[1mab\x1b[0m "},
		{name: "already wide enough", input: "abcdef", n: 3, want: "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PadRight(tt.input, tt.n); got != tt.want {
				t.Errorf("PadRight(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
			}
		})
	}
}
