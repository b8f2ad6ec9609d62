// ABOUTME: Skips ANSI escape sequences embedded in styled output
// ABOUTME: Recognises CSI, OSC and string-terminated sequences plus two-byte ESC forms

package width

import "strings"

// StripANSI removes all ANSI escape sequences from s.
func StripANSI(s string) string {
	if !strings.Contains(s, "\x1b") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '\x1b' {
			i = sequenceEnd(s, i)
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// sequenceEnd returns the index just past the escape sequence at s[i].
// An unterminated sequence runs to the end of s.
func sequenceEnd(s string, i int) int {
	i++
	if i >= len(s) {
		return i
	}
	intro := s[i]
	i++
	switch intro {
	case '[':
		for ; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7e {
				return i + 1
			}
		}
		return i
	case ']', 'P', '_', '^':
		// OSC ends at BEL or ST; DCS, APC and PM only at ST.
		for ; i < len(s); i++ {
			if intro == ']' && s[i] == '\a' {
				return i + 1
			}
			if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
		}
		return i
	case '(', ')':
		return min(i+1, len(s))
	default:
		return i
	}
}
