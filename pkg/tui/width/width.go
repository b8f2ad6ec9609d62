// ABOUTME: Display width of terminal labels in cells, grapheme-aware and ignoring ANSI styling
// ABOUTME: PadRight aligns styled columns where len() and rune counts both get it wrong

package width

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// VisibleWidth returns the number of cells s occupies. Escape sequences are
// zero width; a grapheme cluster takes the width of its first rune, so
// combining marks and emoji modifiers do not add cells.
func VisibleWidth(s string) int {
	s = StripANSI(s)
	if isASCII(s) {
		return len(s)
	}

	w := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		r, _ := utf8.DecodeRuneInString(cluster)
		w += runewidth.RuneWidth(r)
	}
	return w
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// PadRight appends spaces until s is at least n cells wide.
func PadRight(s string, n int) string {
	w := VisibleWidth(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}
