// ABOUTME: Defines the Key type, single-byte key mapping, and human-readable key labels.
// ABOUTME: Escape sequences are resolved by the streaming decoder against the legacy and kitty tables.

package key

import "strings"

// Key represents a parsed keyboard input event.
type Key struct {
	Type  KeyType
	Rune  rune // For printable characters and generic Ctrl+<letter>
	Alt   bool
	Ctrl  bool
	Shift bool
}

// KeyType enumerates the kinds of key events a terminal can send.
type KeyType int

const (
	KeyRune      KeyType = iota // Printable character
	KeyEnter                    // Enter / Return
	KeyTab                      // Tab
	KeyBackTab                  // Shift+Tab
	KeyBackspace                // Backspace / DEL (0x7F)
	KeyDelete                   // Delete key
	KeyInsert                   // Insert key
	KeyUp                       // Arrow up
	KeyDown                     // Arrow down
	KeyLeft                     // Arrow left
	KeyRight                    // Arrow right
	KeyHome                     // Home
	KeyEnd                      // End
	KeyPageUp                   // Page Up
	KeyPageDown                 // Page Down
	KeyEscape                   // Escape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyCtrlC  // Ctrl+C
	KeyCtrlD  // Ctrl+D
	KeyCtrlG  // Ctrl+G
	KeyCtrlL  // Ctrl+L
	KeyCtrlO  // Ctrl+O
	KeyCtrlR  // Ctrl+R
	KeyUnknown // Unrecognized input
)

// ctrlKeys maps control byte values with a dedicated KeyType.
var ctrlKeys = map[byte]Key{
	0x03: {Type: KeyCtrlC, Ctrl: true},
	0x04: {Type: KeyCtrlD, Ctrl: true},
	0x07: {Type: KeyCtrlG, Ctrl: true},
	0x0c: {Type: KeyCtrlL, Ctrl: true},
	0x0f: {Type: KeyCtrlO, Ctrl: true},
	0x12: {Type: KeyCtrlR, Ctrl: true},
}

// parseSingleByte handles a single-byte input (ASCII or control character).
func parseSingleByte(b byte) Key {
	switch {
	case b == 0x0d, b == 0x0a:
		return Key{Type: KeyEnter}
	case b == 0x09:
		return Key{Type: KeyTab}
	case b == 0x7f, b == 0x08:
		return Key{Type: KeyBackspace}
	case b == 0x1b:
		return Key{Type: KeyEscape}
	case b >= 0x20 && b <= 0x7e:
		return Key{Type: KeyRune, Rune: rune(b)}
	}

	if k, ok := ctrlKeys[b]; ok {
		return k
	}
	switch {
	case b == 0x00:
		return Key{Type: KeyRune, Rune: ' ', Ctrl: true}
	case b >= 0x01 && b <= 0x1a:
		return Key{Type: KeyRune, Rune: rune('a' + b - 1), Ctrl: true}
	case b >= 0x1c && b <= 0x1f:
		return Key{Type: KeyRune, Rune: rune('4' + b - 0x1c), Ctrl: true}
	}
	return Key{Type: KeyUnknown}
}

// keyTypeNames provides human-readable labels for each KeyType.
var keyTypeNames = map[KeyType]string{
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackTab:   "BackTab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyEscape:    "Escape",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
	KeyCtrlC:     "Ctrl+C",
	KeyCtrlD:     "Ctrl+D",
	KeyCtrlG:     "Ctrl+G",
	KeyCtrlL:     "Ctrl+L",
	KeyCtrlO:     "Ctrl+O",
	KeyCtrlR:     "Ctrl+R",
	KeyUnknown:   "Unknown",
}

// String returns a human-readable representation of the Key for debug display.
func (k Key) String() string {
	if k.Type == KeyRune {
		return formatModifiers(k, string(k.Rune))
	}
	name, ok := keyTypeNames[k.Type]
	if !ok {
		return "Unknown"
	}
	// Dedicated Ctrl types already carry the modifier in their name.
	if strings.HasPrefix(name, "Ctrl+") {
		k.Ctrl = false
	}
	return formatModifiers(k, name)
}

// formatModifiers prefixes a key label with its active modifiers.
func formatModifiers(k Key, label string) string {
	var b strings.Builder
	if k.Ctrl {
		b.WriteString("Ctrl+")
	}
	if k.Alt {
		b.WriteString("Alt+")
	}
	if k.Shift && k.Type != KeyBackTab {
		b.WriteString("Shift+")
	}
	b.WriteString(label)
	return b.String()
}
