// ABOUTME: Kitty keyboard protocol and xterm modifier-encoded CSI key resolution.
// ABOUTME: Maps CSI u, CSI number ~ and CSI 1;mod letter forms to Key values with modifiers.

package key

// Kitty/xterm modifier bitmask values (encoded as modifiers-1 in the wire format).
const (
	kittyShift = 1 << iota // bit 0
	kittyAlt               // bit 1
	kittyCtrl              // bit 2
)

// kittyRelease is the event type the kitty protocol reports for key release.
const kittyRelease = 3

// ctrlKeyTypes maps lowercase rune codepoints to their Ctrl+<key> types.
var ctrlKeyTypes = map[rune]KeyType{
	'c': KeyCtrlC,
	'd': KeyCtrlD,
	'g': KeyCtrlG,
	'l': KeyCtrlL,
	'o': KeyCtrlO,
	'r': KeyCtrlR,
}

// tildeKeyTypes maps CSI number~ codes to their key types.
var tildeKeyTypes = map[int]KeyType{
	1:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	7:  KeyHome,
	8:  KeyEnd,
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

// letterKeyTypes maps CSI letter terminators to their key types.
var letterKeyTypes = map[byte]KeyType{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
}

// keyFromCSI resolves a parsed control sequence to a Key. It handles three forms:
//   - CSI <codepoint>[:<shifted>] [; <modifiers>[:<event>]] u
//   - CSI <number> ; <modifiers> ~      (functional keys)
//   - CSI 1 ; <modifiers> <letter>      (arrow/nav keys with modifiers)
//
// Key releases and unknown codes report false.
func keyFromCSI(c csi) (Key, bool) {
	mods := c.param(1, 1) - 1
	if mods < 0 {
		return Key{}, false
	}

	switch c.final {
	case 'u':
		if c.sub(1, 1, 1) == kittyRelease {
			return Key{}, false
		}
		cp := c.param(0, -1)
		if cp < 0 {
			return Key{}, false
		}
		return buildKey(rune(cp), mods), true
	case '~':
		kt, ok := tildeKeyTypes[c.param(0, -1)]
		if !ok {
			return Key{}, false
		}
		k := Key{Type: kt}
		applyModifiers(&k, mods)
		return k, true
	default:
		kt, ok := letterKeyTypes[c.final]
		if !ok {
			return Key{}, false
		}
		k := Key{Type: kt}
		applyModifiers(&k, mods)
		return k, true
	}
}

// buildKey constructs a Key from a unicode codepoint and modifier bitmask.
func buildKey(codepoint rune, mods int) Key {
	k := mapCodepointToKey(codepoint)

	// For Ctrl+<letter>, check if there is a specific KeyType
	if mods&kittyCtrl != 0 {
		if kt, ok := ctrlKeyTypes[codepoint]; ok {
			k = Key{Type: kt}
		}
	}

	// Tab + Shift = BackTab
	if k.Type == KeyTab && mods&kittyShift != 0 {
		k = Key{Type: KeyBackTab}
	}

	applyModifiers(&k, mods)
	return k
}

// mapCodepointToKey converts a unicode codepoint to a base Key without modifiers.
func mapCodepointToKey(cp rune) Key {
	switch cp {
	case 13:
		return Key{Type: KeyEnter}
	case 9:
		return Key{Type: KeyTab}
	case 127:
		return Key{Type: KeyBackspace}
	case 27:
		return Key{Type: KeyEscape}
	default:
		return Key{Type: KeyRune, Rune: cp}
	}
}

// applyModifiers sets the modifier flags on a Key from the decoded bitmask.
func applyModifiers(k *Key, mods int) {
	if mods&kittyShift != 0 {
		k.Shift = true
	}
	if mods&kittyAlt != 0 {
		k.Alt = true
	}
	if mods&kittyCtrl != 0 {
		k.Ctrl = true
	}
}
