// ABOUTME: Parses the body of a CSI control sequence into private marker, numeric params, and final byte.
// ABOUTME: Shared by kitty/modified key resolution and SGR/urxvt mouse decoding.

package key

const (
	// maxCSILen bounds how many bytes a CSI body may span before it is rejected.
	maxCSILen = 64
	// maxParamValue rejects absurd numeric parameters instead of overflowing.
	maxParamValue = 1 << 20
)

// csi is a parsed control sequence of the form ESC [ <private> <params> <final>.
// Params are separated by ';'; each param may carry ':'-separated sub-params.
// A missing value is stored as -1.
type csi struct {
	private byte
	params  [][]int
	final   byte
}

// isCSIFinal reports whether b terminates a control sequence.
func isCSIFinal(b byte) bool {
	return b >= 0x40 && b <= 0x7e
}

// parseCSI parses body, the bytes after "ESC [" up to and including the final byte.
// It returns false when the body contains bytes that are not valid CSI parameters.
func parseCSI(body []byte) (csi, bool) {
	if len(body) == 0 || !isCSIFinal(body[len(body)-1]) {
		return csi{}, false
	}

	var c csi
	c.final = body[len(body)-1]
	params := body[:len(body)-1]

	if len(params) > 0 {
		switch params[0] {
		case '<', '=', '>', '?':
			c.private = params[0]
			params = params[1:]
		}
	}
	if len(params) == 0 {
		return c, true
	}

	cur := []int{-1}
	for _, b := range params {
		switch {
		case b >= '0' && b <= '9':
			v := cur[len(cur)-1]
			if v < 0 {
				v = 0
			}
			v = v*10 + int(b-'0')
			if v > maxParamValue {
				return csi{}, false
			}
			cur[len(cur)-1] = v
		case b == ':':
			cur = append(cur, -1)
		case b == ';':
			c.params = append(c.params, cur)
			cur = []int{-1}
		default:
			return csi{}, false
		}
	}
	c.params = append(c.params, cur)
	return c, true
}

// param returns the primary value of param i, or def when absent.
func (c csi) param(i, def int) int {
	return c.sub(i, 0, def)
}

// sub returns sub-param j of param i, or def when absent.
func (c csi) sub(i, j, def int) int {
	if i >= len(c.params) || j >= len(c.params[i]) {
		return def
	}
	if v := c.params[i][j]; v >= 0 {
		return v
	}
	return def
}
