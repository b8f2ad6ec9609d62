// ABOUTME: Pre-sets lipgloss dark background so styling never queries the terminal
// ABOUTME: Import (with _) from any binary that styles output while reading raw input

package termfix

import "github.com/charmbracelet/lipgloss"

func init() {
	// Without an explicit answer lipgloss asks the terminal for its
	// background colour (OSC 11). The reply arrives on the input stream
	// and would be decoded as keystrokes by the multiplexer.
	lipgloss.SetHasDarkBackground(true)
}
