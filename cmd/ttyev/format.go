// ABOUTME: Renders one input event per line: sequence number, kind, label, and detail columns
// ABOUTME: Columns are padded by display width so styled and wide labels stay aligned

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/ttyev/pkg/tui/input"
	"github.com/mauromedda/ttyev/pkg/tui/key"
	"github.com/mauromedda/ttyev/pkg/tui/width"
)

const (
	kindColumn  = 8
	labelColumn = 18
)

type styles struct {
	seq     lipgloss.Style
	resize  lipgloss.Style
	key     lipgloss.Style
	mouse   lipgloss.Style
	unknown lipgloss.Style
	label   lipgloss.Style
	detail  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		seq:     r.NewStyle().Faint(true),
		resize:  r.NewStyle().Foreground(lipgloss.Color("3")),
		key:     r.NewStyle().Foreground(lipgloss.Color("2")),
		mouse:   r.NewStyle().Foreground(lipgloss.Color("4")),
		unknown: r.NewStyle().Foreground(lipgloss.Color("1")),
		label:   r.NewStyle().Bold(true),
		detail:  r.NewStyle().Faint(true),
	}
}

func (s styles) kind(t input.EventType) lipgloss.Style {
	switch t {
	case input.EventResize:
		return s.resize
	case input.EventKey:
		return s.key
	case input.EventMouse:
		return s.mouse
	default:
		return s.unknown
	}
}

// formatEvent renders ev without a line terminator. cols and rows are the
// terminal size for resize events.
func formatEvent(st styles, seq int, ev input.Event, cols, rows int) string {
	label, detail := describe(ev, cols, rows)

	var b strings.Builder
	b.WriteString(st.seq.Render(fmt.Sprintf("#%04d", seq)))
	b.WriteByte(' ')
	b.WriteString(width.PadRight(st.kind(ev.Type).Render(ev.Type.String()), kindColumn))
	if detail == "" {
		b.WriteString(st.label.Render(label))
		return b.String()
	}
	b.WriteString(width.PadRight(st.label.Render(label), labelColumn))
	b.WriteString(st.detail.Render(detail))
	return b.String()
}

func describe(ev input.Event, cols, rows int) (label, detail string) {
	switch ev.Type {
	case input.EventResize:
		return fmt.Sprintf("%dx%d", cols, rows), ""
	case input.EventKey:
		k := ev.Key
		if k.Type == key.KeyRune {
			return k.String(), fmt.Sprintf("U+%04X", k.Rune)
		}
		return k.String(), ""
	case input.EventMouse:
		m := ev.Mouse
		return m.Button.String() + " " + m.Action.String(), fmt.Sprintf("at %d,%d%s", m.X, m.Y, mouseMods(m))
	default:
		return "?", "unrecognised sequence"
	}
}

func mouseMods(m key.Mouse) string {
	var mods []string
	if m.Ctrl {
		mods = append(mods, "Ctrl")
	}
	if m.Alt {
		mods = append(mods, "Alt")
	}
	if m.Shift {
		mods = append(mods, "Shift")
	}
	if len(mods) == 0 {
		return ""
	}
	return " " + strings.Join(mods, "+")
}

// isQuit reports whether ev ends the session: Ctrl+C or a bare q.
func isQuit(ev input.Event) bool {
	if ev.Type != input.EventKey {
		return false
	}
	k := ev.Key
	if k.Type == key.KeyCtrlC {
		return true
	}
	return k.Type == key.KeyRune && k.Rune == 'q' && !k.Alt && !k.Ctrl
}
