package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"research-assistant/internal/adapter/tui/theme"
)

// KeyHint is a key and what it does, e.g. {"Enter", "Send"}.
type KeyHint struct {
	Key  string
	Desc string
}

func (h KeyHint) render() string { return theme.StatusKey.Render(h.Key) + ": " + h.Desc }

// StatusBarModel is the bottom line: key hints on the left, the active search
// tool, model and turn status on the right. Hints that do not fit are dropped
// from the end.
type StatusBarModel struct {
	Hints     []KeyHint
	Provider  string // empty when search is off
	ModelName string
	Status    string
	IsError   bool
	width     int
}

func NewStatusBar() StatusBarModel { return StatusBarModel{} }

func (m *StatusBarModel) SetWidth(w int) { m.width = w }

func (m StatusBarModel) right() string {
	var info []string
	for _, s := range []string{m.Provider, m.ModelName} {
		if s != "" {
			info = append(info, s)
		}
	}

	var parts []string
	if len(info) > 0 {
		parts = append(parts, theme.TextMuted.Render(strings.Join(info, " "+theme.SymbolBullet+" ")))
	}
	if m.Status != "" {
		style := theme.TextInfo
		if m.IsError {
			style = theme.TextError
		}
		parts = append(parts, style.Render(m.Status))
	}
	return strings.Join(parts, "  ")
}

func (m StatusBarModel) View() string {
	right := m.right()
	inner := m.width - 2 // bar padding
	room := inner - lipgloss.Width(right) - 1

	sep := "  " + theme.Dim.Render("|") + "  "
	left := ""
	for _, h := range m.Hints {
		next := h.render()
		if left != "" {
			next = left + sep + next
		}
		if m.width > 0 && lipgloss.Width(next) > room {
			break
		}
		left = next
	}

	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
