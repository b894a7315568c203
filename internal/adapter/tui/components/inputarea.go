package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"research-assistant/internal/adapter/tui/theme"
)

// InputSubmitMsg carries a trimmed, non-blank line the user sent with Enter.
type InputSubmitMsg struct {
	Value string
}

// InputAreaModel is the query editor at the bottom of the screen. It owns the
// command completion popup and can be locked when the assistant cannot accept
// queries at all.
type InputAreaModel struct {
	Textarea     textarea.Model
	Autocomplete AutocompleteModel
	Enabled      bool
	Locked       string // shown in place of the editor while set
	width        int
}

func NewInputArea() InputAreaModel {
	ta := textarea.New()
	ta.Placeholder = "Ask a question, or type / for commands"
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Prompt = theme.InputPrompt
	ta.FocusedStyle.Placeholder = theme.InputPlaceholder
	ta.Focus()

	return InputAreaModel{Textarea: ta, Enabled: true}
}

func (m *InputAreaModel) SetWidth(w int) {
	m.width = w
	m.Textarea.SetWidth(w - 2)
	m.Autocomplete.SetWidth(w)
}

// SetEnabled toggles input while a turn runs. It has no effect once locked.
func (m *InputAreaModel) SetEnabled(enabled bool) {
	m.Enabled = enabled && m.Locked == ""
	if m.Enabled {
		m.Textarea.Focus()
		return
	}
	m.Textarea.Blur()
}

// Lock disables input for the rest of the session and displays reason.
func (m *InputAreaModel) Lock(reason string) {
	m.Locked = reason
	m.Autocomplete.Hide()
	m.SetEnabled(false)
}

func (m *InputAreaModel) Reset() {
	m.Textarea.Reset()
	m.Autocomplete.Hide()
}

func (m InputAreaModel) Value() string { return m.Textarea.Value() }

// IsSlashCommand reports whether the pending input is a command.
func (m InputAreaModel) IsSlashCommand() bool {
	return strings.HasPrefix(strings.TrimSpace(m.Textarea.Value()), "/")
}

// ParseSlashCommand splits "/cmd a b" into a lower-cased command and its
// arguments. ok is false for input that is not a command.
func ParseSlashCommand(input string) (cmd string, args []string, ok bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// Update routes a message to the editor. Enter submits; Alt+Enter inserts a
// newline. While the popup is open, Tab and the arrow keys move through it and
// Enter completes the selection instead of submitting.
func (m InputAreaModel) Update(msg tea.Msg) (InputAreaModel, tea.Cmd) {
	if !m.Enabled {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m, nil
	case tea.KeyMsg:
		if m.Autocomplete.Visible && m.handlePopupKey(msg) {
			return m, nil
		}
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.Textarea, cmd = m.Textarea.Update(msg)
	m.Autocomplete.Update(m.Textarea.Value())
	return m, cmd
}

// handlePopupKey applies popup navigation and reports whether key was consumed.
func (m *InputAreaModel) handlePopupKey(key tea.KeyMsg) bool {
	switch key.Type {
	case tea.KeyTab, tea.KeyDown:
		m.Autocomplete.SelectNext()
	case tea.KeyShiftTab, tea.KeyUp:
		m.Autocomplete.SelectPrev()
	case tea.KeyEsc:
		m.Autocomplete.Hide()
	case tea.KeyEnter:
		if text := m.Autocomplete.Accept(); text != "" {
			m.Textarea.SetValue(text)
			m.Textarea.CursorEnd()
			m.Autocomplete.Update(text)
		}
	default:
		return false
	}
	return true
}

func (m InputAreaModel) submit() (InputAreaModel, tea.Cmd) {
	value := strings.TrimSpace(m.Textarea.Value())
	if value == "" {
		return m, nil
	}
	m.Reset()
	return m, func() tea.Msg { return InputSubmitMsg{Value: value} }
}

// View renders the editor with the completion popup stacked above it.
func (m InputAreaModel) View() string {
	if m.Locked != "" {
		return theme.Dim.Render("> " + m.Locked)
	}
	if popup := m.Autocomplete.View(); popup != "" {
		return lipgloss.JoinVertical(lipgloss.Left, popup, m.Textarea.View())
	}
	return m.Textarea.View()
}
