package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"research-assistant/internal/adapter/tui/theme"
)

// CommandDef describes a slash command offered by completion.
type CommandDef struct {
	Name        string   // e.g. "/model"
	Usage       string   // e.g. "/model <id>"; shown instead of Name when set
	Description string   // e.g. "Switch the language model"
	Args        []string // completion candidates for the first argument
}

// Suggestion is one completion candidate.
type Suggestion struct {
	Text   string // input after accepting, e.g. "/model gemma-7b-it"
	Label  string
	Detail string
}

// AutocompleteModel suggests slash commands and, once a command with known
// arguments has been typed, values for that argument.
type AutocompleteModel struct {
	Commands    []CommandDef
	Suggestions []Suggestion
	Selected    int
	Visible     bool
	maxShow     int
	width       int
}

// NewAutocomplete creates an autocomplete model over commands.
func NewAutocomplete(commands []CommandDef) AutocompleteModel {
	return AutocompleteModel{Commands: commands, maxShow: 6}
}

// SetWidth updates the popup width.
func (m *AutocompleteModel) SetWidth(w int) { m.width = w }

// SetArgs replaces the argument candidates of the named command.
func (m *AutocompleteModel) SetArgs(name string, args []string) {
	for i := range m.Commands {
		if m.Commands[i].Name == name {
			m.Commands[i].Args = args
		}
	}
}

// Update recomputes the suggestions for the current input.
func (m *AutocompleteModel) Update(input string) {
	m.Suggestions = m.suggest(input)
	m.Visible = len(m.Suggestions) > 0
	if m.Selected >= len(m.Suggestions) {
		m.Selected = 0
	}
}

func (m *AutocompleteModel) suggest(input string) []Suggestion {
	if !strings.HasPrefix(input, "/") || strings.ContainsRune(input, '\n') {
		return nil
	}

	name, arg, hasArg := strings.Cut(input, " ")
	name = strings.ToLower(name)

	var out []Suggestion
	if !hasArg {
		for _, c := range m.Commands {
			if !strings.HasPrefix(c.Name, name) {
				continue
			}
			label := c.Name
			if c.Usage != "" {
				label = c.Usage
			}
			out = append(out, Suggestion{Text: c.Name + " ", Label: label, Detail: c.Description})
		}
		return out
	}

	if strings.ContainsRune(arg, ' ') {
		return nil
	}
	for _, c := range m.Commands {
		if c.Name != name {
			continue
		}
		for _, a := range c.Args {
			if a != arg && strings.HasPrefix(strings.ToLower(a), strings.ToLower(arg)) {
				out = append(out, Suggestion{Text: c.Name + " " + a, Label: a})
			}
		}
	}
	return out
}

// Hide hides the popup.
func (m *AutocompleteModel) Hide() {
	m.Visible = false
	m.Suggestions = nil
	m.Selected = 0
}

// SelectNext moves the selection down, wrapping at the end.
func (m *AutocompleteModel) SelectNext() {
	if n := len(m.Suggestions); n > 0 {
		m.Selected = (m.Selected + 1) % n
	}
}

// SelectPrev moves the selection up, wrapping at the top.
func (m *AutocompleteModel) SelectPrev() {
	if n := len(m.Suggestions); n > 0 {
		m.Selected = (m.Selected - 1 + n) % n
	}
}

// Accept returns the selected suggestion's text and hides the popup.
func (m *AutocompleteModel) Accept() string {
	if len(m.Suggestions) == 0 {
		return ""
	}
	text := m.Suggestions[m.Selected].Text
	m.Hide()
	return text
}

// Height returns how many lines the popup occupies, borders included.
func (m AutocompleteModel) Height() int {
	if !m.Visible {
		return 0
	}
	return min(len(m.Suggestions), m.maxShow) + 2
}

// window returns the slice of suggestions shown, keeping the selection in view.
func (m AutocompleteModel) window() (start int, shown []Suggestion) {
	if m.Selected >= m.maxShow {
		start = m.Selected - m.maxShow + 1
	}
	end := min(start+m.maxShow, len(m.Suggestions))
	return start, m.Suggestions[start:end]
}

// View renders the popup.
func (m AutocompleteModel) View() string {
	if !m.Visible {
		return ""
	}

	popupWidth := max(m.width-4, 30)
	start, shown := m.window()

	labelW := 0
	for _, s := range shown {
		labelW = max(labelW, lipgloss.Width(s.Label))
	}
	labelW = min(labelW, 24)

	lines := make([]string, 0, len(shown))
	for i, s := range shown {
		label := s.Label + strings.Repeat(" ", max(labelW-lipgloss.Width(s.Label), 0))

		detail := []rune(s.Detail)
		if room := popupWidth - labelW - 4; room > 1 && len(detail) > room {
			detail = append(detail[:room-1], []rune(theme.SymbolEllipsis)...)
		}

		line := label
		if len(detail) > 0 {
			line += " " + theme.TextMuted.Render(string(detail))
		}
		if start+i == m.Selected {
			line = theme.TextInfo.Render(theme.SymbolArrowR+" ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorderActive).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
