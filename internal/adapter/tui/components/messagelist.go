package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"research-assistant/internal/adapter/tui/theme"
)

// MessageRole identifies who produced a line in the transcript pane.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
	RoleTool      MessageRole = "tool"
	RoleError     MessageRole = "error"
)

// ChatMessage is one block in the transcript pane.
type ChatMessage struct {
	Role      MessageRole
	Content   string
	Timestamp time.Time
	EntryID   string // ID of the transcript entry shown, empty while pending

	// markdown output for assistant messages, valid while cacheWidth matches
	cache      string
	cacheWidth int
}

// MessageListModel renders the pane's messages. When Limit is positive only
// the newest Limit messages are kept.
type MessageListModel struct {
	Messages []ChatMessage
	Limit    int
	dropped  int
	width    int

	md      *glamour.TermRenderer
	mdWidth int
}

func NewMessageList() MessageListModel { return MessageListModel{} }

// SetWidth sets the terminal width; cached markdown is re-rendered lazily.
func (m *MessageListModel) SetWidth(w int) { m.width = w }

// SetLimit bounds how many messages are kept. Zero keeps everything.
func (m *MessageListModel) SetLimit(n int) {
	m.Limit = n
	m.enforceLimit()
}

// Dropped reports how many messages were discarded by the limit.
func (m *MessageListModel) Dropped() int { return m.dropped }

func (m *MessageListModel) Add(msg ChatMessage) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	m.Messages = append(m.Messages, msg)
	m.enforceLimit()
}

func (m *MessageListModel) enforceLimit() {
	if m.Limit <= 0 || len(m.Messages) <= m.Limit {
		return
	}
	n := len(m.Messages) - m.Limit
	m.Messages = append(m.Messages[:0:0], m.Messages[n:]...)
	m.dropped += n
}

func (m *MessageListModel) Clear() {
	m.Messages = nil
	m.dropped = 0
}

// ReplaceLast swaps the content of the newest message, used while an answer
// is revealed incrementally.
func (m *MessageListModel) ReplaceLast(content string) {
	if len(m.Messages) == 0 {
		return
	}
	last := &m.Messages[len(m.Messages)-1]
	last.Content = content
	last.cache = ""
}

// View renders every message, oldest first.
func (m *MessageListModel) View() string {
	if len(m.Messages) == 0 {
		return theme.TextMuted.Render("  Nothing here yet. Ask a question to start researching.")
	}

	width := ContentWidth(m.width)
	now := time.Now()

	blocks := make([]string, 0, len(m.Messages)+1)
	if m.dropped > 0 {
		blocks = append(blocks, theme.TextMuted.Render(fmt.Sprintf("  … %d earlier messages not shown", m.dropped)))
	}
	for i := range m.Messages {
		blocks = append(blocks, m.render(&m.Messages[i], width, now))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *MessageListModel) render(msg *ChatMessage, width int, now time.Time) string {
	// Search blocks arrive fully formatted.
	if msg.Role == RoleTool {
		return msg.Content
	}

	header := roleLabel(msg.Role)
	if stamp := Stamp(msg.Timestamp, now); stamp != "" {
		header += " " + theme.Timestamp.Render(stamp)
	}

	var body string
	switch msg.Role {
	case RoleAssistant:
		if msg.cache == "" || msg.cacheWidth != width {
			msg.cache = m.markdown(msg.Content, width)
			msg.cacheWidth = width
		}
		body = strings.Trim(msg.cache, "\n")
	case RoleError:
		body = theme.TextError.Render(indent(wrapText(msg.Content, width-2)))
	default:
		body = indent(wrapText(msg.Content, width-2))
	}

	if strings.TrimSpace(body) == "" {
		return header
	}
	return header + "\n" + body
}

func roleLabel(role MessageRole) string {
	switch role {
	case RoleUser:
		return theme.UserLabel.Render(theme.SymbolUser + ":")
	case RoleAssistant:
		return theme.BotLabel.Render(theme.SymbolBot + ":")
	case RoleSystem:
		return theme.SystemLabel.Render("System")
	case RoleError:
		return theme.ErrorLabel.Render(theme.SymbolError + " Error")
	}
	return theme.TextMuted.Render(string(role))
}

// markdown renders content with glamour, falling back to the raw text.
func (m *MessageListModel) markdown(content string, width int) string {
	if m.md == nil || m.mdWidth != width {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
		if err != nil {
			return indent(wrapText(content, width-2))
		}
		m.md, m.mdWidth = r, width
	}
	out, err := m.md.Render(content)
	if err != nil {
		return indent(wrapText(content, width-2))
	}
	return out
}

// Stamp formats t relative to now for message headers.
func Stamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case sameDay(t, now):
		return t.Format("15:04")
	}
	return t.Format("Jan 2 15:04")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// wrapText greedily fills lines up to width display cells. Newlines in s are
// kept and words longer than width are split.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return strings.Split(s, "\n")
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			for lipgloss.Width(word) > width {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				head, tail := cutWidth(word, width)
				lines = append(lines, head)
				word = tail
			}
			switch {
			case line == "":
				line = word
			case lipgloss.Width(line)+1+lipgloss.Width(word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// cutWidth splits word after the last rune that fits in width cells. At
// least one rune always goes into head.
func cutWidth(word string, width int) (head, tail string) {
	used := 0
	for i, r := range word {
		w := lipgloss.Width(string(r))
		if used+w > width && i > 0 {
			return word[:i], word[i:]
		}
		used += w
	}
	return word, ""
}

func indent(lines []string) string {
	return "  " + strings.Join(lines, "\n  ")
}

// ContentWidth is the readable text width for a terminal of termWidth columns.
func ContentWidth(termWidth int) int {
	return theme.Clamp(termWidth-4, 40, theme.MaxContentWidth)
}

// Divider renders a horizontal rule.
func Divider(width int) string {
	return lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Repeat("─", width))
}
