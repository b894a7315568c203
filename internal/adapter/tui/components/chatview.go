package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ChatViewModel is the scrollable transcript pane. New content keeps the view
// pinned to the bottom unless the user has scrolled away from it.
type ChatViewModel struct {
	Viewport viewport.Model
	List     MessageListModel
	sized    bool
	follow   bool
}

// NewChatView returns a pane that is sized on the first WindowSizeMsg.
func NewChatView() ChatViewModel {
	return ChatViewModel{List: NewMessageList(), follow: true}
}

func (m *ChatViewModel) SetLimit(n int) {
	m.List.SetLimit(n)
	m.sync()
}

func (m *ChatViewModel) SetSize(w, h int) {
	m.List.SetWidth(w)
	if m.sized {
		m.Viewport.Width, m.Viewport.Height = w, h
	} else {
		m.Viewport = viewport.New(w, h)
		m.Viewport.MouseWheelEnabled = true
		m.Viewport.MouseWheelDelta = 3
		m.sized = true
	}
	m.sync()
}

func (m *ChatViewModel) AddMessage(msg ChatMessage) {
	m.List.Add(msg)
	m.sync()
}

// UpdateLastMessage replaces the newest message's content.
func (m *ChatViewModel) UpdateLastMessage(content string) {
	m.List.ReplaceLast(content)
	m.sync()
}

// Clear empties the pane. The conversation transcript is unaffected.
func (m *ChatViewModel) Clear() {
	m.List.Clear()
	m.follow = true
	m.sync()
}

// Update scrolls the viewport and re-evaluates whether to follow new output.
func (m ChatViewModel) Update(msg tea.Msg) (ChatViewModel, tea.Cmd) {
	if !m.sized {
		return m, nil
	}
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	m.follow = m.Viewport.AtBottom()
	return m, cmd
}

// ClaimPending attaches entryID to the newest unlinked message of role whose
// trimmed content equals content. It reports whether one was found.
func (m *ChatViewModel) ClaimPending(role MessageRole, content, entryID string) bool {
	want := strings.TrimSpace(content)
	for i := len(m.List.Messages) - 1; i >= 0; i-- {
		msg := &m.List.Messages[i]
		if msg.Role != role || msg.EntryID != "" || strings.TrimSpace(msg.Content) != want {
			continue
		}
		msg.EntryID = entryID
		return true
	}
	return false
}

// Messages returns the messages currently shown.
func (m ChatViewModel) Messages() []ChatMessage { return m.List.Messages }

func (m ChatViewModel) Len() int { return len(m.List.Messages) }

func (m ChatViewModel) Last() (ChatMessage, bool) {
	n := len(m.List.Messages)
	if n == 0 {
		return ChatMessage{}, false
	}
	return m.List.Messages[n-1], true
}

func (m ChatViewModel) View() string {
	if !m.sized {
		return "  Initializing..."
	}
	return m.Viewport.View()
}

// sync re-renders the list into the viewport.
func (m *ChatViewModel) sync() {
	if !m.sized {
		return
	}
	m.Viewport.SetContent(m.List.View())
	if m.follow {
		m.Viewport.GotoBottom()
	}
}
