// Package chat implements the Bubble Tea front-end of the research assistant.
package chat

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"research-assistant/internal/domain"
)

// TurnDoneMsg reports the end of a turn. Response and Results are only set
// when Err is nil.
type TurnDoneMsg struct {
	Query    string
	Response string
	Results  map[domain.ProviderKey]domain.ToolResult
	Err      error
}

// QuitMsg asks the program to exit.
type QuitMsg struct{}

// StreamTickMsg reveals the next chunk of an answer.
type StreamTickMsg struct{}

// ToolStartedMsg and ToolCompletedMsg mirror search events from the bus.
type ToolStartedMsg struct {
	Tool  string
	Query string
}

type ToolCompletedMsg struct {
	Tool  string
	Items int
	Err   string
}

// processQueryCmd runs a turn off the UI goroutine. It always yields a
// TurnDoneMsg, including when the turn panics, so the UI never stays busy.
func processQueryCmd(conv Conversation, query string) tea.Cmd {
	return func() (msg tea.Msg) {
		done := TurnDoneMsg{Query: query}
		defer func() {
			if r := recover(); r != nil {
				done.Err = fmt.Errorf("panic: %v", r)
				msg = done
			}
		}()
		done.Response, done.Results, done.Err = conv.ProcessQuery(context.Background(), query)
		return done
	}
}

func streamTickCmd(rate time.Duration) tea.Cmd {
	if rate <= 0 {
		rate = streamTick
	}
	return tea.Tick(rate, func(time.Time) tea.Msg { return StreamTickMsg{} })
}
