package domain

import "time"

// EntryKind names a TranscriptEntry variant.
type EntryKind string

const (
	EntryUser      EntryKind = "user"
	EntryAssistant EntryKind = "assistant"
	EntryTool      EntryKind = "tool"
)

// TranscriptEntry is one element of a conversation transcript. The concrete
// type is one of UserMessage, AssistantMessage or ToolInvocation.
type TranscriptEntry interface {
	EntryID() string
	Kind() EntryKind
	At() time.Time

	transcriptEntry()
}

// UserMessage is a query typed by the user.
type UserMessage struct {
	ID        string
	Content   string
	Timestamp time.Time
}

func (m UserMessage) EntryID() string { return m.ID }
func (UserMessage) Kind() EntryKind   { return EntryUser }
func (m UserMessage) At() time.Time   { return m.Timestamp }
func (UserMessage) transcriptEntry()  {}

// AssistantMessage is the model's answer for a turn.
type AssistantMessage struct {
	ID        string
	Content   string
	Timestamp time.Time
}

func (m AssistantMessage) EntryID() string { return m.ID }
func (AssistantMessage) Kind() EntryKind   { return EntryAssistant }
func (m AssistantMessage) At() time.Time   { return m.Timestamp }
func (AssistantMessage) transcriptEntry()  {}

// ToolInvocation records one search call and its outcome.
type ToolInvocation struct {
	ID        string
	ToolName  string
	Query     string
	Result    ToolResult
	Timestamp time.Time
}

func (t ToolInvocation) EntryID() string { return t.ID }
func (ToolInvocation) Kind() EntryKind   { return EntryTool }
func (t ToolInvocation) At() time.Time   { return t.Timestamp }
func (ToolInvocation) transcriptEntry()  {}
