package domain

import (
	"context"
	"time"
)

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat completion exchange.
type Message struct {
	Role    string
	Content string
}

// ChatRequest asks a provider for a completion. Zero MaxTokens and
// Temperature leave the provider defaults in place.
type ChatRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// ChatResponse is a finished completion.
type ChatResponse struct {
	ID           string
	Model        string
	Message      Message
	FinishReason string
	Usage        Usage
	Created      time.Time
}

// Usage counts the tokens a completion consumed.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// LLMProvider is a chat completion backend.
type LLMProvider interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Name() string
}

// ResponseGenerator turns a prompt and optional search context into answer text.
// Implementations never fail: errors are rendered into the returned string.
type ResponseGenerator interface {
	GenerateResponse(ctx context.Context, prompt, context string) string
}

// ModelSelector exposes the closed set of models a generator can switch between.
type ModelSelector interface {
	Model() string
	Models() []string
	SetModel(id string) error
}
