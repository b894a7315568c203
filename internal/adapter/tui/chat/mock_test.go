package chat

import (
	"context"
	"slices"
	"sync"
	"time"

	"research-assistant/internal/domain"
)

// mockConversation records a scripted turn into an in-memory transcript.
type mockConversation struct {
	mu          sync.Mutex
	entries     []domain.TranscriptEntry
	processFunc func(ctx context.Context, query string) (string, map[domain.ProviderKey]domain.ToolResult, error)
	seq         int
}

func (c *mockConversation) ProcessQuery(ctx context.Context, query string) (string, map[domain.ProviderKey]domain.ToolResult, error) {
	return c.processFunc(ctx, query)
}

func (c *mockConversation) Transcript() []domain.TranscriptEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

func (c *mockConversation) append(build func(id string, at time.Time) domain.TranscriptEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.entries = append(c.entries, build(string(rune('A'+c.seq)), time.Now()))
}

// searchingConversation answers every query after a one-item web search.
func searchingConversation(answer string) *mockConversation {
	c := &mockConversation{}
	c.processFunc = func(_ context.Context, query string) (string, map[domain.ProviderKey]domain.ToolResult, error) {
		result := domain.ToolResult{
			ToolName: "DuckDuckGo Search",
			Query:    query,
			Items:    []domain.ResultItem{domain.GenericResult{Name: "Hit", Link: "https://example.com", Summary: "snippet"}},
		}
		c.append(func(id string, at time.Time) domain.TranscriptEntry {
			return domain.UserMessage{ID: id, Content: query, Timestamp: at}
		})
		c.append(func(id string, at time.Time) domain.TranscriptEntry {
			return domain.ToolInvocation{ID: id, ToolName: result.ToolName, Query: query, Result: result, Timestamp: at}
		})
		c.append(func(id string, at time.Time) domain.TranscriptEntry {
			return domain.AssistantMessage{ID: id, Content: answer, Timestamp: at}
		})
		return answer, map[domain.ProviderKey]domain.ToolResult{domain.ProviderWeb: result}, nil
	}
	return c
}

// mockModels is a closed model set.
type mockModels struct {
	current string
	models  []string
}

func (m *mockModels) Model() string    { return m.current }
func (m *mockModels) Models() []string { return slices.Clone(m.models) }

func (m *mockModels) SetModel(id string) error {
	if !slices.Contains(m.models, id) {
		return domain.NewDomainError("Client.SetModel", domain.ErrUnknownModel, id)
	}
	m.current = id
	return nil
}

// recordingBus captures published events and the last subscription.
type recordingBus struct {
	mu      sync.Mutex
	events  []domain.Event
	handler domain.EventHandler
	types   []domain.EventType
}

func (b *recordingBus) Publish(_ context.Context, event domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) Subscribe(handler domain.EventHandler, types ...domain.EventType) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = handler
	b.types = types
	return func() {}
}

func (b *recordingBus) Close() {}
