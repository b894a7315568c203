package conversation

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"research-assistant/internal/domain"
)

func newTestLogger() *slog.Logger { return slog.Default() }

type mockProvider struct {
	name       string
	key        domain.ProviderKey
	searchFunc func(ctx context.Context, query string) domain.ToolResult
}

func (m *mockProvider) Name() string            { return m.name }
func (m *mockProvider) Key() domain.ProviderKey { return m.key }
func (m *mockProvider) Search(ctx context.Context, query string) domain.ToolResult {
	return m.searchFunc(ctx, query)
}

// staticProvider returns the given items for every query.
func staticProvider(items ...domain.ResultItem) *mockProvider {
	return &mockProvider{
		name: "DuckDuckGo Search",
		key:  domain.ProviderWeb,
		searchFunc: func(_ context.Context, q string) domain.ToolResult {
			return domain.ToolResult{ToolName: "DuckDuckGo Search", Query: q, Items: items}
		},
	}
}

type mockLLM struct {
	mu       sync.Mutex
	calls    []llmCall
	generate func(ctx context.Context, prompt, searchContext string) string
}

type llmCall struct {
	prompt  string
	context string
}

func (m *mockLLM) GenerateResponse(ctx context.Context, prompt, searchContext string) string {
	m.mu.Lock()
	m.calls = append(m.calls, llmCall{prompt: prompt, context: searchContext})
	m.mu.Unlock()
	if m.generate != nil {
		return m.generate(ctx, prompt, searchContext)
	}
	return "answer to " + prompt
}

func (m *mockLLM) lastCall() llmCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

type recordingBus struct {
	mu     sync.Mutex
	events []domain.Event
}

func (b *recordingBus) Publish(_ context.Context, e domain.Event) {
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
}
func (b *recordingBus) Subscribe(domain.EventHandler, ...domain.EventType) func() { return func() {} }
func (b *recordingBus) Close()                                                    {}

func (b *recordingBus) types() []domain.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.EventType, len(b.events))
	for i, e := range b.events {
		out[i] = e.Type
	}
	return out
}

func (b *recordingBus) payload(t domain.EventType, out any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.events {
		if e.Type == t {
			_ = json.Unmarshal(e.Payload, out)
			return
		}
	}
}

type fixedModel string

func (f fixedModel) Model() string         { return string(f) }
func (f fixedModel) Models() []string      { return []string{string(f)} }
func (f fixedModel) SetModel(string) error { return nil }

// steppingClock returns times from a list, repeating the last one.
func steppingClock(times ...time.Time) func() time.Time {
	var mu sync.Mutex
	i := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := times[min(i, len(times)-1)]
		i++
		return t
	}
}
