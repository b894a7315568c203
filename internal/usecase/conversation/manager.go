// Package conversation runs research turns and owns the in-memory transcript.
package conversation

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"

	"research-assistant/internal/domain"
	"research-assistant/internal/infra/tracer"
)

// Deps holds the collaborators of a Manager.
type Deps struct {
	Provider domain.SearchProvider    // optional, nil = no search
	LLM      domain.ResponseGenerator // required
	Models   domain.ModelSelector     // optional, used to label events
	Bus      domain.EventBus          // optional, nil = no events
	Logger   *slog.Logger
	Now      func() time.Time // optional, defaults to time.Now
}

// Manager owns the transcript and drives one turn at a time:
// record the query, search, build context, generate, record the answer.
type Manager struct {
	deps Deps
	id   string
	gate *TurnGate

	mu         sync.RWMutex
	transcript []domain.TranscriptEntry
	last       time.Time
	entropy    *ulid.MonotonicEntropy
}

// NewManager creates a manager with an empty transcript.
func NewManager(deps Deps) *Manager {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	now := deps.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)

	return &Manager{
		deps:    deps,
		id:      ulid.MustNew(ulid.Timestamp(now), entropy).String(),
		gate:    NewTurnGate(),
		entropy: entropy,
	}
}

// ID returns the conversation identifier attached to events and spans.
func (m *Manager) ID() string { return m.id }

// Provider returns the default search provider, or nil when search is off.
func (m *Manager) Provider() domain.SearchProvider { return m.deps.Provider }

// Busy reports whether a turn is in flight.
func (m *Manager) Busy() bool { return m.gate.Busy() }

// RecordUserMessage appends a user message to the transcript.
func (m *Manager) RecordUserMessage(content string) domain.UserMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ts := m.nextStamp()
	msg := domain.UserMessage{ID: id, Content: content, Timestamp: ts}
	m.transcript = append(m.transcript, msg)
	return msg
}

// RecordToolInvocation appends a search call and its result verbatim,
// including failed and empty results.
func (m *Manager) RecordToolInvocation(toolName, query string, result domain.ToolResult) domain.ToolInvocation {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ts := m.nextStamp()
	inv := domain.ToolInvocation{ID: id, ToolName: toolName, Query: query, Result: result, Timestamp: ts}
	m.transcript = append(m.transcript, inv)
	return inv
}

func (m *Manager) recordAssistantMessage(content string) domain.AssistantMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ts := m.nextStamp()
	msg := domain.AssistantMessage{ID: id, Content: content, Timestamp: ts}
	m.transcript = append(m.transcript, msg)
	return msg
}

// nextStamp returns a fresh entry ID and a timestamp no earlier than the
// previous entry's. Callers hold m.mu.
func (m *Manager) nextStamp() (string, time.Time) {
	ts := m.deps.Now()
	if ts.Before(m.last) {
		ts = m.last
	}
	m.last = ts
	return ulid.MustNew(ulid.Timestamp(ts), m.entropy).String(), ts
}

// Transcript returns a copy of the transcript in insertion order.
func (m *Manager) Transcript() []domain.TranscriptEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.TranscriptEntry, len(m.transcript))
	copy(out, m.transcript)
	return out
}

// BuildContext renders the search results gathered so far as the context
// block sent with each prompt. It does not modify the transcript.
func (m *Manager) BuildContext() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return buildContext(m.transcript)
}

// ProcessQuery runs one turn. The returned map holds the search result under
// the provider's key, and is empty when no provider is configured.
//
// It fails only for a blank query or when another turn is in flight; search
// and model failures are reported inside the results and the response text.
func (m *Manager) ProcessQuery(ctx context.Context, query string) (string, map[domain.ProviderKey]domain.ToolResult, error) {
	if err := validateQuery("Manager.ProcessQuery", query); err != nil {
		return "", nil, err
	}
	release, err := m.gate.TryAcquire()
	if err != nil {
		m.deps.Logger.InfoContext(ctx, "turn rejected", "reason", "turn in flight")
		return "", nil, domain.NewDomainError("Manager.ProcessQuery", err, "")
	}
	defer release()
	return m.runTurn(ctx, query)
}

// ProcessQueryWait is ProcessQuery for callers that queue behind a running
// turn instead of being rejected. It fails with ctx's error if ctx is done
// before the turn starts.
func (m *Manager) ProcessQueryWait(ctx context.Context, query string) (string, map[domain.ProviderKey]domain.ToolResult, error) {
	if err := validateQuery("Manager.ProcessQueryWait", query); err != nil {
		return "", nil, err
	}
	release, err := m.gate.Acquire(ctx)
	if err != nil {
		return "", nil, domain.NewDomainError("Manager.ProcessQueryWait", err, "waiting for the previous turn")
	}
	defer release()
	return m.runTurn(ctx, query)
}

func validateQuery(op, query string) error {
	if strings.TrimSpace(query) == "" {
		return domain.NewDomainError(op, domain.ErrInvalidInput, "query must not be empty")
	}
	return nil
}

// runTurn executes steps of a turn while the caller holds the gate.
func (m *Manager) runTurn(ctx context.Context, query string) (string, map[domain.ProviderKey]domain.ToolResult, error) {
	ctx = domain.ContextWithConversationID(ctx, m.id)
	ctx, span := tracer.StartSpan(ctx, "turn.process",
		trace.WithAttributes(
			tracer.StringAttr("conversation.id", m.id),
			tracer.IntAttr("turn.query_length", len(query)),
			tracer.BoolAttr("turn.search", m.deps.Provider != nil),
		),
	)
	defer span.End()

	start := time.Now()
	model := m.model()
	m.publish(ctx, domain.EventTurnStarted, domain.TurnEventPayload{Query: query, Model: model})
	m.deps.Logger.InfoContext(ctx, "turn started", "model", model)

	m.RecordUserMessage(query)

	results := make(map[domain.ProviderKey]domain.ToolResult, 1)
	if p := m.deps.Provider; p != nil {
		results[p.Key()] = m.search(ctx, p, query)
	}

	searchContext := m.BuildContext()
	span.SetAttributes(tracer.IntAttr("turn.context_length", len(searchContext)))

	m.publish(ctx, domain.EventLLMCallStarted, domain.TurnEventPayload{Query: query, Model: model})
	llmStart := time.Now()
	response := m.deps.LLM.GenerateResponse(ctx, query, searchContext)
	m.publish(ctx, domain.EventLLMCallCompleted, domain.TurnEventPayload{
		Query:      query,
		Model:      model,
		DurationMs: time.Since(llmStart).Milliseconds(),
	})

	m.recordAssistantMessage(response)

	elapsed := time.Since(start)
	tracer.SetOK(span)
	m.publish(ctx, domain.EventTurnCompleted, domain.TurnEventPayload{
		Query:      query,
		Model:      model,
		DurationMs: elapsed.Milliseconds(),
	})
	m.deps.Logger.InfoContext(ctx, "turn completed",
		"model", model,
		"searched", len(results) > 0,
		"duration", elapsed,
	)

	return response, results, nil
}

func (m *Manager) search(ctx context.Context, p domain.SearchProvider, query string) domain.ToolResult {
	m.publish(ctx, domain.EventToolCallStarted, domain.ToolEventPayload{
		Provider: p.Key(),
		Tool:     p.Name(),
		Query:    query,
	})

	result := p.Search(ctx, query)
	m.RecordToolInvocation(p.Name(), query, result)

	m.publish(ctx, domain.EventToolCallCompleted, domain.ToolEventPayload{
		Provider: p.Key(),
		Tool:     p.Name(),
		Query:    query,
		Items:    len(result.Items),
		Error:    result.Error,
	})
	if result.Failed() {
		m.deps.Logger.WarnContext(ctx, "search returned an error", "tool", p.Name(), "error", result.Error)
	}
	return result
}

func (m *Manager) model() string {
	if m.deps.Models == nil {
		return ""
	}
	return m.deps.Models.Model()
}

// publish emits an event on the bus. If the bus is nil, this is a no-op.
func (m *Manager) publish(ctx context.Context, eventType domain.EventType, payload any) {
	if m.deps.Bus == nil {
		return
	}
	m.deps.Bus.Publish(ctx, domain.NewEvent(ctx, eventType, payload))
}
