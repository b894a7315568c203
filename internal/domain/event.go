package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// EventType identifies the kind of event being published.
type EventType string

const (
	EventTurnStarted       EventType = "turn.started"
	EventTurnCompleted     EventType = "turn.completed"
	EventToolCallStarted   EventType = "tool.call.started"
	EventToolCallCompleted EventType = "tool.call.completed"
	EventLLMCallStarted    EventType = "llm.call.started"
	EventLLMCallCompleted  EventType = "llm.call.completed"
	EventModelChanged      EventType = "model.changed"
)

// Event is the envelope published on the event bus.
type Event struct {
	Type           EventType       `json:"type"`
	Timestamp      time.Time       `json:"timestamp"`
	ConversationID string          `json:"conversation_id,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// NewEvent stamps an event with the current time and the conversation ID
// carried by ctx. A payload that cannot be marshaled is left empty.
func NewEvent(ctx context.Context, typ EventType, payload any) Event {
	e := Event{
		Type:           typ,
		Timestamp:      time.Now(),
		ConversationID: ConversationIDFromContext(ctx),
	}
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			e.Payload = data
		}
	}
	return e
}

// ErrNoPayload is returned by Decode for events published without a payload.
var ErrNoPayload = errors.New("event has no payload")

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return ErrNoPayload
	}
	return json.Unmarshal(e.Payload, v)
}

// ToolEventPayload accompanies tool.call.* events.
type ToolEventPayload struct {
	Provider ProviderKey `json:"provider"`
	Tool     string      `json:"tool"`
	Query    string      `json:"query"`
	Items    int         `json:"items"`
	Error    string      `json:"error,omitempty"`
}

// TurnEventPayload accompanies turn.* and llm.call.* events.
type TurnEventPayload struct {
	Query      string `json:"query"`
	Model      string `json:"model,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// ModelEventPayload accompanies model.changed events.
type ModelEventPayload struct {
	Model    string `json:"model"`
	Previous string `json:"previous,omitempty"`
}

// EventHandler is a callback invoked when an event is received.
type EventHandler func(ctx context.Context, event Event)

// EventBus provides a publish/subscribe mechanism for domain events.
type EventBus interface {
	// Publish sends an event to all matching subscribers.
	Publish(ctx context.Context, event Event)
	// Subscribe registers a handler for the given event types, or for every
	// event when no types are given. Returns an unsubscribe function.
	Subscribe(handler EventHandler, types ...EventType) func()
	// Close drains queued events and prevents new publishes.
	Close()
}
