package chat

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-assistant/internal/domain"
)

func toolEvent(t *testing.T, typ domain.EventType, p domain.ToolEventPayload) domain.Event {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return domain.Event{Type: typ, Payload: raw}
}

func TestToolEventMsg(t *testing.T) {
	msg, ok := toolEventMsg(toolEvent(t, domain.EventToolCallStarted, domain.ToolEventPayload{
		Provider: domain.ProviderMovie, Tool: "OMDb Movie Search", Query: "alien",
	}))
	require.True(t, ok)
	assert.Equal(t, ToolStartedMsg{Tool: "OMDb Movie Search", Query: "alien"}, msg)

	msg, ok = toolEventMsg(toolEvent(t, domain.EventToolCallCompleted, domain.ToolEventPayload{
		Provider: domain.ProviderMovie, Tool: "OMDb Movie Search", Items: 3,
	}))
	require.True(t, ok)
	assert.Equal(t, ToolCompletedMsg{Tool: "OMDb Movie Search", Items: 3}, msg)
}

func TestToolEventMsg_FallsBackToProviderKey(t *testing.T) {
	msg, ok := toolEventMsg(toolEvent(t, domain.EventToolCallCompleted, domain.ToolEventPayload{
		Provider: domain.ProviderTrailer, Error: "quota exceeded",
	}))
	require.True(t, ok)
	assert.Equal(t, ToolCompletedMsg{Tool: "trailer", Err: "quota exceeded"}, msg)
}

func TestToolEventMsg_Rejects(t *testing.T) {
	_, ok := toolEventMsg(domain.Event{Type: domain.EventToolCallStarted})
	assert.False(t, ok)

	_, ok = toolEventMsg(domain.Event{Type: domain.EventToolCallStarted, Payload: json.RawMessage(`{`)})
	assert.False(t, ok)

	_, ok = toolEventMsg(toolEvent(t, domain.EventTurnStarted, domain.ToolEventPayload{Tool: "x"}))
	assert.False(t, ok)
}

func TestTUIChannel_StartSubscribesAndStopsOnCancel(t *testing.T) {
	bus := &recordingBus{}
	ch := NewTUIChannel(ChatModelDeps{Conversation: searchingConversation("x")}, nil)
	ch.SetEventBus(bus)
	ch.SetProgramOptions(tea.WithInput(nil), tea.WithOutput(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, ch.Start(ctx))
	assert.ElementsMatch(t,
		[]domain.EventType{domain.EventToolCallStarted, domain.EventToolCallCompleted},
		bus.types)
	assert.NotNil(t, bus.handler)
	assert.NoError(t, ch.Stop(context.Background()))
}

func TestTUIChannel_PublishModelChanged(t *testing.T) {
	bus := &recordingBus{}
	ch := NewTUIChannel(ChatModelDeps{}, nil)
	ch.SetEventBus(bus)

	ch.publishModelChanged(context.Background(), "b", "a")

	require.Len(t, bus.events, 1)
	assert.Equal(t, domain.EventModelChanged, bus.events[0].Type)
	var p domain.ModelEventPayload
	require.NoError(t, json.Unmarshal(bus.events[0].Payload, &p))
	assert.Equal(t, domain.ModelEventPayload{Model: "b", Previous: "a"}, p)
}
