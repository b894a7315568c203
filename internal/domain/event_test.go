package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	ctx := ContextWithConversationID(context.Background(), "01HZXK")

	e := NewEvent(ctx, EventToolCallCompleted, ToolEventPayload{Provider: ProviderMovie, Tool: "OMDb", Items: 2})
	assert.Equal(t, EventToolCallCompleted, e.Type)
	assert.Equal(t, "01HZXK", e.ConversationID)
	assert.False(t, e.Timestamp.IsZero())

	var p ToolEventPayload
	require.NoError(t, e.Decode(&p))
	assert.Equal(t, "OMDb", p.Tool)
	assert.Equal(t, 2, p.Items)
}

func TestNewEvent_NoPayload(t *testing.T) {
	e := NewEvent(context.Background(), EventTurnStarted, nil)
	assert.Empty(t, e.ConversationID)
	assert.Empty(t, e.Payload)

	var p TurnEventPayload
	assert.ErrorIs(t, e.Decode(&p), ErrNoPayload)
}

func TestConversationIDFromContext_Unset(t *testing.T) {
	assert.Equal(t, "", ConversationIDFromContext(context.Background()))
}
