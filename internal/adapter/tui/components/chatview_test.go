package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatView_NotReady(t *testing.T) {
	cv := NewChatView()
	assert.Equal(t, "  Initializing...", cv.View())

	cv.AddMessage(ChatMessage{Role: RoleUser, Content: "early"})
	assert.Equal(t, 1, cv.Len())
}

func TestChatView_AddAndLast(t *testing.T) {
	cv := NewChatView()
	cv.SetSize(100, 20)

	_, ok := cv.Last()
	assert.False(t, ok)

	cv.AddMessage(ChatMessage{Role: RoleUser, Content: "hello"})
	cv.AddMessage(ChatMessage{Role: RoleAssistant})
	cv.UpdateLastMessage("partial")

	last, ok := cv.Last()
	require.True(t, ok)
	assert.Equal(t, RoleAssistant, last.Role)
	assert.Equal(t, "partial", last.Content)
	assert.Contains(t, cv.View(), "hello")
}

func TestChatView_ClaimPending(t *testing.T) {
	cv := NewChatView()
	cv.AddMessage(ChatMessage{Role: RoleUser, Content: "same"})
	cv.AddMessage(ChatMessage{Role: RoleUser, Content: "same "})

	assert.True(t, cv.ClaimPending(RoleUser, "same", "01A"))
	assert.Equal(t, "01A", cv.Messages()[1].EntryID)
	assert.Empty(t, cv.Messages()[0].EntryID)

	assert.True(t, cv.ClaimPending(RoleUser, "same", "01B"))
	assert.Equal(t, "01B", cv.Messages()[0].EntryID)

	assert.False(t, cv.ClaimPending(RoleUser, "same", "01C"))
	assert.False(t, cv.ClaimPending(RoleAssistant, "other", "01D"))
}

func TestChatView_Clear(t *testing.T) {
	cv := NewChatView()
	cv.SetSize(80, 10)
	cv.AddMessage(ChatMessage{Role: RoleSystem, Content: "x"})
	cv.Clear()

	assert.Zero(t, cv.Len())
	assert.Contains(t, cv.View(), "Nothing here yet")
}

func TestChatView_FollowsOutputUntilScrolledUp(t *testing.T) {
	cv := NewChatView()
	cv.SetSize(80, 4)
	for i := 0; i < 20; i++ {
		cv.AddMessage(ChatMessage{Role: RoleSystem, Content: "line"})
	}
	assert.True(t, cv.Viewport.AtBottom())

	cv.Viewport.GotoTop()
	cv, _ = cv.Update(nil)
	cv.AddMessage(ChatMessage{Role: RoleSystem, Content: "more"})
	assert.True(t, cv.Viewport.AtTop(), "scrolled-up pane stays put")

	cv.Clear()
	cv.AddMessage(ChatMessage{Role: RoleSystem, Content: "fresh"})
	assert.True(t, cv.Viewport.AtBottom())
}
