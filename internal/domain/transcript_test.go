package domain

import (
	"testing"
	"time"
)

func TestTranscriptEntryKinds(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []TranscriptEntry{
		UserMessage{ID: "u1", Content: "hi", Timestamp: now},
		ToolInvocation{ID: "t1", ToolName: "DuckDuckGo Search", Query: "hi", Timestamp: now},
		AssistantMessage{ID: "a1", Content: "hello", Timestamp: now},
	}
	want := []EntryKind{EntryUser, EntryTool, EntryAssistant}

	for i, e := range entries {
		if e.Kind() != want[i] {
			t.Errorf("entry %d kind = %q, want %q", i, e.Kind(), want[i])
		}
		if !e.At().Equal(now) {
			t.Errorf("entry %d At() = %v, want %v", i, e.At(), now)
		}
		if e.EntryID() == "" {
			t.Errorf("entry %d has empty ID", i)
		}
	}
}
