package conversation

import (
	"fmt"
	"strings"

	"research-assistant/internal/domain"
)

// buildContext renders every successful, non-empty tool invocation as a
// numbered block the model can read. Repeated searches each get their own
// block.
func buildContext(entries []domain.TranscriptEntry) string {
	var parts []string
	for _, e := range entries {
		inv, ok := e.(domain.ToolInvocation)
		if !ok || inv.Result.Failed() || inv.Result.Empty() {
			continue
		}

		parts = append(parts, fmt.Sprintf("Search results for '%s' using %s:", inv.Query, inv.ToolName))
		for i, item := range inv.Result.Items {
			parts = append(parts, fmt.Sprintf("%d. %s\n   %s\n", i+1, item.Title(), domain.Snippet(item)))
		}
	}
	return strings.Join(parts, "\n")
}
