package components

import (
	"fmt"
	"strings"

	"research-assistant/internal/adapter/tui/theme"
	"research-assistant/internal/domain"
)

// ToolBlockRuleWidth is the width of the separator framing a search block.
const ToolBlockRuleWidth = 80

// RenderToolBlock formats a recorded search invocation for the transcript view.
// The block is framed by separator rules and lists each item as a numbered
// title, its summary lines and its source link. A failed or empty search
// prints a single "No results" line instead.
func RenderToolBlock(inv domain.ToolInvocation) string {
	rule := theme.ToolHeader.Render(strings.Repeat("─", ToolBlockRuleWidth))

	var sb strings.Builder
	sb.WriteString(rule + "\n")
	sb.WriteString(theme.ToolHeader.Render(fmt.Sprintf("Search Results: '%s' via %s", inv.Query, inv.ToolName)))
	sb.WriteString("\n")

	if inv.Result.Empty() {
		reason := inv.Result.Error
		if reason == "" {
			reason = "No results found"
		}
		sb.WriteString(theme.ToolError.Render("No results: "+reason) + "\n")
	}

	for i, item := range inv.Result.Items {
		sb.WriteString(theme.ToolItem.Render(fmt.Sprintf("%d. %s", i+1, item.Title())) + "\n")
		for _, line := range item.SummaryLines() {
			sb.WriteString(theme.ToolDetail.Render(line) + "\n")
		}
		if link := item.PrimaryLink(); link != "" {
			sb.WriteString(theme.ToolLinkLabel.Render("Source: ") + theme.ToolLink.Render(link) + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(rule)
	return sb.String()
}
