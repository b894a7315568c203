package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"research-assistant/internal/domain"
)

func TestRenderToolBlock_Items(t *testing.T) {
	inv := domain.ToolInvocation{
		ToolName: "DuckDuckGo Search",
		Query:    "go generics",
		Result: domain.ToolResult{
			ToolName: "DuckDuckGo Search",
			Query:    "go generics",
			Items: []domain.ResultItem{
				domain.GenericResult{Name: "Tutorial", Link: "https://go.dev/doc/tutorial/generics", Summary: "Getting started with generics."},
				domain.GenericResult{Name: "No link"},
			},
		},
	}

	out := RenderToolBlock(inv)
	lines := strings.Split(out, "\n")
	rule := strings.Repeat("─", ToolBlockRuleWidth)

	assert.Equal(t, rule, lines[0])
	assert.Equal(t, "Search Results: 'go generics' via DuckDuckGo Search", lines[1])
	assert.Equal(t, "1. Tutorial", lines[2])
	assert.Equal(t, "Getting started with generics.", lines[3])
	assert.Equal(t, "Source: https://go.dev/doc/tutorial/generics", lines[4])
	assert.Equal(t, "", lines[5])
	assert.Equal(t, "2. No link", lines[6])
	assert.Equal(t, "", lines[7])
	assert.Equal(t, rule, lines[len(lines)-1])
	assert.NotContains(t, out, "No results")
}

func TestRenderToolBlock_MovieLines(t *testing.T) {
	inv := domain.ToolInvocation{
		ToolName: "OMDb Movie Search",
		Query:    "inception",
		Result: domain.ToolResult{Items: []domain.ResultItem{
			domain.MovieSummary{Name: "Inception", Year: "2010", Director: "Christopher Nolan", IMDbID: "tt1375666"},
		}},
	}

	out := RenderToolBlock(inv)
	assert.Contains(t, out, "1. Inception (2010)\nDirector: Christopher Nolan\nSource: https://www.imdb.com/title/tt1375666/\n")
}

func TestRenderToolBlock_Failed(t *testing.T) {
	inv := domain.ToolInvocation{
		ToolName: "YouTube Trailer Search",
		Query:    "dune",
		Result:   domain.ToolResult{Error: "search: HTTP 403: quota exceeded"},
	}

	out := RenderToolBlock(inv)
	assert.Contains(t, out, "No results: search: HTTP 403: quota exceeded\n")
}

func TestRenderToolBlock_Empty(t *testing.T) {
	inv := domain.ToolInvocation{ToolName: "SearXNG Search", Query: "zzzz"}

	out := RenderToolBlock(inv)
	assert.Contains(t, out, "No results: No results found\n")
	assert.Equal(t, 2, strings.Count(out, strings.Repeat("─", ToolBlockRuleWidth)))
}
