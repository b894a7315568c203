package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCommands() []CommandDef {
	return []CommandDef{
		{Name: "/help", Description: "Show available commands"},
		{Name: "/model", Usage: "/model <id>", Description: "Switch the language model",
			Args: []string{"llama3-70b-8192", "llama3-8b-8192", "mixtral-8x7b-32768", "gemma-7b-it"}},
		{Name: "/models", Description: "List available models"},
		{Name: "/quit", Description: "Exit"},
	}
}

func labels(s []Suggestion) []string {
	out := make([]string, len(s))
	for i := range s {
		out[i] = s[i].Label
	}
	return out
}

func TestAutocomplete_CommandPrefix(t *testing.T) {
	ac := NewAutocomplete(testCommands())
	ac.Update("/mo")

	assert.True(t, ac.Visible)
	assert.Equal(t, []string{"/model <id>", "/models"}, labels(ac.Suggestions))
	assert.Equal(t, 4, ac.Height())

	ac.Update("/zz")
	assert.False(t, ac.Visible)
	assert.Zero(t, ac.Height())

	ac.Update("plain question")
	assert.False(t, ac.Visible)
}

func TestAutocomplete_ArgumentCompletion(t *testing.T) {
	ac := NewAutocomplete(testCommands())

	ac.Update("/model ")
	assert.Len(t, ac.Suggestions, 4)

	ac.Update("/model LLAMA3")
	assert.Equal(t, []string{"llama3-70b-8192", "llama3-8b-8192"}, labels(ac.Suggestions))
	assert.Equal(t, "/model llama3-70b-8192", ac.Suggestions[0].Text)

	ac.Update("/model gemma-7b-it")
	assert.False(t, ac.Visible, "a complete argument needs no suggestion")

	ac.Update("/help me")
	assert.False(t, ac.Visible, "commands without arguments offer nothing")

	ac.Update("/model a b")
	assert.False(t, ac.Visible)
}

func TestAutocomplete_SetArgs(t *testing.T) {
	ac := NewAutocomplete(testCommands())
	ac.SetArgs("/model", []string{"only-one"})

	ac.Update("/model o")
	assert.Equal(t, []string{"only-one"}, labels(ac.Suggestions))
}

func TestAutocomplete_NavigationAndAccept(t *testing.T) {
	ac := NewAutocomplete(testCommands())
	ac.Update("/")

	ac.SelectPrev()
	assert.Equal(t, 3, ac.Selected)
	ac.SelectNext()
	assert.Equal(t, 0, ac.Selected)
	ac.SelectNext()

	assert.Equal(t, "/model ", ac.Accept())
	assert.False(t, ac.Visible)
	assert.Empty(t, ac.Accept())
}

func TestAutocomplete_ViewKeepsSelectionVisible(t *testing.T) {
	cmds := []CommandDef{{Name: "/model", Args: []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8"}}}
	ac := NewAutocomplete(cmds)
	ac.SetWidth(80)
	ac.Update("/model a")
	require.Len(t, ac.Suggestions, 8)

	ac.Selected = 7
	out := ac.View()
	assert.Contains(t, out, "a8")
	assert.NotContains(t, out, "a1")
	assert.Equal(t, 8, ac.Height())
}

func TestAutocomplete_ViewShowsUsageAndDetail(t *testing.T) {
	ac := NewAutocomplete(testCommands())
	ac.SetWidth(80)
	ac.Update("/model")

	out := ac.View()
	assert.Contains(t, out, "/model <id>")
	assert.Contains(t, out, "List available models")
}
