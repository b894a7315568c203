// Package theme holds the colors, styles and glyphs of the terminal UI.
// Colors adapt to light and dark backgrounds; lipgloss drops them entirely
// when NO_COLOR is set or the output is not a terminal.
package theme

import "github.com/charmbracelet/lipgloss"

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// Palette.
var (
	ColorError        = adaptive("#b3261e", "#f2726b")
	ColorInfo         = adaptive("#00639b", "#7cc8f8")
	ColorAccent       = adaptive("#5b3e96", "#c5a8f0")
	ColorLink         = adaptive("#006a60", "#62d6c5")
	ColorMuted        = adaptive("#6f6f6f", "#a0a0a0")
	ColorFaint        = adaptive("#a3a3a3", "#6b6b6b")
	ColorText         = adaptive("#1c1c1c", "#e6e6e6")
	ColorBorder       = adaptive("#c4c4c4", "#5a5a5a")
	ColorBorderActive = adaptive("#00639b", "#7cc8f8")
	ColorPanel        = adaptive("#eeeeee", "#262626")
)

func fg(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

// Text.
var (
	Dim       = lipgloss.NewStyle().Faint(true)
	TextError = fg(ColorError).Bold(true)
	TextInfo  = fg(ColorInfo)
	TextMuted = fg(ColorMuted)
	Timestamp = fg(ColorFaint).Faint(true)
)

// Message headers.
var (
	UserLabel   = fg(ColorInfo).Bold(true)
	BotLabel    = fg(ColorAccent).Bold(true)
	SystemLabel = fg(ColorMuted).Bold(true)
	ErrorLabel  = fg(ColorError).Bold(true)
)

// Status line and editor.
var (
	StatusBar        = fg(ColorFaint).Background(ColorPanel).Padding(0, 1)
	StatusKey        = fg(ColorInfo).Bold(true)
	InputPrompt      = fg(ColorInfo).Bold(true)
	InputPlaceholder = fg(ColorFaint)
)

// Search result blocks.
var (
	ToolHeader    = fg(ColorAccent).Bold(true)
	ToolItem      = fg(ColorText).Bold(true)
	ToolDetail    = fg(ColorMuted)
	ToolLinkLabel = fg(ColorMuted).Italic(true)
	ToolLink      = fg(ColorLink).Underline(true)
	ToolError     = fg(ColorError)
)

// MaxContentWidth caps the width of wrapped message text.
const MaxContentWidth = 100

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int { return max(lo, min(v, hi)) }
