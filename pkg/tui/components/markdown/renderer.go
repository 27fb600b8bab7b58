package markdown

import (
	"charm.land/glamour/v2"
)

// NewRenderer returns a terminal markdown renderer wrapped to width.
// Very wide terminals are capped at 120 columns for readability.
func NewRenderer(width int) *glamour.TermRenderer {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(min(width, 120)),
	)
	return r
}
