// Package tool renders assistant tool calls as compact status cards.
package tool

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/chatterm/chatterm/pkg/api"
	"github.com/chatterm/chatterm/pkg/tui/styles"
)

// maxResultLines bounds how much of a tool result is shown inline.
const maxResultLines = 10

// Render renders one tool call at the given width. spinnerView is shown
// after the name while the call is still pending.
func Render(tc api.ToolCall, width int, spinnerView string) string {
	content := fmt.Sprintf("%s %s", icon(tc.Status), styles.HighlightStyle.Render(tc.Name))

	if args := formatArguments(tc.Arguments); args != "" {
		content += " " + styles.MutedStyle.Render(args)
	}

	if tc.Status == api.ToolStatusPending {
		content += " " + spinnerView
	} else if tc.Duration > 0 {
		content += " " + styles.MutedStyle.Render(fmt.Sprintf("(%.1fs)", tc.Duration))
	}

	if result := formatResult(tc, width); result != "" {
		content += "\n" + result
	}

	return styles.BaseStyle.PaddingLeft(2).PaddingTop(1).Render(content)
}

func icon(status api.ToolStatus) string {
	switch status {
	case api.ToolStatusPending:
		return "⊙"
	case api.ToolStatusSuccess:
		return styles.SuccessStyle.Render("✓")
	case api.ToolStatusError:
		return styles.ErrorStyle.Render("✗")
	default:
		return styles.WarningStyle.Render("?")
	}
}

// formatArguments flattens the argument object to a single "k=v" line.
func formatArguments(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return string(raw)
	}

	keys := slices.Sorted(maps.Keys(args))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return strings.Join(parts, " ")
}

// formatResult renders a completed call's result, truncated to
// maxResultLines wrapped lines.
func formatResult(tc api.ToolCall, width int) string {
	if tc.Status != api.ToolStatusSuccess && tc.Status != api.ToolStatusError {
		return ""
	}
	if len(tc.Result) == 0 {
		return ""
	}

	text := resultText(tc.Result)
	if text == "" {
		return ""
	}

	availableWidth := max(width-4, 10)
	lines := wrapLines(text, availableWidth)
	if len(lines) > maxResultLines {
		lines = append(lines[:maxResultLines], "... (output truncated)")
	}

	return styles.ToolCallResultStyle.Render(strings.Join(lines, "\n"))
}

// resultText unwraps a JSON string result; anything else is shown as
// raw JSON.
func resultText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}

func wrapLines(content string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	for line := range strings.SplitSeq(content, "\n") {
		for len(line) > width {
			lines = append(lines, line[:width])
			line = line[width:]
		}
		lines = append(lines, line)
	}
	return lines
}
