// Package message renders individual chat messages.
package message

import (
	"strings"

	"github.com/chatterm/chatterm/pkg/api"
	"github.com/chatterm/chatterm/pkg/tui/components/markdown"
	"github.com/chatterm/chatterm/pkg/tui/components/tool"
	"github.com/chatterm/chatterm/pkg/tui/styles"
)

// Render renders one message at the given width. spinnerView is used as
// the placeholder for a streaming reply with no content yet and for
// pending tool calls.
func Render(msg api.Message, width int, spinnerView string) string {
	switch msg.Role {
	case api.RoleUser:
		if rendered, err := markdown.NewRenderer(width - 4).Render(msg.Content); err == nil {
			return styles.UserMessageBorderStyle.Render(strings.TrimRight(rendered, "\n\r\t "))
		}
		return msg.Content
	case api.RoleAssistant:
		return renderAssistant(msg, width, spinnerView)
	default:
		return msg.Content
	}
}

// Animated reports whether the message needs spinner ticks: an empty
// streaming reply or a pending tool call.
func Animated(msg api.Message) bool {
	if msg.IsStreaming && msg.Content == "" {
		return true
	}
	for _, tc := range msg.ToolCalls {
		if tc.Status == api.ToolStatusPending {
			return true
		}
	}
	return false
}

func renderAssistant(msg api.Message, width int, spinnerView string) string {
	var parts []string

	if msg.Content != "" {
		rendered, err := markdown.NewRenderer(width).Render(msg.Content)
		if err != nil {
			parts = append(parts, msg.Content)
		} else {
			parts = append(parts, strings.TrimRight(rendered, "\n\r\t "))
		}
	}

	for _, tc := range msg.ToolCalls {
		parts = append(parts, tool.Render(tc, width, spinnerView))
	}

	if len(parts) == 0 {
		// Streaming placeholder with nothing received yet.
		return spinnerView
	}
	return strings.Join(parts, "\n")
}
