package message

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/chatterm/chatterm/pkg/api"
)

func TestAnimated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  api.Message
		want bool
	}{
		{
			name: "empty streaming reply",
			msg:  api.Message{Role: api.RoleAssistant, IsStreaming: true},
			want: true,
		},
		{
			name: "streaming with content",
			msg:  api.Message{Role: api.RoleAssistant, Content: "Hi", IsStreaming: true},
			want: false,
		},
		{
			name: "pending tool call",
			msg: api.Message{
				Role:      api.RoleAssistant,
				Content:   "Let me check",
				ToolCalls: []api.ToolCall{{ID: "t1", Status: api.ToolStatusPending}},
			},
			want: true,
		},
		{
			name: "finished message",
			msg: api.Message{
				Role:      api.RoleAssistant,
				Content:   "Done",
				ToolCalls: []api.ToolCall{{ID: "t1", Status: api.ToolStatusSuccess}},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Animated(tt.msg))
		})
	}
}

func TestRenderStreamingPlaceholder(t *testing.T) {
	t.Parallel()

	msg := api.Message{Role: api.RoleAssistant, IsStreaming: true}
	out := Render(msg, 80, "⣾ thinking")

	assert.Equal(t, "⣾ thinking", out)
}

func TestRenderAssistantIncludesToolCalls(t *testing.T) {
	t.Parallel()

	msg := api.Message{
		Role:    api.RoleAssistant,
		Content: "Checking the weather",
		ToolCalls: []api.ToolCall{
			{ID: "t1", Name: "get_weather", Status: api.ToolStatusSuccess},
		},
	}

	out := Render(msg, 80, "")

	assert.Contains(t, ansi.Strip(out), "Checking the weather")
	assert.Contains(t, ansi.Strip(out), "get_weather")
}

func TestRenderUserMessage(t *testing.T) {
	t.Parallel()

	msg := api.Message{Role: api.RoleUser, Content: "hello there"}
	out := Render(msg, 80, "")

	assert.Contains(t, ansi.Strip(out), "hello there")
}
