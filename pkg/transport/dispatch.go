package transport

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/chatterm/chatterm/pkg/api"
	"github.com/chatterm/chatterm/pkg/store"
)

// frameHandlers maps inbound frame types to their effect on the store.
// Unknown types are ignored. user_message echoes and partial_response
// frames carry nothing the optimistic send and token_stream have not
// already applied.
var frameHandlers = map[string]func(*Client, api.Frame){
	api.FrameUserMessage:       func(*Client, api.Frame) {},
	api.FramePartialResponse:   func(*Client, api.Frame) {},
	api.FrameTokenStream:       (*Client).handleTokenStream,
	api.FrameAssistantResponse: (*Client).handleAssistantResponse,
	api.FrameToolCallStart:     (*Client).handleToolCallStart,
	api.FrameToolCallResult:    (*Client).handleToolCallResult,
	api.FrameResponseComplete:  (*Client).handleResponseComplete,
	api.FrameError:             (*Client).handleError,
}

func (c *Client) dispatch(frame api.Frame) {
	handler, ok := frameHandlers[frame.Type]
	if !ok {
		slog.Debug("Ignoring unknown frame type", "type", frame.Type)
		return
	}
	handler(c, frame)
}

// handleTokenStream appends a content chunk to the streaming assistant
// message. No-op if there is none.
func (c *Client) handleTokenStream(frame api.Frame) {
	m, ok := c.store.StreamingMessage()
	if !ok {
		return
	}
	content := m.Content + frame.Content
	c.store.UpdateMessage(m.ID, store.MessagePatch{Content: &content})
}

// handleAssistantResponse finalizes the streaming placeholder with the
// complete response, or appends a fresh assistant message if the
// placeholder is gone.
func (c *Client) handleAssistantResponse(frame api.Frame) {
	if m, ok := c.store.StreamingMessage(); ok {
		content := frame.Content
		streaming := false
		patch := store.MessagePatch{Content: &content, IsStreaming: &streaming}
		if frame.ToolCalls != nil {
			toolCalls := frame.ToolCalls
			patch.ToolCalls = &toolCalls
		}
		c.store.UpdateMessage(m.ID, patch)
	} else {
		c.store.AddMessage(api.Message{
			ID:        uuid.NewString(),
			Role:      api.RoleAssistant,
			Content:   frame.Content,
			Timestamp: frame.Timestamp,
			ToolCalls: frame.ToolCalls,
		})
	}
	c.store.SetLoading(false)
}

// handleToolCallStart attaches a pending tool call to the streaming
// assistant message. No-op without one.
func (c *Client) handleToolCallStart(frame api.Frame) {
	if frame.ToolCall == nil {
		return
	}
	m, ok := c.store.StreamingMessage()
	if !ok {
		return
	}

	tc := *frame.ToolCall
	if tc.Status == "" {
		tc.Status = api.ToolStatusPending
	}
	c.store.AddToolCall(m.ID, tc)
}

// handleToolCallResult updates the matching tool call on the streaming
// assistant message with its final status and result.
func (c *Client) handleToolCallResult(frame api.Frame) {
	if frame.ToolCall == nil {
		return
	}
	m, ok := c.store.StreamingMessage()
	if !ok {
		return
	}

	var patch store.ToolCallPatch
	if frame.ToolCall.Status != "" {
		status := frame.ToolCall.Status
		patch.Status = &status
	}
	if frame.ToolCall.Result != nil {
		result := []byte(frame.ToolCall.Result)
		patch.Result = &result
	}
	if frame.ToolCall.Duration != 0 {
		duration := frame.ToolCall.Duration
		patch.Duration = &duration
	}
	c.store.UpdateToolCall(m.ID, frame.ToolCall.ID, patch)
}

func (c *Client) handleResponseComplete(api.Frame) {
	c.store.SetLoading(false)
}

func (c *Client) handleError(frame api.Frame) {
	slog.Error("Server reported an error", "message", frame.Message)
	c.store.SetLoading(false)
	c.emit(Event{Type: EventServerError, Message: frame.Message})
}
