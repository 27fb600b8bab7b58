// Package api defines the wire types shared between the chatterm client
// and the chat backend, for both the REST endpoints and the websocket
// chat stream.
package api

import "encoding/json"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolStatus is the lifecycle state of a tool call.
type ToolStatus string

const (
	ToolStatusPending ToolStatus = "pending"
	ToolStatusSuccess ToolStatus = "success"
	ToolStatusError   ToolStatus = "error"
)

// ToolCall is a single tool invocation made by the assistant while
// producing a response.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Status    ToolStatus      `json:"status"`
	Result    json.RawMessage `json:"result,omitempty"`
	// Duration is the tool execution time in seconds, set with the result.
	Duration float64 `json:"duration,omitempty"`
}

// Message is a single chat message. IsStreaming is client-side only and
// marks an assistant message still being appended to.
type Message struct {
	ID          string     `json:"id"`
	Role        Role       `json:"role"`
	Content     string     `json:"content"`
	Timestamp   string     `json:"timestamp"`
	ToolCalls   []ToolCall `json:"tool_calls,omitempty"`
	IsStreaming bool       `json:"-"`
}

// SessionInfo is the session summary returned by the sessions endpoints.
type SessionInfo struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CreatedAt     string `json:"created_at"`
	LastMessageAt string `json:"last_message_at"`
}

// Frame type values sent by the server over the websocket.
const (
	FrameUserMessage       = "user_message"
	FrameAssistantResponse = "assistant_response"
	FramePartialResponse   = "partial_response"
	FrameTokenStream       = "token_stream"
	FrameToolCallStart     = "tool_call_start"
	FrameToolCallResult    = "tool_call_result"
	FrameResponseComplete  = "response_complete"
	FrameError             = "error"
)

// Frame is a single server-to-client websocket message. Which fields
// are set depends on Type.
type Frame struct {
	Type      string     `json:"type"`
	Content   string     `json:"content,omitempty"`
	ToolCall  *ToolCall  `json:"tool_call,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	Message   string     `json:"message,omitempty"`
	Timestamp string     `json:"timestamp,omitempty"`
}

// Outbound is the client-to-server websocket message.
type Outbound struct {
	Message string `json:"message"`
}

// SessionsResponse is the body of GET /api/sessions.
type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

// CreateSessionResponse is the body of POST /api/sessions.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// MessagesResponse is the body of GET /api/sessions/{id}/messages.
type MessagesResponse struct {
	Messages []Message `json:"messages"`
}
