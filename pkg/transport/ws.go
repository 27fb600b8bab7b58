package transport

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/chatterm/chatterm/pkg/api"
)

// Connect opens a websocket for the given session. It is a no-op when a
// connection is already open. Dialing happens on a background goroutine;
// the store's connected flag reports the outcome.
func (c *Client) Connect(sessionID string) {
	c.mu.Lock()
	if c.state == stateOpen {
		c.mu.Unlock()
		return
	}
	c.cancelReconnectLocked()
	c.closing = false
	c.sessionID = sessionID
	c.state = stateConnecting
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	go c.dial(sessionID, gen)
}

// Disconnect cancels any pending reconnect, closes the live connection
// if present, and clears the handle. Safe to call repeatedly and when
// never connected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.closing = true
	c.gen++
	c.cancelReconnectLocked()
	conn := c.conn
	c.conn = nil
	wasOpen := c.state == stateOpen
	c.state = stateDisconnected
	c.attempts = 0
	c.mu.Unlock()

	if conn != nil {
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = conn.Close()
	}
	if wasOpen {
		c.store.SetConnected(false)
	}
}

// SendMessage transmits text over the open connection. The user message
// and a streaming assistant placeholder are added to the store before
// the reply arrives, so rendering starts immediately.
func (c *Client) SendMessage(text string) error {
	c.mu.Lock()
	conn := c.conn
	sessionID := c.sessionID
	open := c.state == stateOpen
	c.mu.Unlock()

	if !open || conn == nil {
		return ErrNotConnected
	}

	now := time.Now().Format(time.RFC3339)
	c.store.AddMessage(api.Message{
		ID:        uuid.NewString(),
		Role:      api.RoleUser,
		Content:   text,
		Timestamp: now,
	})
	c.store.SetLoading(true)
	c.store.UpdateSessionLastMessage(sessionID)

	c.writeMu.Lock()
	err := conn.WriteJSON(api.Outbound{Message: text})
	c.writeMu.Unlock()
	if err != nil {
		slog.Error("Failed to send message", "session_id", sessionID, "error", err)
		c.store.SetLoading(false)
		return err
	}

	c.store.AddMessage(api.Message{
		ID:          uuid.NewString(),
		Role:        api.RoleAssistant,
		Timestamp:   now,
		ToolCalls:   []api.ToolCall{},
		IsStreaming: true,
	})
	return nil
}

func (c *Client) dial(sessionID string, gen int) {
	wsURL := c.wsURL(sessionID)
	conn, resp, err := c.dialer.Dial(wsURL, nil)
	if resp != nil {
		resp.Body.Close()
	}

	c.mu.Lock()
	if c.gen != gen || c.closing {
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		slog.Error("Websocket dial failed", "url", wsURL, "error", err)
		c.state = stateDisconnected
		c.scheduleReconnectLocked()
		c.mu.Unlock()
		return
	}
	c.conn = conn
	c.state = stateOpen
	c.attempts = 0
	c.mu.Unlock()

	c.store.SetConnected(true)
	go c.readLoop(conn, gen)
}

func (c *Client) readLoop(conn *websocket.Conn, gen int) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Error("Websocket closed unexpectedly", "error", err)
			}
			break
		}

		var frame api.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			slog.Error("Malformed frame", "error", err)
			continue
		}
		c.dispatch(frame)
	}

	c.mu.Lock()
	if c.gen != gen || c.closing {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.state = stateDisconnected
	c.scheduleReconnectLocked()
	c.mu.Unlock()

	c.store.SetConnected(false)
}

// scheduleReconnectLocked arms the reconnect timer with exponential
// backoff. After maxReconnects attempts it gives up and reports
// EventConnectionLost. Callers hold c.mu.
func (c *Client) scheduleReconnectLocked() {
	if c.attempts >= c.maxReconnects {
		slog.Warn("Reconnect attempts exhausted", "session_id", c.sessionID, "attempts", c.attempts)
		go c.emit(Event{Type: EventConnectionLost, Message: "connection lost"})
		return
	}

	c.attempts++
	sessionID := c.sessionID
	c.reconnect = c.afterFunc(backoffDelay(c.attempts), func() {
		c.mu.Lock()
		c.reconnect = nil
		c.mu.Unlock()
		c.Connect(sessionID)
	})
}

func (c *Client) cancelReconnectLocked() {
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
}

// backoffDelay returns min(1000 * 2^attempt, 30000) milliseconds.
func backoffDelay(attempt int) time.Duration {
	ms := 1000 * (1 << attempt)
	if ms > 30000 {
		ms = 30000
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) wsURL(sessionID string) string {
	u := c.baseURL.JoinPath("ws", "chat", sessionID)
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	return u.String()
}
