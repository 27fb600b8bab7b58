// Package messages defines the Bubble Tea messages exchanged between the
// application root and its components.
package messages

import (
	"github.com/chatterm/chatterm/pkg/api"
	"github.com/chatterm/chatterm/pkg/transport"
)

// StoreChangedMsg signals that the shared store mutated and views should
// re-read their state from it.
type StoreChangedMsg struct{}

// TransportEventMsg wraps a transport notification for the UI.
type TransportEventMsg struct {
	Event transport.Event
}

// SessionsLoadedMsg carries the result of the initial session fetch.
type SessionsLoadedMsg struct {
	Sessions []api.SessionInfo
	Err      error
}

// HistoryLoadedMsg carries a session's message history. SessionID tags
// the fetch so a stale response for a switched-away session is dropped.
type HistoryLoadedMsg struct {
	SessionID string
	Messages  []api.Message
	Err       error
}

// SessionCreatedMsg carries the outcome of a server-side session create.
type SessionCreatedMsg struct {
	Session api.SessionInfo
	Err     error
}

// SessionDeletedMsg carries the outcome of a server-side session delete.
type SessionDeletedMsg struct {
	SessionID string
	Err       error
}

// SelectSessionMsg asks the root to switch to a session.
type SelectSessionMsg struct {
	SessionID string
}

// NewSessionMsg asks the root to create a session.
type NewSessionMsg struct{}

// DeleteSessionMsg asks the root to delete a session.
type DeleteSessionMsg struct {
	SessionID string
}

// StatusMsg shows a transient note in the status bar.
type StatusMsg struct {
	Text    string
	IsError bool
}
