// Package store holds the client-side chat state: the session list, the
// active session's messages, and the loading/connected flags. A single
// Store instance is owned by the application root and shared by reference
// with the transport client and the UI.
//
// All mutations are synchronous. Subscribers are notified after every
// mutation, outside the store lock.
package store

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chatterm/chatterm/pkg/api"
)

// DefaultSessionTitle is the placeholder title given to sessions created
// locally before the first message names them.
const DefaultSessionTitle = "New Chat"

// Persister receives session-list and current-session changes so they
// survive a restart. Messages and flags are never persisted.
type Persister interface {
	SaveSessions(sessions []api.SessionInfo) error
	SaveCurrent(sessionID string) error
}

// Store is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	sessions  []api.SessionInfo
	currentID string
	messages  []api.Message
	loading   bool
	connected bool

	subs    map[int]func()
	nextSub int

	persister Persister

	// Overridable in tests.
	now   func() time.Time
	newID func() string
}

type Option func(*Store)

// WithPersister attaches a persistence backend. Without one the store
// is purely in-memory.
func WithPersister(p Persister) Option {
	return func(s *Store) {
		s.persister = p
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		subs:  make(map[int]func()),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to be called after every state change. The
// returned function cancels the subscription.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify must be called without the lock held.
func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *Store) persistSessions() {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveSessions(s.sessions); err != nil {
		slog.Error("Failed to persist sessions", "error", err)
	}
}

func (s *Store) persistCurrent() {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveCurrent(s.currentID); err != nil {
		slog.Error("Failed to persist current session", "error", err)
	}
}

// Hydrate installs previously persisted state. It performs no network
// activity and does not write back to the persister.
func (s *Store) Hydrate(sessions []api.SessionInfo, currentID string) {
	s.mu.Lock()
	s.sessions = slices.Clone(sessions)
	s.currentID = currentID
	s.messages = nil
	s.mu.Unlock()
	s.notify()
}

// Sessions returns a copy of the session list, newest first.
func (s *Store) Sessions() []api.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sessions)
}

// CurrentSessionID returns the active session id, or "" if none.
func (s *Store) CurrentSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Messages returns a copy of the active session's messages.
func (s *Store) Messages() []api.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMessages(s.messages)
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// StreamingMessage returns a copy of the assistant message currently
// being streamed, if any.
func (s *Store) StreamingMessage() (api.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].IsStreaming && s.messages[i].Role == api.RoleAssistant {
			return cloneMessage(s.messages[i]), true
		}
	}
	return api.Message{}, false
}

// SetSessions replaces the full session set, preserving the given order.
func (s *Store) SetSessions(sessions []api.SessionInfo) {
	s.mu.Lock()
	s.sessions = slices.Clone(sessions)
	s.persistSessions()
	s.mu.Unlock()
	s.notify()
}

// AddSession prepends a session, keeping newest-first ordering.
func (s *Store) AddSession(session api.SessionInfo) {
	s.mu.Lock()
	s.sessions = append([]api.SessionInfo{session}, s.sessions...)
	s.persistSessions()
	s.mu.Unlock()
	s.notify()
}

// RemoveSession removes the session with the given id. If it was the
// current session, the first remaining session becomes current (or none)
// and the message list is cleared.
func (s *Store) RemoveSession(id string) {
	s.mu.Lock()
	s.sessions = slices.DeleteFunc(slices.Clone(s.sessions), func(si api.SessionInfo) bool {
		return si.ID == id
	})
	if s.currentID == id {
		if len(s.sessions) > 0 {
			s.currentID = s.sessions[0].ID
		} else {
			s.currentID = ""
		}
		s.messages = nil
		s.persistCurrent()
	}
	s.persistSessions()
	s.mu.Unlock()
	s.notify()
}

// SetCurrentSession switches the active session and unconditionally
// clears the message list. The caller reloads history itself.
func (s *Store) SetCurrentSession(id string) {
	s.mu.Lock()
	s.currentID = id
	s.messages = nil
	s.persistCurrent()
	s.mu.Unlock()
	s.notify()
}

// UpdateSessionTitle is a no-op if the id is absent.
func (s *Store) UpdateSessionTitle(id, title string) {
	s.mu.Lock()
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.sessions[i].Title = title
			break
		}
	}
	s.persistSessions()
	s.mu.Unlock()
	s.notify()
}

// UpdateSessionLastMessage bumps the session's last-message timestamp to
// now. No-op if the id is absent.
func (s *Store) UpdateSessionLastMessage(id string) {
	s.mu.Lock()
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.sessions[i].LastMessageAt = s.now().Format(time.RFC3339)
			break
		}
	}
	s.persistSessions()
	s.mu.Unlock()
	s.notify()
}

// CreateNewSession builds a local session with a fresh id and placeholder
// title, prepends it, makes it current, clears messages, and returns the
// new id.
func (s *Store) CreateNewSession() string {
	s.mu.Lock()
	now := s.now().Format(time.RFC3339)
	session := api.SessionInfo{
		ID:            s.newID(),
		Title:         DefaultSessionTitle,
		CreatedAt:     now,
		LastMessageAt: now,
	}
	s.sessions = append([]api.SessionInfo{session}, s.sessions...)
	s.currentID = session.ID
	s.messages = nil
	s.persistSessions()
	s.persistCurrent()
	s.mu.Unlock()
	s.notify()
	return session.ID
}

// SetMessages replaces the active message list.
func (s *Store) SetMessages(messages []api.Message) {
	s.mu.Lock()
	s.messages = cloneMessages(messages)
	s.mu.Unlock()
	s.notify()
}

// SetMessagesFor replaces the message list only if sessionID is still
// the current session. A history fetch that resolves after the user has
// switched away is discarded here.
func (s *Store) SetMessagesFor(sessionID string, messages []api.Message) {
	s.mu.Lock()
	if s.currentID != sessionID {
		s.mu.Unlock()
		return
	}
	s.messages = cloneMessages(messages)
	s.mu.Unlock()
	s.notify()
}

// AddMessage appends a message. Appending a streaming message finalizes
// any previous streaming message first, so at most one message is
// streaming at a time.
func (s *Store) AddMessage(msg api.Message) {
	s.mu.Lock()
	if msg.IsStreaming {
		for i := range s.messages {
			s.messages[i].IsStreaming = false
		}
	}
	s.messages = append(s.messages, cloneMessage(msg))
	s.mu.Unlock()
	s.notify()
}

// ClearMessages empties the active message list.
func (s *Store) ClearMessages() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
	s.notify()
}

// MessagePatch is a partial message update. Nil fields are left as-is.
type MessagePatch struct {
	Content     *string
	ToolCalls   *[]api.ToolCall
	IsStreaming *bool
}

// UpdateMessage merges patch into the message with the given id. No-op
// if the id is absent.
func (s *Store) UpdateMessage(id string, patch MessagePatch) {
	s.mu.Lock()
	for i := range s.messages {
		if s.messages[i].ID != id {
			continue
		}
		if patch.Content != nil {
			s.messages[i].Content = *patch.Content
		}
		if patch.ToolCalls != nil {
			s.messages[i].ToolCalls = slices.Clone(*patch.ToolCalls)
		}
		if patch.IsStreaming != nil {
			s.messages[i].IsStreaming = *patch.IsStreaming
		}
		break
	}
	s.mu.Unlock()
	s.notify()
}

// AddToolCall appends a tool call to the message with the given id,
// creating the list if needed. No-op if the message is absent.
func (s *Store) AddToolCall(messageID string, tc api.ToolCall) {
	s.mu.Lock()
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			s.messages[i].ToolCalls = append(s.messages[i].ToolCalls, tc)
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// ToolCallPatch is a partial tool-call update. Nil fields are left as-is.
type ToolCallPatch struct {
	Status   *api.ToolStatus
	Result   *[]byte
	Duration *float64
}

// UpdateToolCall merges patch into the tool call with the given id on
// the message with the given id. No-op if either id is absent.
func (s *Store) UpdateToolCall(messageID, toolCallID string, patch ToolCallPatch) {
	s.mu.Lock()
	for i := range s.messages {
		if s.messages[i].ID != messageID {
			continue
		}
		for j := range s.messages[i].ToolCalls {
			if s.messages[i].ToolCalls[j].ID != toolCallID {
				continue
			}
			// Status is monotonic: once terminal it never regresses.
			if patch.Status != nil && !isTerminal(s.messages[i].ToolCalls[j].Status) {
				s.messages[i].ToolCalls[j].Status = *patch.Status
			}
			if patch.Result != nil {
				s.messages[i].ToolCalls[j].Result = slices.Clone(*patch.Result)
			}
			if patch.Duration != nil {
				s.messages[i].ToolCalls[j].Duration = *patch.Duration
			}
			break
		}
		break
	}
	s.mu.Unlock()
	s.notify()
}

func isTerminal(status api.ToolStatus) bool {
	return status == api.ToolStatusSuccess || status == api.ToolStatusError
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	s.connected = connected
	s.mu.Unlock()
	s.notify()
}

func cloneMessage(m api.Message) api.Message {
	m.ToolCalls = slices.Clone(m.ToolCalls)
	return m
}

func cloneMessages(msgs []api.Message) []api.Message {
	out := make([]api.Message, len(msgs))
	for i := range msgs {
		out[i] = cloneMessage(msgs[i])
	}
	return out
}
