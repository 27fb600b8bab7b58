package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatterm/chatterm/pkg/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s := New()
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	nextID := 0
	s.newID = func() string {
		nextID++
		return string(rune('a' + nextID - 1))
	}
	return s
}

func TestCreateNewSession(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	id := s.CreateNewSession()
	require.NotEmpty(t, id)

	sessions := s.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, id, sessions[0].ID)
	assert.Equal(t, DefaultSessionTitle, sessions[0].Title)
	assert.Equal(t, sessions[0].CreatedAt, sessions[0].LastMessageAt)
	assert.Equal(t, id, s.CurrentSessionID())
	assert.Empty(t, s.Messages())
}

func TestCreateNewSession_Prepends(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.SetSessions([]api.SessionInfo{{ID: "old", Title: "Old"}})

	id := s.CreateNewSession()

	sessions := s.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, id, sessions[0].ID)
	assert.Equal(t, "old", sessions[1].ID)
}

func TestRemoveSession_Current(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.SetSessions([]api.SessionInfo{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}})
	s.SetCurrentSession("s2")
	s.SetMessages([]api.Message{{ID: "m1", Role: api.RoleUser, Content: "hi"}})

	s.RemoveSession("s2")

	sessions := s.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "s1", s.CurrentSessionID(), "current moves to the new first session")
	assert.Empty(t, s.Messages())
}

func TestRemoveSession_NotCurrent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.SetSessions([]api.SessionInfo{{ID: "s1"}, {ID: "s2"}})
	s.SetCurrentSession("s1")
	s.SetMessages([]api.Message{{ID: "m1"}})

	s.RemoveSession("s2")

	assert.Equal(t, "s1", s.CurrentSessionID())
	assert.Len(t, s.Messages(), 1, "messages untouched when a non-current session is removed")
}

func TestRemoveSession_Last(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.SetSessions([]api.SessionInfo{{ID: "s1"}})
	s.SetCurrentSession("s1")
	s.SetMessages([]api.Message{{ID: "m1"}})

	s.RemoveSession("s1")

	assert.Empty(t, s.Sessions())
	assert.Empty(t, s.CurrentSessionID())
	assert.Empty(t, s.Messages())
}

func TestSetCurrentSession_ClearsMessages(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.SetMessages([]api.Message{{ID: "m1"}})

	s.SetCurrentSession("s1")

	assert.Equal(t, "s1", s.CurrentSessionID())
	assert.Empty(t, s.Messages())
}

func TestUpdateSessionTitle(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.SetSessions([]api.SessionInfo{{ID: "s1", Title: "Old"}})

	s.UpdateSessionTitle("s1", "Renamed")
	assert.Equal(t, "Renamed", s.Sessions()[0].Title)

	// Absent id is a no-op.
	s.UpdateSessionTitle("nope", "X")
	assert.Equal(t, "Renamed", s.Sessions()[0].Title)
}

func TestUpdateSessionLastMessage(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.SetSessions([]api.SessionInfo{{ID: "s1", LastMessageAt: "then"}})

	s.UpdateSessionLastMessage("s1")

	assert.Equal(t, "2026-01-02T03:04:05Z", s.Sessions()[0].LastMessageAt)
}

func TestAddMessage_FinalizesPreviousStreaming(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.AddMessage(api.Message{ID: "a1", Role: api.RoleAssistant, IsStreaming: true})
	s.AddMessage(api.Message{ID: "u1", Role: api.RoleUser, Content: "again"})
	s.AddMessage(api.Message{ID: "a2", Role: api.RoleAssistant, IsStreaming: true})

	var streaming []string
	for _, m := range s.Messages() {
		if m.IsStreaming {
			streaming = append(streaming, m.ID)
		}
	}
	assert.Equal(t, []string{"a2"}, streaming, "at most one streaming message")
}

func TestUpdateMessage(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.AddMessage(api.Message{ID: "m1", Role: api.RoleAssistant, Content: "partial", IsStreaming: true})

	content := "done"
	done := false
	s.UpdateMessage("m1", MessagePatch{Content: &content, IsStreaming: &done})

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "done", msgs[0].Content)
	assert.False(t, msgs[0].IsStreaming)
}

func TestUpdateMessage_AbsentID(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.AddMessage(api.Message{ID: "m1", Content: "keep"})

	content := "clobber"
	s.UpdateMessage("missing", MessagePatch{Content: &content})

	assert.Equal(t, "keep", s.Messages()[0].Content)
}

func TestToolCalls(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.AddMessage(api.Message{ID: "m1", Role: api.RoleAssistant, IsStreaming: true})

	s.AddToolCall("m1", api.ToolCall{ID: "t1", Name: "search", Status: api.ToolStatusPending})

	status := api.ToolStatusSuccess
	result := []byte(`"42"`)
	s.UpdateToolCall("m1", "t1", ToolCallPatch{Status: &status, Result: &result})

	msgs := s.Messages()
	require.Len(t, msgs[0].ToolCalls, 1)
	assert.Equal(t, api.ToolStatusSuccess, msgs[0].ToolCalls[0].Status)
	assert.Equal(t, `"42"`, string(msgs[0].ToolCalls[0].Result))
}

func TestUpdateToolCall_UnknownID(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.AddMessage(api.Message{ID: "m1", Role: api.RoleAssistant, IsStreaming: true})
	s.AddToolCall("m1", api.ToolCall{ID: "t1", Status: api.ToolStatusPending})

	status := api.ToolStatusError
	s.UpdateToolCall("m1", "unknown", ToolCallPatch{Status: &status})

	assert.Equal(t, api.ToolStatusPending, s.Messages()[0].ToolCalls[0].Status, "unknown tool call id leaves state unchanged")
}

func TestUpdateToolCall_TerminalStatusNeverRegresses(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.AddMessage(api.Message{ID: "m1", Role: api.RoleAssistant, IsStreaming: true})
	s.AddToolCall("m1", api.ToolCall{ID: "t1", Status: api.ToolStatusSuccess})

	pending := api.ToolStatusPending
	duration := 2.5
	s.UpdateToolCall("m1", "t1", ToolCallPatch{Status: &pending, Duration: &duration})

	tc := s.Messages()[0].ToolCalls[0]
	assert.Equal(t, api.ToolStatusSuccess, tc.Status, "terminal status must not move back to pending")
	assert.Equal(t, 2.5, tc.Duration, "other patch fields still apply")

	errStatus := api.ToolStatusError
	s.UpdateToolCall("m1", "t1", ToolCallPatch{Status: &errStatus})
	assert.Equal(t, api.ToolStatusSuccess, s.Messages()[0].ToolCalls[0].Status, "no transition out of a terminal state")
}

func TestStreamingMessage(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, ok := s.StreamingMessage()
	assert.False(t, ok)

	s.AddMessage(api.Message{ID: "u1", Role: api.RoleUser})
	s.AddMessage(api.Message{ID: "a1", Role: api.RoleAssistant, IsStreaming: true})

	m, ok := s.StreamingMessage()
	require.True(t, ok)
	assert.Equal(t, "a1", m.ID)
}

func TestSetMessagesFor_StaleSession(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.SetCurrentSession("s2")

	// A history fetch for s1 resolving after the switch to s2 is dropped.
	s.SetMessagesFor("s1", []api.Message{{ID: "stale"}})
	assert.Empty(t, s.Messages())

	s.SetMessagesFor("s2", []api.Message{{ID: "fresh"}})
	require.Len(t, s.Messages(), 1)
	assert.Equal(t, "fresh", s.Messages()[0].ID)
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	calls := 0
	cancel := s.Subscribe(func() { calls++ })

	s.SetLoading(true)
	s.SetConnected(true)
	assert.Equal(t, 2, calls)

	cancel()
	s.SetLoading(false)
	assert.Equal(t, 2, calls, "cancelled subscriber is not notified")
}

type recordingPersister struct {
	sessions [][]api.SessionInfo
	currents []string
}

func (p *recordingPersister) SaveSessions(sessions []api.SessionInfo) error {
	p.sessions = append(p.sessions, sessions)
	return nil
}

func (p *recordingPersister) SaveCurrent(sessionID string) error {
	p.currents = append(p.currents, sessionID)
	return nil
}

func TestPersister(t *testing.T) {
	t.Parallel()

	p := &recordingPersister{}
	s := New(WithPersister(p))

	s.SetSessions([]api.SessionInfo{{ID: "s1"}})
	s.SetCurrentSession("s1")
	s.SetMessages([]api.Message{{ID: "m1"}})
	s.SetLoading(true)

	require.NotEmpty(t, p.sessions)
	assert.Equal(t, []string{"s1"}, p.currents)
}

func TestHydrate(t *testing.T) {
	t.Parallel()

	p := &recordingPersister{}
	s := New(WithPersister(p))

	s.Hydrate([]api.SessionInfo{{ID: "s1"}, {ID: "s2"}}, "s2")

	assert.Len(t, s.Sessions(), 2)
	assert.Equal(t, "s2", s.CurrentSessionID())
	assert.Empty(t, p.sessions, "hydration does not write back")
	assert.Empty(t, p.currents)
}
