package statestore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatterm/chatterm/pkg/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoad_Empty(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	sessions, currentID, err := s.Load(t.Context())
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.Empty(t, currentID)
}

func TestSaveSessions_RoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	in := []api.SessionInfo{
		{ID: "s2", Title: "Latest", CreatedAt: "2026-01-02T00:00:00Z", LastMessageAt: "2026-01-02T01:00:00Z"},
		{ID: "s1", Title: "Older", CreatedAt: "2026-01-01T00:00:00Z", LastMessageAt: "2026-01-01T01:00:00Z"},
	}
	require.NoError(t, s.SaveSessions(in))
	require.NoError(t, s.SaveCurrent("s2"))

	sessions, currentID, err := s.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, in, sessions, "ordering survives the round trip")
	assert.Equal(t, "s2", currentID)
}

func TestSaveSessions_Replaces(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.SaveSessions([]api.SessionInfo{{ID: "s1", Title: "a"}, {ID: "s2", Title: "b"}}))
	require.NoError(t, s.SaveSessions([]api.SessionInfo{{ID: "s3", Title: "c"}}))

	sessions, _, err := s.Load(t.Context())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s3", sessions[0].ID)
}

func TestSaveCurrent_EmptyClears(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.SaveCurrent("s1"))
	require.NoError(t, s.SaveCurrent(""))

	_, currentID, err := s.Load(t.Context())
	require.NoError(t, err)
	assert.Empty(t, currentID)
}

func TestSaveCurrent_Overwrites(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.SaveCurrent("s1"))
	require.NoError(t, s.SaveCurrent("s2"))

	_, currentID, err := s.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "s2", currentID)
}
