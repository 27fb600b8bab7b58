package tui

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chatterm/chatterm/pkg/history"
	"github.com/chatterm/chatterm/pkg/store"
	"github.com/chatterm/chatterm/pkg/transport"
	"github.com/chatterm/chatterm/pkg/tui/components/editor"
)

func TestSendRecordsInputHistory(t *testing.T) {
	t.Parallel()

	st := store.New()
	client, err := transport.New("http://127.0.0.1:1", st)
	require.NoError(t, err)

	hist, err := history.Open(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)

	m := New(st, client, hist)

	// The message is recorded even when the socket is down, so recall
	// still works after a failed send.
	m.Update(editor.SendMsg{Content: "hello history"})

	require.Equal(t, "hello history", hist.Previous())
}
