// Package tui provides the top-level TUI model wiring the session
// sidebar, message thread, editor, and status bar together.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"github.com/chatterm/chatterm/pkg/api"
	"github.com/chatterm/chatterm/pkg/history"
	"github.com/chatterm/chatterm/pkg/store"
	"github.com/chatterm/chatterm/pkg/transport"
	"github.com/chatterm/chatterm/pkg/tui/components/editor"
	"github.com/chatterm/chatterm/pkg/tui/components/messagelist"
	"github.com/chatterm/chatterm/pkg/tui/components/sidebar"
	"github.com/chatterm/chatterm/pkg/tui/components/statusbar"
	"github.com/chatterm/chatterm/pkg/tui/core"
	"github.com/chatterm/chatterm/pkg/tui/messages"
	"github.com/chatterm/chatterm/pkg/tui/styles"
)

// FocusedPanel represents which panel is currently focused
type FocusedPanel string

const (
	PanelSidebar  FocusedPanel = "sidebar"
	PanelMessages FocusedPanel = "messages"
	PanelEditor   FocusedPanel = "editor"

	// sidebarWidth is the fixed width of the session list column.
	sidebarWidth = 30
	// editorHeight covers the 3-line textarea plus its frame.
	editorHeight = 5

	requestTimeout = 10 * time.Second
)

type appKeyMap struct {
	Quit       key.Binding
	FocusNext  key.Binding
	NewSession key.Binding
	Reconnect  key.Binding
	Copy       key.Binding
}

func defaultAppKeyMap() appKeyMap {
	return appKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch panel"),
		),
		NewSession: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new chat"),
		),
		Reconnect: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reconnect"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy chat"),
		),
	}
}

// appModel is the top-level TUI model.
type appModel struct {
	store  *store.Store
	client *transport.Client
	hist   *history.History

	sidebar   sidebar.Model
	list      messagelist.Model
	editor    editor.Editor
	statusBar statusbar.StatusBar

	keyMap appKeyMap

	width, height int
	focusedPanel  FocusedPanel

	ready bool
}

// New creates the application model. The caller owns the store, the
// transport client, and the input history.
func New(st *store.Store, client *transport.Client, hist *history.History) tea.Model {
	ed := editor.New()
	ed.SetHistory(hist)

	m := &appModel{
		store:        st,
		client:       client,
		hist:         hist,
		sidebar:      sidebar.New(),
		list:         messagelist.New(),
		editor:       ed,
		keyMap:       defaultAppKeyMap(),
		focusedPanel: PanelEditor,
	}
	m.statusBar = statusbar.New(m)
	return m
}

// Help implements core.KeyMapHelp: the focused panel's bindings plus
// the global ones.
func (m *appModel) Help() help.KeyMap {
	var bindings []key.Binding
	switch m.focusedPanel {
	case PanelSidebar:
		bindings = m.sidebar.Bindings()
	case PanelMessages:
		bindings = m.list.Bindings()
	case PanelEditor:
		bindings = m.editor.Bindings()
	}
	bindings = append(bindings,
		m.keyMap.FocusNext,
		m.keyMap.NewSession,
		m.keyMap.Copy,
		m.keyMap.Quit,
	)
	return core.NewSimpleHelp(bindings)
}

func (m *appModel) Init() tea.Cmd {
	return tea.Batch(
		m.sidebar.Init(),
		m.list.Init(),
		m.editor.Init(),
		m.editor.Focus(),
		m.loadSessions(),
	)
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		return m, m.resizeAll()

	case tea.KeyPressMsg:
		return m.handleKeyPress(msg)

	case tea.PasteMsg:
		editorModel, cmd := m.editor.Update(msg)
		m.editor = editorModel.(editor.Editor)
		return m, cmd

	case messages.StoreChangedMsg:
		return m, m.syncFromStore()

	case messages.TransportEventMsg:
		return m.handleTransportEvent(msg.Event)

	case messages.SessionsLoadedMsg:
		return m.handleSessionsLoaded(msg)

	case messages.HistoryLoadedMsg:
		if msg.Err != nil {
			slog.Error("Failed to load session history", "session_id", msg.SessionID, "error", msg.Err)
			m.statusBar.SetStatus("failed to load history: "+msg.Err.Error(), true)
			return m, nil
		}
		m.store.SetMessagesFor(msg.SessionID, msg.Messages)
		return m, nil

	case messages.SelectSessionMsg:
		if msg.SessionID == m.store.CurrentSessionID() {
			return m, nil
		}
		return m, m.switchToSession(msg.SessionID)

	case messages.NewSessionMsg:
		return m, m.createSession()

	case messages.SessionCreatedMsg:
		return m.handleSessionCreated(msg)

	case messages.DeleteSessionMsg:
		return m, m.deleteSession(msg.SessionID)

	case messages.SessionDeletedMsg:
		return m.handleSessionDeleted(msg)

	case messages.StatusMsg:
		m.statusBar.SetStatus(msg.Text, msg.IsError)
		return m, nil

	case editor.SendMsg:
		return m.handleSend(msg.Content)
	}

	// Everything else (spinner ticks, cursor blinks) goes to the
	// components that animate.
	var cmds []tea.Cmd
	listModel, cmd := m.list.Update(msg)
	m.list = listModel.(messagelist.Model)
	cmds = append(cmds, cmd)

	editorModel, cmd := m.editor.Update(msg)
	m.editor = editorModel.(editor.Editor)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *appModel) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.client.Disconnect()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.FocusNext):
		return m, m.cycleFocus()

	case key.Matches(msg, m.keyMap.NewSession):
		return m, m.createSession()

	case key.Matches(msg, m.keyMap.Reconnect):
		if cur := m.store.CurrentSessionID(); cur != "" {
			m.client.Disconnect()
			m.client.Connect(cur)
			m.statusBar.SetStatus("reconnecting...", false)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Copy):
		transcript := m.list.Transcript()
		if transcript == "" {
			return m, nil
		}
		if err := clipboard.WriteAll(transcript); err != nil {
			m.statusBar.SetStatus("copy failed: "+err.Error(), true)
			return m, nil
		}
		m.statusBar.SetStatus("transcript copied", false)
		return m, nil
	}

	switch m.focusedPanel {
	case PanelSidebar:
		updated, cmd := m.sidebar.Update(msg)
		m.sidebar = updated.(sidebar.Model)
		return m, cmd
	case PanelMessages:
		updated, cmd := m.list.Update(msg)
		m.list = updated.(messagelist.Model)
		return m, cmd
	default:
		editorModel, cmd := m.editor.Update(msg)
		m.editor = editorModel.(editor.Editor)
		return m, cmd
	}
}

func (m *appModel) cycleFocus() tea.Cmd {
	var cmds []tea.Cmd
	switch m.focusedPanel {
	case PanelEditor:
		m.focusedPanel = PanelSidebar
		cmds = append(cmds, m.editor.Blur(), m.sidebar.Focus())
	case PanelSidebar:
		m.focusedPanel = PanelMessages
		cmds = append(cmds, m.sidebar.Blur(), m.list.Focus())
	case PanelMessages:
		m.focusedPanel = PanelEditor
		cmds = append(cmds, m.list.Blur(), m.editor.Focus())
	}
	m.statusBar.SetHelp(m)
	return tea.Batch(cmds...)
}

// syncFromStore re-reads everything the views render from the store.
func (m *appModel) syncFromStore() tea.Cmd {
	m.sidebar.SetSessions(m.store.Sessions(), m.store.CurrentSessionID())
	m.statusBar.SetConnected(m.store.Connected())
	return tea.Batch(
		m.list.SetMessages(m.store.Messages()),
		m.editor.SetWorking(m.store.Loading()),
	)
}

func (m *appModel) handleTransportEvent(ev transport.Event) (tea.Model, tea.Cmd) {
	switch ev.Type {
	case transport.EventConnectionLost:
		m.statusBar.SetStatus("connection lost, press ctrl+r to reconnect", true)
	case transport.EventServerError:
		text := ev.Message
		if text == "" {
			text = "server error"
		}
		m.statusBar.SetStatus(text, true)
	}
	return m, nil
}

func (m *appModel) handleSessionsLoaded(msg messages.SessionsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		slog.Error("Failed to load sessions", "error", msg.Err)
		m.statusBar.SetStatus("failed to load sessions: "+msg.Err.Error(), true)

		// Fall back to whatever state persistence hydrated.
		if cur := m.store.CurrentSessionID(); cur != "" {
			m.client.Connect(cur)
		} else {
			m.client.Connect(m.store.CreateNewSession())
		}
		return m, m.syncFromStore()
	}

	if len(msg.Sessions) == 0 {
		m.client.Connect(m.store.CreateNewSession())
		return m, m.syncFromStore()
	}

	m.store.SetSessions(msg.Sessions)

	// Keep the persisted current session if the server still has it,
	// otherwise fall back to the most recent one.
	cur := m.store.CurrentSessionID()
	if !hasSession(msg.Sessions, cur) {
		cur = msg.Sessions[0].ID
		m.store.SetCurrentSession(cur)
	}
	m.client.Connect(cur)
	return m, m.loadHistory(cur)
}

func (m *appModel) handleSessionCreated(msg messages.SessionCreatedMsg) (tea.Model, tea.Cmd) {
	m.client.Disconnect()
	if msg.Err != nil {
		slog.Error("Failed to create session on server", "error", msg.Err)
		m.client.Connect(m.store.CreateNewSession())
		m.statusBar.SetStatus("server unreachable, session created locally", true)
		return m, nil
	}
	m.store.AddSession(msg.Session)
	m.store.SetCurrentSession(msg.Session.ID)
	m.client.Connect(msg.Session.ID)
	return m, nil
}

func (m *appModel) handleSessionDeleted(msg messages.SessionDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		slog.Error("Failed to delete session", "session_id", msg.SessionID, "error", msg.Err)
		m.statusBar.SetStatus("failed to delete session: "+msg.Err.Error(), true)
		return m, nil
	}

	wasCurrent := m.store.CurrentSessionID() == msg.SessionID
	m.store.RemoveSession(msg.SessionID)
	if !wasCurrent {
		return m, nil
	}

	m.client.Disconnect()
	if cur := m.store.CurrentSessionID(); cur != "" {
		m.client.Connect(cur)
		return m, m.loadHistory(cur)
	}

	// Last session deleted: start over with a fresh local one.
	m.client.Connect(m.store.CreateNewSession())
	return m, nil
}

func (m *appModel) handleSend(content string) (tea.Model, tea.Cmd) {
	if m.hist != nil {
		if err := m.hist.Add(content); err != nil {
			slog.Warn("Failed to record input history", "error", err)
		}
	}
	if err := m.client.SendMessage(content); err != nil {
		if errors.Is(err, transport.ErrNotConnected) {
			m.statusBar.SetStatus("not connected, message not sent", true)
		} else {
			m.statusBar.SetStatus("send failed: "+err.Error(), true)
		}
		return m, nil
	}
	m.statusBar.ClearStatus()
	return m, nil
}

// switchToSession disconnects from the old session, makes id current,
// reconnects, and kicks off the history fetch.
func (m *appModel) switchToSession(id string) tea.Cmd {
	m.client.Disconnect()
	m.store.SetCurrentSession(id)
	m.client.Connect(id)
	return m.loadHistory(id)
}

// --- Commands ---

func (m *appModel) loadSessions() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sessions, err := m.client.Sessions(ctx)
		return messages.SessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (m *appModel) loadHistory(sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		msgs, err := m.client.SessionMessages(ctx, sessionID)
		return messages.HistoryLoadedMsg{SessionID: sessionID, Messages: msgs, Err: err}
	}
}

func (m *appModel) createSession() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		id, err := m.client.CreateSession(ctx, store.DefaultSessionTitle)
		if err != nil {
			return messages.SessionCreatedMsg{Err: err}
		}
		now := time.Now().Format(time.RFC3339)
		return messages.SessionCreatedMsg{Session: api.SessionInfo{
			ID:            id,
			Title:         store.DefaultSessionTitle,
			CreatedAt:     now,
			LastMessageAt: now,
		}}
	}
}

func (m *appModel) deleteSession(sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := m.client.DeleteSession(ctx, sessionID)
		return messages.SessionDeletedMsg{SessionID: sessionID, Err: err}
	}
}

// --- Layout ---

func (m *appModel) resizeAll() tea.Cmd {
	contentHeight := m.height - m.statusBar.Height()
	rightWidth := max(0, m.width-sidebarWidth)

	m.statusBar.SetWidth(m.width)
	return tea.Batch(
		m.sidebar.SetSize(sidebarWidth, contentHeight),
		m.list.SetSize(rightWidth, max(0, contentHeight-editorHeight)),
		m.editor.SetSize(rightWidth, editorHeight),
	)
}

func (m *appModel) View() tea.View {
	if !m.ready {
		return toFullscreenView(
			styles.CenterStyle.
				Width(m.width).
				Height(m.height).
				Render(styles.MutedStyle.Render("Loading…")),
		)
	}

	rightColumn := lipgloss.JoinVertical(lipgloss.Top,
		m.list.View(),
		m.editor.View(),
	)
	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.sidebar.View(),
		rightColumn,
	)
	return toFullscreenView(lipgloss.JoinVertical(lipgloss.Top,
		content,
		m.statusBar.View(),
	))
}

func toFullscreenView(content string) tea.View {
	view := tea.NewView(content)
	view.AltScreen = true
	view.BackgroundColor = styles.Background
	view.WindowTitle = "chatterm"
	return view
}

func hasSession(sessions []api.SessionInfo, id string) bool {
	if id == "" {
		return false
	}
	for _, s := range sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}
