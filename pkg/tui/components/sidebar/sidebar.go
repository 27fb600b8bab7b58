// Package sidebar lists the chat sessions and drives session selection,
// creation, and deletion.
package sidebar

import (
	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/chatterm/chatterm/pkg/api"
	"github.com/chatterm/chatterm/pkg/tui/core"
	"github.com/chatterm/chatterm/pkg/tui/core/layout"
	"github.com/chatterm/chatterm/pkg/tui/messages"
	"github.com/chatterm/chatterm/pkg/tui/styles"
)

// Model represents the session list component
type Model interface {
	layout.Model
	layout.Focusable
	layout.Help

	SetSessions(sessions []api.SessionInfo, currentID string)
}

// model implements Model
type model struct {
	sessions  []api.SessionInfo
	currentID string
	cursor    int

	// confirmDelete holds the session id armed for deletion; pressing
	// d again on the same session confirms.
	confirmDelete string

	width   int
	height  int
	focused bool
}

// New creates a new sidebar component
func New() Model {
	return &model{
		width:  30,
		height: 24,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

// SetSessions replaces the list and keeps the cursor on the current
// session when possible.
func (m *model) SetSessions(sessions []api.SessionInfo, currentID string) {
	m.sessions = sessions
	m.currentID = currentID

	m.cursor = 0
	for i, s := range sessions {
		if s.ID == currentID {
			m.cursor = i
			break
		}
	}
	if m.cursor >= len(sessions) {
		m.cursor = max(0, len(sessions)-1)
	}
}

func (m *model) Update(msg tea.Msg) (layout.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !m.focused {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.confirmDelete = ""
	case "down", "j":
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
		m.confirmDelete = ""
	case "enter":
		m.confirmDelete = ""
		if m.cursor < len(m.sessions) {
			return m, core.CmdHandler(messages.SelectSessionMsg{SessionID: m.sessions[m.cursor].ID})
		}
	case "n":
		m.confirmDelete = ""
		return m, core.CmdHandler(messages.NewSessionMsg{})
	case "d":
		if m.cursor >= len(m.sessions) {
			return m, nil
		}
		id := m.sessions[m.cursor].ID
		if m.confirmDelete == id {
			m.confirmDelete = ""
			return m, core.CmdHandler(messages.DeleteSessionMsg{SessionID: id})
		}
		m.confirmDelete = id
	case "esc":
		m.confirmDelete = ""
	}

	return m, nil
}

func (m *model) View() string {
	frame := styles.SidebarStyle
	if m.focused {
		frame = styles.SidebarFocusedStyle
	}

	innerWidth := max(m.width-frame.GetHorizontalFrameSize(), 10)
	innerHeight := max(m.height-frame.GetVerticalFrameSize(), 3)

	lines := []string{styles.SidebarTitleStyle.Render("Sessions"), ""}

	if len(m.sessions) == 0 {
		lines = append(lines, styles.MutedStyle.Render("(none)"))
	}

	// Keep the cursor visible when the list overflows.
	visible := max(innerHeight-2, 1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	for i := start; i < len(m.sessions) && i-start < visible; i++ {
		s := m.sessions[i]

		marker := "  "
		if s.ID == m.currentID {
			marker = styles.HighlightStyle.Render("● ")
		}

		label := s.Title
		if label == "" {
			label = s.ID
		}
		if m.confirmDelete == s.ID && i == m.cursor {
			label = "delete? (d)"
		}
		label = ansi.Truncate(label, innerWidth-2, "…")

		if i == m.cursor && m.focused {
			lines = append(lines, marker+styles.SidebarSelectedStyle.Render(label))
		} else if s.ID == m.currentID {
			lines = append(lines, marker+styles.BoldStyle.Render(label))
		} else {
			lines = append(lines, marker+styles.SidebarItemStyle.Render(label))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return frame.Width(m.width - frame.GetHorizontalBorderSize()).
		Height(innerHeight).
		Render(content)
}

func (m *model) SetSize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	return nil
}

func (m *model) Focus() tea.Cmd {
	m.focused = true
	return nil
}

func (m *model) Blur() tea.Cmd {
	m.focused = false
	m.confirmDelete = ""
	return nil
}

func (m *model) IsFocused() bool {
	return m.focused
}

func (m *model) Bindings() []key.Binding {
	return []key.Binding{
		key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new session"),
		),
		key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

func (m *model) Help() help.KeyMap {
	return core.NewSimpleHelp(m.Bindings())
}
