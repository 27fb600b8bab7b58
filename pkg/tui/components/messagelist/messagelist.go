// Package messagelist shows the active session's message thread in a
// scrollable viewport that follows the stream while the user stays at
// the bottom.
package messagelist

import (
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/chatterm/chatterm/pkg/api"
	"github.com/chatterm/chatterm/pkg/tui/components/message"
	"github.com/chatterm/chatterm/pkg/tui/core"
	"github.com/chatterm/chatterm/pkg/tui/core/layout"
	"github.com/chatterm/chatterm/pkg/tui/styles"
)

// Model represents the message thread component
type Model interface {
	layout.Model
	layout.Focusable
	layout.Help

	SetMessages(msgs []api.Message) tea.Cmd
	Transcript() string
}

// model implements Model
type model struct {
	messages []api.Message
	viewport viewport.Model
	spinner  spinner.Model

	width   int
	height  int
	focused bool
}

// New creates a new message list component
func New() Model {
	vp := viewport.New(
		viewport.WithWidth(80),
		viewport.WithHeight(24),
	)
	return &model{
		viewport: vp,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Points)),
		width:    80,
		height:   24,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

// SetMessages replaces the thread. The viewport keeps following the
// bottom unless the user has scrolled away.
func (m *model) SetMessages(msgs []api.Message) tea.Cmd {
	wasAtBottom := m.viewport.AtBottom()
	m.messages = msgs
	m.rebuild()
	if wasAtBottom {
		m.viewport.GotoBottom()
	}

	if m.animated() {
		return m.spinner.Tick
	}
	return nil
}

func (m *model) animated() bool {
	for _, msg := range m.messages {
		if message.Animated(msg) {
			return true
		}
	}
	return false
}

func (m *model) rebuild() {
	if len(m.messages) == 0 {
		m.viewport.SetContent(styles.MutedStyle.Render("No messages yet. Say hi."))
		return
	}

	parts := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		parts = append(parts, message.Render(msg, m.width, m.spinner.View()))
	}
	m.viewport.SetContent(strings.Join(parts, "\n\n"))
}

func (m *model) Update(msg tea.Msg) (layout.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.animated() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		wasAtBottom := m.viewport.AtBottom()
		m.rebuild()
		if wasAtBottom {
			m.viewport.GotoBottom()
		}
		return m, cmd

	case tea.KeyPressMsg:
		if !m.focused {
			return m, nil
		}
		if _, ok := core.GetScrollDirection(msg); !ok {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	return m.viewport.View()
}

// Transcript returns the thread as plain text, for clipboard copy.
func (m *model) Transcript() string {
	var b strings.Builder
	for _, msg := range m.messages {
		switch msg.Role {
		case api.RoleUser:
			b.WriteString("You: ")
		case api.RoleAssistant:
			b.WriteString("Assistant: ")
		}
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *model) SetSize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	m.viewport.SetWidth(width)
	m.viewport.SetHeight(height)
	m.rebuild()
	return nil
}

func (m *model) Focus() tea.Cmd {
	m.focused = true
	return nil
}

func (m *model) Blur() tea.Cmd {
	m.focused = false
	return nil
}

func (m *model) IsFocused() bool {
	return m.focused
}

func (m *model) Bindings() []key.Binding {
	return []key.Binding{
		key.NewBinding(
			key.WithKeys("up", "down"),
			key.WithHelp("↑/↓", "scroll"),
		),
	}
}

func (m *model) Help() help.KeyMap {
	return core.NewSimpleHelp(m.Bindings())
}
