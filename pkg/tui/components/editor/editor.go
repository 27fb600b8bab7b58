// Package editor is the message input component.
package editor

import (
	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/chatterm/chatterm/pkg/history"
	"github.com/chatterm/chatterm/pkg/tui/core"
	"github.com/chatterm/chatterm/pkg/tui/core/layout"
	"github.com/chatterm/chatterm/pkg/tui/styles"
)

// SendMsg carries a message the user wants to send
type SendMsg struct {
	Content string
}

// historyNavigation describes which direction we pull from history.
type historyNavigation int

const (
	navigatePrevious historyNavigation = iota
	navigateNext
)

// Editor represents the input editor component
type Editor interface {
	layout.Model
	layout.Focusable
	layout.Help

	SetHistory(hist *history.History)
	SetWorking(working bool) tea.Cmd
}

// editor implements [Editor]
type editor struct {
	textarea *textarea.Model
	width    int
	height   int
	working  bool

	// hist backs up/down recall of previously sent messages.
	hist *history.History
	// draftInput holds the user's unsent text while they browse history.
	draftInput string
	// historyBrowsing marks that the buffer shows a history entry.
	historyBrowsing bool
}

// New creates a new editor component
func New() Editor {
	ta := textarea.New()
	ta.SetStyles(styles.InputStyle)
	ta.Placeholder = "Type your message here..."
	ta.Prompt = "│ "
	ta.CharLimit = -1
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.Focus()
	ta.ShowLineNumbers = false

	return &editor{
		textarea: &ta,
	}
}

func (e *editor) Init() tea.Cmd {
	return textarea.Blink
}

func (e *editor) Update(msg tea.Msg) (layout.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			if !e.textarea.Focused() {
				return e, nil
			}
			value := e.textarea.Value()
			if value != "" && !e.working {
				e.textarea.Reset()
				e.endHistoryBrowse()
				return e, core.CmdHandler(SendMsg{Content: value})
			}
			return e, nil
		case "up":
			if e.navigateHistory(navigatePrevious) {
				return e, nil
			}
		case "down":
			if e.navigateHistory(navigateNext) {
				return e, nil
			}
		default:
			// Any other key exits history browsing; input becomes
			// fresh text again.
			if e.historyBrowsing {
				e.endHistoryBrowse()
			}
		}
	}

	var cmd tea.Cmd
	*e.textarea, cmd = e.textarea.Update(msg)
	return e, cmd
}

func (e *editor) View() string {
	frame := styles.EditorStyle
	if e.textarea.Focused() {
		frame = styles.EditorFocusedStyle
	}
	return frame.Render(e.textarea.View())
}

func (e *editor) SetSize(width, height int) tea.Cmd {
	e.width = width
	e.height = height

	e.textarea.SetWidth(max(width-2, 10))
	e.textarea.SetHeight(max(height-2, 1))
	return nil
}

func (e *editor) Focus() tea.Cmd {
	return e.textarea.Focus()
}

func (e *editor) Blur() tea.Cmd {
	e.textarea.Blur()
	return nil
}

func (e *editor) IsFocused() bool {
	return e.textarea.Focused()
}

func (e *editor) Bindings() []key.Binding {
	return []key.Binding{
		key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
	}
}

func (e *editor) Help() help.KeyMap {
	return core.NewSimpleHelp(e.Bindings())
}

// SetWorking blocks sending while a reply is in flight.
func (e *editor) SetWorking(working bool) tea.Cmd {
	e.working = working
	return nil
}

func (e *editor) SetHistory(hist *history.History) {
	e.hist = hist
}

// navigateHistory returns true when it consumed the key by replacing
// the textarea content.
func (e *editor) navigateHistory(direction historyNavigation) bool {
	if !e.canBrowseHistory() {
		return false
	}

	if !e.historyBrowsing {
		e.beginHistoryBrowse()
	}

	var entry string
	switch direction {
	case navigatePrevious:
		entry = e.hist.Previous()
	case navigateNext:
		entry = e.hist.Next()
		if entry == "" {
			// Stepping past the newest entry restores the draft.
			e.restoreDraftFromHistory()
			return true
		}
	default:
		return false
	}

	if entry == "" {
		return true
	}

	e.textarea.SetValue(entry)
	e.textarea.MoveToEnd()
	return true
}

// canBrowseHistory limits history take-over of the arrow keys to an
// empty input, so cursor movement in drafted text keeps working.
func (e *editor) canBrowseHistory() bool {
	return e.hist != nil && (e.historyBrowsing || e.textarea.Value() == "")
}

func (e *editor) beginHistoryBrowse() {
	if e.hist == nil {
		return
	}
	e.draftInput = e.textarea.Value()
	e.historyBrowsing = true
	e.moveHistoryCursorToLatest()
}

func (e *editor) restoreDraftFromHistory() {
	e.textarea.SetValue(e.draftInput)
	e.textarea.MoveToEnd()
	e.endHistoryBrowse()
}

func (e *editor) endHistoryBrowse() {
	e.historyBrowsing = false
	e.draftInput = ""
	if e.hist == nil {
		return
	}
	e.moveHistoryCursorToLatest()
}

// moveHistoryCursorToLatest advances the cursor until Next returns
// empty, just past the most recent entry.
func (e *editor) moveHistoryCursorToLatest() {
	if e.hist == nil {
		return
	}
	for e.hist.Next() != "" {
	}
}
