// Package statusbar renders the single-line footer: key help on the
// left, connection state and version on the right.
package statusbar

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/chatterm/chatterm/pkg/tui/core"
	"github.com/chatterm/chatterm/pkg/tui/styles"
	"github.com/chatterm/chatterm/pkg/version"
)

// StatusBar displays key-binding help on the left and connection state
// plus version info on the right. A transient status note replaces the
// help until cleared.
type StatusBar struct {
	width     int
	help      core.KeyMapHelp
	connected bool

	status      string
	statusError bool

	cached     string
	cacheDirty bool
}

// New creates a new StatusBar instance
func New(help core.KeyMapHelp) StatusBar {
	return StatusBar{
		help:       help,
		cacheDirty: true,
	}
}

// SetWidth sets the width of the status bar
func (s *StatusBar) SetWidth(width int) {
	if s.width != width {
		s.width = width
		s.cacheDirty = true
	}
}

// SetHelp sets the help provider for the status bar
func (s *StatusBar) SetHelp(help core.KeyMapHelp) {
	s.help = help
	s.cacheDirty = true
}

// SetConnected updates the connection indicator.
func (s *StatusBar) SetConnected(connected bool) {
	if s.connected != connected {
		s.connected = connected
		s.cacheDirty = true
	}
}

// SetStatus shows a transient note instead of the help text.
func (s *StatusBar) SetStatus(text string, isError bool) {
	s.status = text
	s.statusError = isError
	s.cacheDirty = true
}

// ClearStatus removes the transient note.
func (s *StatusBar) ClearStatus() {
	s.SetStatus("", false)
}

// Height returns the rendered height of the status bar (always 1).
func (s *StatusBar) Height() int {
	return 1
}

// rebuild renders the full status bar line.
func (s *StatusBar) rebuild() {
	s.cacheDirty = false

	conn := styles.ErrorStyle.Render("○ offline")
	if s.connected {
		conn = styles.SuccessStyle.Render("● online")
	}
	right := conn + "  " + styles.MutedStyle.Render("chatterm "+version.Version)
	rightW := lipgloss.Width(right)

	const pad = 1
	maxLeftW := s.width - rightW - 2*pad - 1

	var left string
	var leftW int
	switch {
	case s.status != "":
		style := styles.InfoStyle
		if s.statusError {
			style = styles.ErrorStyle
		}
		text := s.status
		if maxLeftW > 0 && lipgloss.Width(text) > maxLeftW {
			text = ansi.Truncate(text, maxLeftW, "...")
		}
		left = " " + style.Render(text)
		leftW = pad + lipgloss.Width(text)
	case s.help != nil:
		if help := s.help.Help(); help != nil {
			var parts []string
			for _, b := range help.ShortHelp() {
				if b.Help().Key != "" && b.Help().Desc != "" {
					parts = append(parts,
						styles.HighlightWhiteStyle.Render(b.Help().Key)+
							" "+
							styles.SecondaryStyle.Render(b.Help().Desc))
				}
			}
			if len(parts) > 0 && maxLeftW > 0 {
				helpStr := strings.Join(parts, "  ")
				if lipgloss.Width(helpStr) > maxLeftW {
					helpStr = ansi.Truncate(helpStr, maxLeftW, "...")
				}
				left = " " + helpStr
				leftW = pad + lipgloss.Width(helpStr)
			}
		}
	}

	gap := max(1, s.width-leftW-rightW-pad)
	s.cached = left + strings.Repeat(" ", gap) + right + " "
}

// View renders the status bar.
//
// Layout: [ help or status ...        ● online  chatterm VERSION ]
func (s *StatusBar) View() string {
	if s.cacheDirty {
		s.rebuild()
	}
	return s.cached
}
