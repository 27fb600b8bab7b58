// Package styles holds the shared color palette and lipgloss styles for
// the chatterm TUI. The palette is Tokyo Night inspired.
package styles

import (
	"charm.land/bubbles/v2/textarea"
	"charm.land/lipgloss/v2"
)

// Color hex values
const (
	ColorAccentBlue      = "#7AA2F7" // Soft blue
	ColorMutedBlue       = "#8B95C1" // Dark blue-grey
	ColorBackground      = "#1A1B26" // Dark blue-black
	ColorBackgroundAlt   = "#24283B" // Slightly lighter background
	ColorBorderSecondary = "#6B75A8" // Dark blue-grey
	ColorTextPrimary     = "#C0CAF5" // Light blue-white
	ColorTextSecondary   = "#9AA5CE" // Medium blue-grey
	ColorSuccessGreen    = "#9ECE6A" // Soft green
	ColorErrorRed        = "#F7768E" // Soft red
	ColorWarningYellow   = "#E0AF68" // Soft yellow
	ColorInfoCyan        = "#7DCFFF" // Soft cyan
	ColorSelected        = "#364A82" // Dark blue for selected items
)

// Palette
var (
	Background    = lipgloss.Color(ColorBackground)
	BackgroundAlt = lipgloss.Color(ColorBackgroundAlt)

	Accent    = lipgloss.Color(ColorAccentBlue)
	AccentDim = lipgloss.Color(ColorMutedBlue)

	Success = lipgloss.Color(ColorSuccessGreen)
	Error   = lipgloss.Color(ColorErrorRed)
	Warning = lipgloss.Color(ColorWarningYellow)
	Info    = lipgloss.Color(ColorInfoCyan)

	TextPrimary   = lipgloss.Color(ColorTextPrimary)
	TextSecondary = lipgloss.Color(ColorTextSecondary)
	TextMuted     = lipgloss.Color(ColorMutedBlue)

	BorderPrimary   = lipgloss.Color(ColorAccentBlue)
	BorderSecondary = lipgloss.Color(ColorBorderSecondary)

	Selected   = lipgloss.Color(ColorSelected)
	SelectedFg = lipgloss.Color(ColorTextPrimary)
)

// Base Styles
var (
	BaseStyle   = lipgloss.NewStyle().Foreground(TextPrimary)
	AppStyle    = BaseStyle.Padding(0, 1, 0, 1)
	CenterStyle = lipgloss.NewStyle().Align(lipgloss.Center, lipgloss.Center)
)

// Text Styles
var (
	HighlightStyle      = BaseStyle.Foreground(Accent)
	HighlightWhiteStyle = BaseStyle.Foreground(TextPrimary).Bold(true)
	MutedStyle          = BaseStyle.Foreground(TextMuted)
	SecondaryStyle      = BaseStyle.Foreground(TextSecondary)
	BoldStyle           = BaseStyle.Bold(true)
)

// Status Styles
var (
	SuccessStyle = BaseStyle.Foreground(Success)
	ErrorStyle   = BaseStyle.Foreground(Error)
	WarningStyle = BaseStyle.Foreground(Warning)
	InfoStyle    = BaseStyle.Foreground(Info)
)

// Message Styles
var (
	UserMessageBorderStyle = BaseStyle.
				Padding(1, 2).
				BorderLeft(true).
				BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(BorderPrimary).
				Bold(true).
				Background(BackgroundAlt)

	ErrorMessageStyle = ErrorStyle.
				Padding(0, 2).
				BorderLeft(true).
				BorderStyle(lipgloss.ThickBorder())

	ToolCallResultStyle = MutedStyle.
				Padding(0, 0, 0, 2)
)

// Sidebar Styles
var (
	SidebarStyle = BaseStyle.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderSecondary).
			Padding(0, 1)

	SidebarFocusedStyle = SidebarStyle.
				BorderForeground(BorderPrimary)

	SidebarTitleStyle = BaseStyle.
				Bold(true).
				Foreground(TextSecondary)

	SidebarItemStyle = BaseStyle.
				Foreground(TextSecondary)

	SidebarSelectedStyle = BaseStyle.
				Foreground(SelectedFg).
				Background(Selected).
				Bold(true)
)

// Input Styles
var (
	InputStyle = textarea.Styles{
		Focused: textarea.StyleState{
			Base:        BaseStyle,
			Placeholder: BaseStyle.Foreground(TextMuted),
		},
		Blurred: textarea.StyleState{
			Base:        BaseStyle,
			Placeholder: BaseStyle.Foreground(TextMuted),
		},
		Cursor: textarea.CursorStyle{
			Color: Accent,
		},
	}

	EditorStyle = BaseStyle.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderSecondary)

	EditorFocusedStyle = EditorStyle.
				BorderForeground(BorderPrimary)
)
