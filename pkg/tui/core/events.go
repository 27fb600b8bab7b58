package core

import (
	tea "charm.land/bubbletea/v2"
)

// ScrollDirection represents the direction of scrolling
type ScrollDirection int

const (
	ScrollUp ScrollDirection = iota
	ScrollDown
	ScrollPageUp
	ScrollPageDown
	ScrollToTop
	ScrollToBottom
)

// KeyScrollMap maps common scroll keys to directions
var KeyScrollMap = map[string]ScrollDirection{
	"up":     ScrollUp,
	"k":      ScrollUp,
	"down":   ScrollDown,
	"j":      ScrollDown,
	"pgup":   ScrollPageUp,
	"pgdown": ScrollPageDown,
	"home":   ScrollToTop,
	"end":    ScrollToBottom,
}

// GetScrollDirection returns the scroll direction for a key press, if it
// is a scroll key.
func GetScrollDirection(msg tea.KeyPressMsg) (ScrollDirection, bool) {
	dir, ok := KeyScrollMap[msg.String()]
	return dir, ok
}
