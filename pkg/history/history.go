// Package history keeps the user's sent messages on disk so the editor
// can recall them with the arrow keys across restarts.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/chatterm/chatterm/pkg/paths"
)

type History struct {
	Messages []string `json:"messages"`

	path    string
	current int
}

// New opens the default history file under the user's data directory.
func New() (*History, error) {
	return Open(filepath.Join(paths.GetDataDir(), "history.json"))
}

// Open loads history from path, starting empty if the file is missing.
func Open(path string) (*History, error) {
	h := &History{
		path:    path,
		current: -1,
	}

	if err := h.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return h, nil
}

// Add appends a message, dropping any earlier duplicate, and saves.
func (h *History) Add(message string) error {
	var kept []string
	for _, msg := range h.Messages {
		if msg != message {
			kept = append(kept, msg)
		}
	}
	h.Messages = append(kept, message)
	h.current = len(h.Messages)

	return h.save()
}

// Previous walks toward older messages, sticking at the oldest.
func (h *History) Previous() string {
	if len(h.Messages) == 0 {
		return ""
	}

	if h.current == -1 {
		h.current = len(h.Messages) - 1
		return h.Messages[h.current]
	}

	if h.current <= 0 {
		return h.Messages[0]
	}

	h.current--
	return h.Messages[h.current]
}

// Next walks toward newer messages, returning "" past the newest.
func (h *History) Next() string {
	if len(h.Messages) == 0 {
		return ""
	}

	if h.current >= len(h.Messages)-1 {
		h.current = len(h.Messages)
		return ""
	}

	h.current++
	return h.Messages[h.current]
}

func (h *History) save() error {
	data, err := json.Marshal(h)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(h.path, data, 0o644)
}

func (h *History) load() error {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, h)
}
