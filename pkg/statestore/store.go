// Package statestore persists the session list and current session id
// in a SQLite database so they survive restarts. Messages are never
// persisted; history is always refetched from the server.
package statestore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/chatterm/chatterm/pkg/api"
	"github.com/chatterm/chatterm/pkg/paths"
	"github.com/chatterm/chatterm/pkg/sqliteutil"
)

// Store implements store.Persister on top of SQLite.
type Store struct {
	db *sql.DB
}

// New opens the default state database under the user's data directory.
func New() (*Store, error) {
	return Open(filepath.Join(paths.GetDataDir(), "state.db"))
}

// Open opens or creates the state database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sqliteutil.OpenDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating state store: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at TEXT NOT NULL,
			last_message_at TEXT NOT NULL,
			position INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS current_session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			session_id TEXT NOT NULL
		);
	`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSessions replaces the persisted session list. Position preserves
// the in-memory ordering across restarts.
func (s *Store) SaveSessions(sessions []api.SessionInfo) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("saving sessions: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sessions`); err != nil {
		return fmt.Errorf("saving sessions: %w", err)
	}

	for i, session := range sessions {
		_, err := tx.Exec(`
			INSERT INTO sessions (id, title, created_at, last_message_at, position)
			VALUES (?, ?, ?, ?, ?)
		`, session.ID, session.Title, session.CreatedAt, session.LastMessageAt, i)
		if err != nil {
			return fmt.Errorf("saving session %q: %w", session.ID, err)
		}
	}

	return tx.Commit()
}

// SaveCurrent records the current session id. An empty id clears it.
func (s *Store) SaveCurrent(sessionID string) error {
	if sessionID == "" {
		_, err := s.db.Exec(`DELETE FROM current_session`)
		return err
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO current_session (id, session_id)
		VALUES (1, ?)
	`, sessionID)
	return err
}

// Load returns the persisted session list in saved order and the current
// session id, or "" if none was recorded.
func (s *Store) Load(ctx context.Context) ([]api.SessionInfo, string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, created_at, last_message_at FROM sessions
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, "", fmt.Errorf("loading sessions: %w", err)
	}
	defer rows.Close()

	var sessions []api.SessionInfo
	for rows.Next() {
		var si api.SessionInfo
		if err := rows.Scan(&si.ID, &si.Title, &si.CreatedAt, &si.LastMessageAt); err != nil {
			return nil, "", fmt.Errorf("loading sessions: %w", err)
		}
		sessions = append(sessions, si)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("loading sessions: %w", err)
	}

	var currentID string
	err = s.db.QueryRowContext(ctx, `SELECT session_id FROM current_session WHERE id = 1`).Scan(&currentID)
	if err != nil && err != sql.ErrNoRows {
		return nil, "", fmt.Errorf("loading current session: %w", err)
	}

	return sessions, currentID, nil
}
