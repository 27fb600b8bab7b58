// Package sqliteutil opens SQLite databases with the pragmas and pool
// settings the rest of chatterm expects.
package sqliteutil

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// OpenDB opens the SQLite database at path, creating parent directories
// as needed. Writes are serialized through a single connection to avoid
// "database is locked" errors.
func OpenDB(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("cannot create database directory %q: %w", dir, err)
	}

	// busy_timeout(5000): wait up to 5 seconds if the database is locked
	// journal_mode(WAL): write-ahead logging for concurrent readers
	// foreign_keys(1): enforce foreign key constraints
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, diagnose(path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Ping forces file creation so open errors surface here.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, diagnose(path, err)
	}

	return db, nil
}

// diagnose turns a SQLite CANTOPEN error into a message that names the
// actual filesystem problem. Other errors pass through unchanged.
func diagnose(path string, openErr error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(openErr, &sqliteErr) || sqliteErr.Code() != sqlite3.SQLITE_CANTOPEN {
		return openErr
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("cannot create database at %q: directory %q does not exist", path, dir)
	case err != nil:
		return fmt.Errorf("cannot create database at %q: %w", path, err)
	case !info.IsDir():
		return fmt.Errorf("cannot create database at %q: %q is not a directory", path, dir)
	}
	return fmt.Errorf("cannot create database at %q: permission denied or file cannot be created in %q (original error: %v)", path, dir, openErr)
}
