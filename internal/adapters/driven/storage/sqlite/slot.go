// Package sqlite provides the durable history slot backed by an
// embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/apunto-labs/apunto-cli/internal/core/ports/driven"
)

// slotKey is the fixed key the whole history collection lives under.
const slotKey = "apunto_history"

// Ensure HistorySlot implements the interface.
var _ driven.HistorySlot = (*HistorySlot)(nil)

// HistorySlot stores the serialized history collection in a
// single-row key-value table. The whole-collection read/write
// contract means no row-level history access is ever exposed.
type HistorySlot struct {
	db   *sql.DB
	path string
}

// NewHistorySlot opens (or creates) the history database under
// dataDir. If dataDir is empty, defaults to ~/.apunto/data.
func NewHistorySlot(dataDir string) (*HistorySlot, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".apunto", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// WAL mode keeps concurrent readers cheap; busy_timeout covers
	// a second process holding the write lock briefly.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating slots table: %w", err)
	}

	return &HistorySlot{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *HistorySlot) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *HistorySlot) Path() string {
	return s.path
}

// Read returns the stored blob, or (nil, nil) when the slot is empty.
func (s *HistorySlot) Read(ctx context.Context) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM slots WHERE key = ?", slotKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot: %w", err)
	}
	return value, nil
}

// Write replaces the stored blob.
func (s *HistorySlot) Write(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, slotKey, data)
	if err != nil {
		return fmt.Errorf("writing slot: %w", err)
	}
	return nil
}

// Reset empties the slot.
func (s *HistorySlot) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM slots WHERE key = ?", slotKey)
	if err != nil {
		return fmt.Errorf("resetting slot: %w", err)
	}
	return nil
}

// Ping probes the database with a trivial read.
func (s *HistorySlot) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("probing database: %w", err)
	}
	return nil
}
