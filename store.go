package folio

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// PrefStore wraps a SQLite database holding visitor preferences. It is the
// durable backing of prefs.Store.
type PrefStore struct {
	db *sql.DB
}

// NewPrefStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and creates the schema.
func NewPrefStore(path string) (*PrefStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the SSE readers and the theme writer overlap; the busy
	// timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &PrefStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *PrefStore) Close() error {
	return s.db.Close()
}

func (s *PrefStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS prefs (
    visitor TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (visitor, key)
);
`)
	return err
}

// Get returns the stored value of key for visitor.
func (s *PrefStore) Get(ctx context.Context, visitor, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM prefs WHERE visitor = ? AND key = ?`, visitor, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts key for visitor.
func (s *PrefStore) Set(ctx context.Context, visitor, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO prefs (visitor, key, value, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(visitor, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		visitor, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}
