// Package sqlite is the default local store: a single-file database that
// keeps the tracker self-contained on one machine.
package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle shared by the repositories.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file and prepares the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	dsn := path + "?" + url.Values{
		"_pragma": []string{
			"busy_timeout(30000)",
			"journal_mode(WAL)",
			"synchronous(NORMAL)",
		},
	}.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS subscriptions (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		price      REAL NOT NULL DEFAULT 0,
		cycle      TEXT NOT NULL DEFAULT 'monthly',
		next_date  TEXT NOT NULL,
		color      TEXT NOT NULL DEFAULT '',
		notes      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		active     INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_subscriptions_next_date ON subscriptions(next_date);

	CREATE TABLE IF NOT EXISTS entitlement (
		id            INTEGER PRIMARY KEY CHECK (id = 1),
		premium       INTEGER NOT NULL DEFAULT 0,
		premium_until TEXT NOT NULL DEFAULT '',
		plan          TEXT NOT NULL DEFAULT ''
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init sqlite schema: %w", err)
	}
	return nil
}

// Ping checks database connectivity (used for readiness probes).
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
