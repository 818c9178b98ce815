// Package store persists prompts, endpoints, fan-out results and settings
// in a local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// Store wraps the ChatList SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// WAL for concurrent readers during a fan-out write burst
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("wal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("foreign keys: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger.With("component", "store"),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// migrate creates tables and indexes on first run.
func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prompts (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			text       TEXT NOT NULL,
			author     TEXT DEFAULT 'user',
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS endpoints (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			name    TEXT NOT NULL UNIQUE,
			api_url TEXT NOT NULL,
			api_id  TEXT NOT NULL,
			active  INTEGER DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			prompt_id     INTEGER NOT NULL,
			endpoint_id   INTEGER NOT NULL,
			run_id        TEXT NOT NULL DEFAULT '',
			response_text TEXT NOT NULL,
			tokens_used   INTEGER DEFAULT 0,
			favorite      INTEGER DEFAULT 0,
			created_at    INTEGER NOT NULL,
			FOREIGN KEY (prompt_id) REFERENCES prompts(id) ON DELETE CASCADE,
			FOREIGN KEY (endpoint_id) REFERENCES endpoints(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prompts_text ON prompts(text)`,
		`CREATE INDEX IF NOT EXISTS idx_prompts_created ON prompts(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_endpoints_active ON endpoints(active)`,
		`CREATE INDEX IF NOT EXISTS idx_results_prompt ON results(prompt_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_favorite ON results(favorite)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the raw handle for inspection tooling.
func (s *Store) DB() *sql.DB { return s.db }
