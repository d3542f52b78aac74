// Package sqlite keeps the bookmark catalog in a SQLite database and
// answers render queries with SQL.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentSchemaVersion = 1

// Store is a SQLite-backed catalog.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; WAL lets readers proceed.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error { return s.db.Close() }

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS link_categories (
			id     INTEGER PRIMARY KEY NOT NULL,
			name   TEXT NOT NULL,
			slug   TEXT NOT NULL,
			parent INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_link_categories_name ON link_categories(name COLLATE NOCASE);

		CREATE TABLE IF NOT EXISTS links (
			id          INTEGER PRIMARY KEY NOT NULL,
			url         TEXT NOT NULL,
			name        TEXT NOT NULL,
			image       TEXT NOT NULL DEFAULT '',
			target      TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			visible     INTEGER NOT NULL DEFAULT 1,
			owner       INTEGER NOT NULL DEFAULT 0,
			rating      INTEGER NOT NULL DEFAULT 0,
			updated     INTEGER NOT NULL DEFAULT 0,
			rel         TEXT NOT NULL DEFAULT '',
			notes       TEXT NOT NULL DEFAULT '',
			rss         TEXT NOT NULL DEFAULT '',
			sources     TEXT NOT NULL DEFAULT '[]',
			created_at  INTEGER NOT NULL DEFAULT 0,
			disabled    INTEGER NOT NULL DEFAULT 0,
			disabled_at INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_links_visible ON links(visible);
		CREATE INDEX IF NOT EXISTS idx_links_disabled ON links(disabled) WHERE disabled = 1;

		CREATE TABLE IF NOT EXISTS link_relationships (
			link_id     INTEGER NOT NULL,
			category_id INTEGER NOT NULL,
			PRIMARY KEY (link_id, category_id),
			FOREIGN KEY (link_id) REFERENCES links(id) ON DELETE CASCADE,
			FOREIGN KEY (category_id) REFERENCES link_categories(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_link_relationships_category ON link_relationships(category_id);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SchemaVersion returns the applied migration level.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
