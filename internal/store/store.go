// Package store is the shared relational store. The Researcher and the
// Strategist never talk to each other directly; rows written here are the
// only coupling, and the review dashboard reads the same rows.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound marks a lookup that matched no row.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database shared by both pipeline stages.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the SQLite database at path. WAL mode and
// a busy timeout keep overlapping CLI invocations from tripping over each
// other; foreign keys are enforced.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Init creates the schema. Safe to call repeatedly.
func (s *Store) Init(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS clients (
			id              TEXT PRIMARY KEY,
			business_name   TEXT NOT NULL,
			city            TEXT NOT NULL DEFAULT '',
			category        TEXT NOT NULL DEFAULT '',
			website_url     TEXT NOT NULL DEFAULT '',
			brand_tone      TEXT NOT NULL DEFAULT '',
			differentiators TEXT NOT NULL DEFAULT '[]',
			created_at      TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS research_records (
			id               TEXT PRIMARY KEY,
			client_id        TEXT NOT NULL REFERENCES clients(id),
			city             TEXT NOT NULL DEFAULT '',
			raw_text         TEXT NOT NULL DEFAULT '',
			services         TEXT NOT NULL DEFAULT '[]',
			pricing          TEXT NOT NULL DEFAULT '{}',
			gaps             TEXT NOT NULL DEFAULT '[]',
			keywords         TEXT NOT NULL DEFAULT '[]',
			status           TEXT NOT NULL,
			backend          TEXT NOT NULL DEFAULT '',
			competitor_count INTEGER NOT NULL DEFAULT 0,
			created_at       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_research_client_created
			ON research_records(client_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS content_drafts (
			id          TEXT PRIMARY KEY,
			client_id   TEXT NOT NULL REFERENCES clients(id),
			research_id TEXT NOT NULL DEFAULT '',
			topic       TEXT NOT NULL DEFAULT '',
			platform    TEXT NOT NULL,
			title       TEXT NOT NULL DEFAULT '',
			body        TEXT NOT NULL DEFAULT '',
			notes       TEXT NOT NULL DEFAULT '',
			score       INTEGER NOT NULL DEFAULT 0,
			word_count  INTEGER NOT NULL DEFAULT 0,
			status      TEXT NOT NULL,
			created_at  TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_locks (
			client_id   TEXT PRIMARY KEY,
			acquired_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Ready reports whether the schema has been created.
func (s *Store) Ready(ctx context.Context) error {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='clients'").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("database %s has no schema: run 'localscout init-db' first", s.path)
	}
	return err
}

// builder is the squirrel statement builder shared by all queries.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// encodeTime and decodeTime fix the timestamp column format.
func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// encodeJSON stores slice and map fields as JSON text columns.
func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding field: %w", err)
	}
	return string(data), nil
}

func decodeJSON(data string, v any) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}
