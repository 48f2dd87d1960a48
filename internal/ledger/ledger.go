// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records every export artifact written to disk in a small
// SQLite database kept next to the downloads. It holds file metadata only;
// research sessions are never stored or restored.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBFile is the ledger database name inside the export directory.
const DBFile = "exports.db"

const defaultLimit = 20

// Kind classifies an export artifact.
type Kind string

const (
	KindStructured Kind = "structured"
	KindPrintable  Kind = "printable"
)

// Entry is one recorded export artifact.
type Entry struct {
	ID        int64     `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Path      string    `json:"path" yaml:"path"`
	Size      int64     `json:"size" yaml:"size"`
	SHA256    string    `json:"sha256" yaml:"sha256"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Ledger manages the exports database.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating its parent
// directory and schema when missing.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS exports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			path TEXT NOT NULL,
			size INTEGER NOT NULL,
			sha256 TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends e to the ledger. A zero CreatedAt is set to now.
func (l *Ledger) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	res, err := l.db.ExecContext(ctx,
		`INSERT INTO exports (name, kind, path, size, sha256, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Name, string(e.Kind), e.Path, e.Size, e.SHA256, e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("recording export %s: %w", e.Name, err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return Entry{}, fmt.Errorf("reading export id: %w", err)
	}
	return e, nil
}

// List returns up to limit entries, newest first. A non-positive limit
// uses the default of 20.
func (l *Ledger) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, name, kind, path, size, sha256, created_at FROM exports ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying exports: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var kind, created string
		if err := rows.Scan(&e.ID, &e.Name, &kind, &e.Path, &e.Size, &e.SHA256, &created); err != nil {
			return nil, fmt.Errorf("scanning export row: %w", err)
		}
		e.Kind = Kind(kind)
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", created, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
