// Package db persists the transition journal: a record of every style
// the scheduler applied. The journal is write-only for the daemon; the
// scheduler never reads it back to make decisions.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver" // SQLite driver for database/sql
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed SQLite for cross-platform compatibility
)

const schema = `
-- Journal of applied style transitions
CREATE TABLE IF NOT EXISTS transitions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	style TEXT NOT NULL,
	style_type TEXT NOT NULL,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transitions_applied_at ON transitions(applied_at);
`

// DB wraps the journal database connection.
type DB struct {
	conn *sql.DB
}

// Transition is one journal entry.
type Transition struct {
	ID        int64
	Style     string
	StyleType string
	AppliedAt time.Time
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// RecordTransition appends a journal entry.
func (d *DB) RecordTransition(ctx context.Context, style, styleType string) error {
	_, err := d.conn.ExecContext(ctx,
		"INSERT INTO transitions (style, style_type) VALUES (?, ?)",
		style, styleType,
	)
	if err != nil {
		return fmt.Errorf("failed to record transition: %w", err)
	}
	return nil
}

// RecentTransitions returns up to limit entries, newest first.
func (d *DB) RecentTransitions(ctx context.Context, limit int) ([]Transition, error) {
	rows, err := d.conn.QueryContext(ctx,
		"SELECT id, style, style_type, applied_at FROM transitions ORDER BY applied_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transitions: %w", err)
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var tr Transition
		if err := rows.Scan(&tr.ID, &tr.Style, &tr.StyleType, &tr.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transition: %w", err)
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}
