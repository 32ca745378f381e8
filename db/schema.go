// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported SQL dialects. The values double as database/sql driver names.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// sqliteBusyTimeoutMS is how long a writer waits on a locked database.
const sqliteBusyTimeoutMS = 5000

// Open connects to the configured database and verifies the connection.
// For SQLite, dsn is a file path; its directory is created if needed.
func Open(ctx context.Context, dialect, dsn string) (*sql.DB, error) {
	switch dialect {
	case SQLite:
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = sqliteDSN(dsn)
	case Postgres:
	default:
		return nil, fmt.Errorf("unsupported database type %q", dialect)
	}

	conn, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	// SQLite allows a single writer
	if dialect == SQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}

	return conn, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", path, sep, sqliteBusyTimeoutMS)
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	// One statement per Exec; lib/pq and sqlite differ on multi-statement strings
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

const schema = `
-- Votes: one row per student, ever
CREATE TABLE IF NOT EXISTS vote (
    student_id TEXT PRIMARY KEY,
    student_name TEXT NOT NULL,
    class_id INTEGER NOT NULL CHECK (class_id BETWEEN 1 AND 7),
    voted_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vote_class_id ON vote(class_id);
`
