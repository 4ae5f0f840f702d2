// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database types accepted by Open
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open opens a connection pool for the given database type.
// It does not verify the connection; call PingContext for that.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case TypeSQLite, TypePostgres:
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}
	if dbType == TypeSQLite {
		// SQLite allows a single writer
		conn.SetMaxOpenConns(1)
	}
	return conn, nil
}

// CreateSchema creates all tables needed by the remote mirror.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Statements run one at a time; the SQL is portable between PostgreSQL and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tally_mirror (
    doc_key TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    last_updated BIGINT NOT NULL,
    written_at BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_tally_mirror_last_updated ON tally_mirror(last_updated)`,
}
