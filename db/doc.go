// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the remote mirror database and creates its schema.

# Drivers

Two drivers are registered:

  - sqlite: modernc.org/sqlite (pure Go, default)
  - postgres: github.com/lib/pq

Open picks the driver by type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

# Schema Creation

CreateSchema initializes the mirror table:

	if err := db.CreateSchema(ctx, conn); err != nil {
		slog.Warn("mirror schema not ready", "error", err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - tally_mirror: one row per document key; payload is the JSON snapshot,
    last_updated is the snapshot's lastUpdated in Unix nanoseconds,
    written_at is when the row was last written
*/
package db
