// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the durable local store for tally snapshots.

# Layout

	<dir>/tally.json                                  active snapshot
	<dir>/backups/tally-20260301T120000.000000000Z.json  one per save
	<dir>/archives/archive-2026-03-01.json            one per calendar date

Every file is the JSON form of models.Snapshot; archives add a "date" field.
Files are written to a temp path and renamed into place.

# Saving

	if err := s.Save(snap); err != nil {
		slog.Warn("local save failed", "error", err)
	}

Save writes the active file and a backup, then keeps only the newest
retention backups (50 by default). A save error never undoes the in-memory
tally; callers log it and move on. Snapshots older than the last one saved
are skipped.

# Loading

Load reads the active file. If it is missing or does not parse, backups are
tried newest first. When nothing parses, Load returns (nil, nil).

# Archives

SaveArchive writes the archive for a date, overwriting an archive written
earlier the same day.
*/
package store
