// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scheduler runs the two background tasks that sit outside the request
path.

  - Daily archive: at a fixed local time (TALLY_ARCHIVE_AT, default 23:59)
    the current snapshot is written as that day's archive. Running it again
    the same day overwrites the archive.
  - Mirror auto-backup: every TALLY_AUTO_BACKUP_INTERVAL (default 5m), if any
    candidate has votes, the snapshot is pushed to the remote mirror. A
    failed push is logged and retried on the next tick; nothing is queued.

Both tasks read the ledger only through its Snapshot copy.

	s, err := scheduler.New(ledger, store, mirror, scheduler.Config{...})
	go s.Run(ctx)
*/
package scheduler
