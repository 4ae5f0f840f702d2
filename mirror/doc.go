// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package mirror is the remote replica of the tally snapshot.

The mirror stores one JSON document per key in the tally_mirror table of a
PostgreSQL or SQLite database. It is the disaster-recovery and
multi-device-visibility path, so it is strictly best-effort:

  - every call is bounded by a timeout (5s by default)
  - every failure matches ErrUnavailable and is never fatal to the caller
  - a submission never waits for the mirror

Callers log failures and move on:

	m := mirror.New(conn, mirror.WithTimeout(cfg.MirrorTimeout))
	if err := m.Save(ctx, snap); errors.Is(err, mirror.ErrUnavailable) {
		slog.Warn("mirror save failed", "error", err)
	}

Save is a conditional upsert: a stored document whose lastUpdated is newer
than the one being written is kept, so late fire-and-forget writes cannot
roll the mirror back.
*/
package mirror
