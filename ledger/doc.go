// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger is the in-memory authoritative tally.

A Ledger owns the candidate totals and per-center submission status. It is
created once per process, after startup reconciliation, and injected into the
submission service:

	l := ledger.New(reg, reconciledSnapshot)
	out, err := l.ApplySubmission(code, results, officer)

# Submission Rules

  - The access code must resolve to a registered center (ErrInvalidCenter)
  - The center must not have submitted before (*DuplicateSubmissionError,
    carrying the original timestamp)
  - Entries for unknown parties or with negative counts are skipped, not fatal
  - On success the center is locked: submitted and deviceLocked become true

The submitted check and the mutation run under one mutex, so two concurrent
requests for the same center cannot both pass the check.

# Invariants

For every candidate, Votes equals the sum of CenterBreakdown. New recomputes
Votes from the breakdown when a loaded snapshot disagrees. LastUpdated strictly
increases with every accepted submission.

Snapshot returns a deep copy; callers may read or serialize it freely without
holding any lock.
*/
package ledger
