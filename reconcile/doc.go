// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package reconcile chooses the authoritative tally snapshot at startup.

Run loads the local snapshot L and the remote snapshot R (either may be
absent) and applies last-write-wins at whole-snapshot granularity:

	both absent     → start empty
	only L          → adopt L, push it to the mirror
	only R          → adopt R, save it locally
	R newer than L  → adopt R, save it locally
	L newer than R  → adopt L, push it to the mirror
	equal           → adopt L, push it to the mirror

Any unexpected failure degrades to loading the local store alone, and to an
empty ledger if that fails too. Run never blocks startup on the mirror beyond
the mirror's own timeout.

# Deployment Constraint

Whole-snapshot last-write-wins is only safe with a single writer: exactly one
process may accept submissions against a given local store and mirror. Two
processes accepting submissions concurrently would diverge, and the next
reconciliation would discard one side's submissions. Run must finish before
the HTTP listener starts.
*/
package reconcile
