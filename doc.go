// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the vote tally server.

Polling-center officers submit each center's results once; the server keeps
the running totals in memory, persists every change to a local JSON file and
to a remote SQL mirror, and pushes live totals to display clients.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:mirror.db go run .

Or with flags:

	go run . -p 3000 -data ./data -t postgres -d "postgres://..."

A .env file in the working directory is loaded first if present.

# Startup

Before the listener opens:

 1. The center registry is loaded (built-in, or -registry FILE).
 2. The local store and the mirror are read and the newer snapshot wins;
    ties go to the local copy. The winner is written back over the loser.
 3. The ledger is seeded from that snapshot.

If neither store has a readable snapshot the ledger starts empty.

# Shutdown

On SIGINT or SIGTERM the scheduler stops, display clients are disconnected,
in-flight requests drain, and the final state is written to both stores.

# Deployment

Run exactly one instance per mirror. Reconciliation compares whole
snapshots, so two writers against the same mirror would overwrite each
other's submissions.

# Architecture

  - ledger: in-memory totals and the once-per-center rule
  - submission: apply, persist, mirror and broadcast a submission
  - store: local JSON file with rotating backups and daily archives
  - mirror: remote SQL copy (PostgreSQL or SQLite)
  - reconcile: startup merge of the two stores
  - broadcast: websocket push channel
  - scheduler: daily archive and periodic mirror backup
  - handlers, router, middleware: HTTP surface
  - registry, auth: centers, candidates and access codes
  - metrics: Prometheus instrumentation
  - cliparse: configuration

See package documentation for each component.
*/
package main
