// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadEnvFile optionally seeds the environment from a dotenv file, then
ParseFlags returns a Config struct with all settings:

	_ = cliparse.LoadEnvFile(".env")
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p          Server port (default 3000)
	-data       Directory for tally.json, backups/ and archives/ (default "data")
	-d          Mirror database URL (required)
	-t          Mirror database type: sqlite (default) or postgres
	-registry   JSON file with centers and candidates (built-in registry otherwise)
	-images     Directory served under /images/

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATA_DIR      → -data
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	REGISTRY_FILE → -registry
	IMAGES_DIR    → -images

CLI flags take precedence over environment variables. Variables already set
in the environment take precedence over the dotenv file.

# Tuning

Tuning knobs have no flag and are read with envconfig under the TALLY prefix:

	TALLY_BACKUP_RETENTION      backups kept on disk (default 50)
	TALLY_ARCHIVE_AT            daily archive time, HH:MM (default 23:59)
	TALLY_AUTO_BACKUP_INTERVAL  mirror push interval (default 5m)
	TALLY_MIRROR_TIMEOUT        per-call mirror timeout (default 5s)
	TALLY_SHUTDOWN_TIMEOUT      graceful shutdown budget (default 10s)

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is not provided
  - PORT is not a number
  - DATABASE_TYPE is neither sqlite nor postgres
  - a TALLY_* value does not parse, or retention is below 1
*/
package cliparse
