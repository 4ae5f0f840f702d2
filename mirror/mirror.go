// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/KlausLynx/voting-system/db"
	"github.com/KlausLynx/voting-system/metrics"
	"github.com/KlausLynx/voting-system/models"
)

const (
	// DocCurrent is the key of the live snapshot document
	DocCurrent = "current"

	DefaultTimeout = 5 * time.Second
)

// ErrUnavailable matches every mirror failure. Callers treat it as
// "remote not reachable right now" and carry on.
var ErrUnavailable = errors.New("remote mirror unavailable")

type unavailableError struct {
	op  string
	err error
}

func (e *unavailableError) Error() string {
	return "mirror " + e.op + ": " + ErrUnavailable.Error() + ": " + e.err.Error()
}

func (e *unavailableError) Unwrap() error { return e.err }

func (e *unavailableError) Is(target error) bool { return target == ErrUnavailable }

func unavailable(op string, err error) error {
	return &unavailableError{op: op, err: err}
}

// Mirror is the best-effort remote replica of the tally snapshot, stored as
// a JSON document in a SQL table.
type Mirror struct {
	conn    *sql.DB
	key     string
	timeout time.Duration
	now     func() time.Time

	schemaMu    sync.Mutex
	schemaReady bool
}

type Option func(*Mirror)

// WithTimeout bounds every remote call
func WithTimeout(d time.Duration) Option {
	return func(m *Mirror) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithKey stores the snapshot under a different document key
func WithKey(key string) Option {
	return func(m *Mirror) { m.key = key }
}

func New(conn *sql.DB, opts ...Option) *Mirror {
	m := &Mirror{
		conn:    conn,
		key:     DocCurrent,
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Save upserts the snapshot document. A document with a newer lastUpdated
// is left untouched.
func (m *Mirror) Save(ctx context.Context, snap models.Snapshot) error {
	err := m.save(ctx, snap)
	metrics.RecordMirror("save", err)
	return err
}

func (m *Mirror) save(ctx context.Context, snap models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return unavailable("save", errors.Wrap(err, "marshal snapshot"))
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.ensureSchema(ctx); err != nil {
		return unavailable("save", err)
	}

	_, err = m.conn.ExecContext(ctx, `
		INSERT INTO tally_mirror (doc_key, payload, last_updated, written_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (doc_key) DO UPDATE
		SET payload = excluded.payload,
		    last_updated = excluded.last_updated,
		    written_at = excluded.written_at
		WHERE tally_mirror.last_updated <= excluded.last_updated
	`, m.key, string(payload), snap.LastUpdated.UnixNano(), m.now().UnixNano())
	if err != nil {
		return unavailable("save", errors.Wrap(err, "upsert snapshot"))
	}

	return nil
}

// Load fetches the snapshot document. Returns (nil, nil) when the mirror is
// reachable but holds no document.
func (m *Mirror) Load(ctx context.Context) (*models.Snapshot, error) {
	snap, err := m.load(ctx)
	metrics.RecordMirror("load", err)
	return snap, err
}

func (m *Mirror) load(ctx context.Context) (*models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.ensureSchema(ctx); err != nil {
		return nil, unavailable("load", err)
	}

	var payload string
	err := m.conn.QueryRowContext(ctx, `
		SELECT payload FROM tally_mirror WHERE doc_key = $1
	`, m.key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("load", errors.Wrap(err, "query snapshot"))
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, unavailable("load", errors.Wrap(err, "parse snapshot"))
	}
	return &snap, nil
}

// ensureSchema creates the table on first successful contact. The remote may
// be down at startup, so this is retried on every call until it succeeds.
func (m *Mirror) ensureSchema(ctx context.Context) error {
	m.schemaMu.Lock()
	defer m.schemaMu.Unlock()

	if m.schemaReady {
		return nil
	}
	if err := db.CreateSchema(ctx, m.conn); err != nil {
		return err
	}
	m.schemaReady = true
	return nil
}

// Ping reports whether the remote database answers within the timeout
func (m *Mirror) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := m.conn.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}
