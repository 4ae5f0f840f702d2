// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KlausLynx/voting-system/models"
)

// Local is the durable local store
type Local interface {
	Load() (*models.Snapshot, error)
	Save(snap models.Snapshot) error
}

// Remote is the best-effort mirror
type Remote interface {
	Load(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, snap models.Snapshot) error
}

// Decision names the branch reconciliation took
type Decision string

const (
	DecisionEmpty         Decision = "empty"
	DecisionLocalOnly     Decision = "local-only"
	DecisionRemoteOnly    Decision = "remote-only"
	DecisionLocalNewer    Decision = "local-newer"
	DecisionRemoteNewer   Decision = "remote-newer"
	DecisionTie           Decision = "tie"
	DecisionLocalFallback Decision = "local-fallback"
)

// Result is the authoritative snapshot to seed the ledger with. Snapshot is
// nil when the ledger should start empty.
type Result struct {
	Snapshot *models.Snapshot
	Decision Decision
}

// Run picks the authoritative snapshot between the local store and the
// mirror and copies it over the loser. It never fails: any unexpected error
// degrades to whatever the local store alone can provide.
func Run(ctx context.Context, local Local, remote Remote) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("reconciliation failed, using local state only", "panic", fmt.Sprint(r))
			res = localOnly(local)
		}
	}()

	l, err := local.Load()
	if err != nil {
		slog.Warn("local snapshot unavailable", "error", err)
		l = nil
	}

	r, err := remote.Load(ctx)
	if err != nil {
		slog.Warn("remote snapshot unavailable", "error", err)
		r = nil
	}

	switch {
	case l == nil && r == nil:
		res = Result{Decision: DecisionEmpty}

	case r == nil:
		res = Result{Snapshot: l, Decision: DecisionLocalOnly}
		pushRemote(ctx, remote, *l)

	case l == nil:
		res = Result{Snapshot: r, Decision: DecisionRemoteOnly}
		saveLocal(local, *r)

	case r.LastUpdated.After(l.LastUpdated):
		res = Result{Snapshot: r, Decision: DecisionRemoteNewer}
		saveLocal(local, *r)

	case l.LastUpdated.After(r.LastUpdated):
		res = Result{Snapshot: l, Decision: DecisionLocalNewer}
		pushRemote(ctx, remote, *l)

	default:
		res = Result{Snapshot: l, Decision: DecisionTie}
		pushRemote(ctx, remote, *l)
	}

	attrs := []any{"decision", res.Decision}
	if res.Snapshot != nil {
		attrs = append(attrs, "last_updated", res.Snapshot.LastUpdated)
	}
	slog.Info("startup reconciliation complete", attrs...)
	return res
}

func localOnly(local Local) (res Result) {
	res = Result{Decision: DecisionLocalFallback}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("local load failed, starting empty", "panic", fmt.Sprint(r))
			res = Result{Decision: DecisionLocalFallback}
		}
	}()

	snap, err := local.Load()
	if err != nil {
		slog.Error("local load failed, starting empty", "error", err)
		return res
	}
	res.Snapshot = snap
	return res
}

func saveLocal(local Local, snap models.Snapshot) {
	if err := local.Save(snap); err != nil {
		slog.Warn("failed to persist remote snapshot locally", "error", err)
	}
}

func pushRemote(ctx context.Context, remote Remote, snap models.Snapshot) {
	if err := remote.Save(ctx, snap); err != nil {
		slog.Warn("failed to push local snapshot to mirror", "error", err)
	}
}
