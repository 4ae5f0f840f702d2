// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconcile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/KlausLynx/voting-system/db"
	"github.com/KlausLynx/voting-system/mirror"
	"github.com/KlausLynx/voting-system/models"
	"github.com/KlausLynx/voting-system/store"
)

var (
	t1 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 = time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
)

func snapshotWith(ts time.Time, votes int) models.Snapshot {
	return models.Snapshot{
		Candidates: map[string]models.Candidate{
			"Amuneke Party": {Name: "Gov Amune", Votes: votes, CenterBreakdown: map[int]int{1: votes}},
		},
		CenterSubmissions: map[int]models.CenterSubmission{
			1: {Submitted: true, Timestamp: &ts, DeviceLocked: true},
		},
		LastUpdated: ts,
	}
}

func setup(t *testing.T) (*store.Store, *mirror.Mirror) {
	t.Helper()
	dir := t.TempDir()

	s, err := store.New(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	conn, err := db.Open(db.TypeSQLite, filepath.Join(dir, "mirror.db"))
	if err != nil {
		t.Fatalf("Failed to open mirror db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return s, mirror.New(conn)
}

func votes(snap *models.Snapshot) int {
	if snap == nil {
		return -1
	}
	return snap.Candidates["Amuneke Party"].Votes
}

func TestBothAbsent(t *testing.T) {
	local, remote := setup(t)

	res := Run(context.Background(), local, remote)

	if res.Decision != DecisionEmpty {
		t.Errorf("Expected %s, got %s", DecisionEmpty, res.Decision)
	}
	if res.Snapshot != nil {
		t.Errorf("Expected nil snapshot, got %+v", res.Snapshot)
	}
}

func TestOnlyLocal(t *testing.T) {
	local, remote := setup(t)
	ctx := context.Background()
	if err := local.Save(snapshotWith(t1, 10)); err != nil {
		t.Fatal(err)
	}

	res := Run(ctx, local, remote)

	if res.Decision != DecisionLocalOnly || votes(res.Snapshot) != 10 {
		t.Errorf("Expected local snapshot adopted, got %s with %d votes", res.Decision, votes(res.Snapshot))
	}
	pushed, err := remote.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if votes(pushed) != 10 {
		t.Errorf("Expected local snapshot pushed to mirror, got %d votes", votes(pushed))
	}
}

func TestOnlyRemote(t *testing.T) {
	local, remote := setup(t)
	ctx := context.Background()
	if err := remote.Save(ctx, snapshotWith(t1, 20)); err != nil {
		t.Fatal(err)
	}

	res := Run(ctx, local, remote)

	if res.Decision != DecisionRemoteOnly || votes(res.Snapshot) != 20 {
		t.Errorf("Expected remote snapshot adopted, got %s with %d votes", res.Decision, votes(res.Snapshot))
	}
	persisted, err := local.Load()
	if err != nil {
		t.Fatal(err)
	}
	if votes(persisted) != 20 {
		t.Errorf("Expected remote snapshot persisted locally, got %d votes", votes(persisted))
	}
}

func TestRemoteNewer(t *testing.T) {
	local, remote := setup(t)
	ctx := context.Background()
	if err := local.Save(snapshotWith(t1, 10)); err != nil {
		t.Fatal(err)
	}
	if err := remote.Save(ctx, snapshotWith(t2, 30)); err != nil {
		t.Fatal(err)
	}

	res := Run(ctx, local, remote)

	if res.Decision != DecisionRemoteNewer {
		t.Errorf("Expected %s, got %s", DecisionRemoteNewer, res.Decision)
	}
	if votes(res.Snapshot) != 30 || !res.Snapshot.LastUpdated.Equal(t2) {
		t.Errorf("Expected ledger to equal remote snapshot, got %+v", res.Snapshot)
	}

	persisted, err := local.Load()
	if err != nil {
		t.Fatal(err)
	}
	if votes(persisted) != 30 || !persisted.LastUpdated.Equal(t2) {
		t.Errorf("Expected local store rewritten to remote snapshot, got %+v", persisted)
	}
}

func TestLocalNewer(t *testing.T) {
	local, remote := setup(t)
	ctx := context.Background()
	if err := local.Save(snapshotWith(t2, 40)); err != nil {
		t.Fatal(err)
	}
	if err := remote.Save(ctx, snapshotWith(t1, 10)); err != nil {
		t.Fatal(err)
	}

	res := Run(ctx, local, remote)

	if res.Decision != DecisionLocalNewer || votes(res.Snapshot) != 40 {
		t.Errorf("Expected local snapshot adopted, got %s with %d votes", res.Decision, votes(res.Snapshot))
	}
	pushed, _ := remote.Load(ctx)
	if votes(pushed) != 40 {
		t.Errorf("Expected mirror overwritten with local snapshot, got %d votes", votes(pushed))
	}
}

func TestTiePrefersLocal(t *testing.T) {
	local, remote := setup(t)
	ctx := context.Background()
	if err := local.Save(snapshotWith(t1, 11)); err != nil {
		t.Fatal(err)
	}
	if err := remote.Save(ctx, snapshotWith(t1, 22)); err != nil {
		t.Fatal(err)
	}

	res := Run(ctx, local, remote)

	if res.Decision != DecisionTie || votes(res.Snapshot) != 11 {
		t.Errorf("Expected tie to prefer local, got %s with %d votes", res.Decision, votes(res.Snapshot))
	}
	pushed, _ := remote.Load(ctx)
	if votes(pushed) != 11 {
		t.Errorf("Expected mirror to match local after tie, got %d votes", votes(pushed))
	}
}

func TestRemoteUnavailable(t *testing.T) {
	local, _ := setup(t)
	if err := local.Save(snapshotWith(t1, 10)); err != nil {
		t.Fatal(err)
	}

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatal(err)
	}
	conn.Close()

	res := Run(context.Background(), local, mirror.New(conn))

	if res.Decision != DecisionLocalOnly || votes(res.Snapshot) != 10 {
		t.Errorf("Expected local snapshot when mirror is down, got %s with %d votes", res.Decision, votes(res.Snapshot))
	}
}

type fakeLocal struct {
	snap      *models.Snapshot
	err       error
	panicOnce bool
	saved     []models.Snapshot
}

func (f *fakeLocal) Load() (*models.Snapshot, error) {
	if f.panicOnce {
		f.panicOnce = false
		panic("disk on fire")
	}
	return f.snap, f.err
}

func (f *fakeLocal) Save(snap models.Snapshot) error {
	f.saved = append(f.saved, snap)
	return nil
}

type fakeRemote struct {
	snap *models.Snapshot
	err  error
}

func (f *fakeRemote) Load(ctx context.Context) (*models.Snapshot, error) { return f.snap, f.err }

func (f *fakeRemote) Save(ctx context.Context, snap models.Snapshot) error {
	panic("mirror client bug")
}

func TestPanicFallsBackToLocal(t *testing.T) {
	snap := snapshotWith(t1, 5)
	local := &fakeLocal{snap: &snap}
	older := snapshotWith(t1.Add(-time.Hour), 1)

	// local wins, then the push to the mirror panics
	res := Run(context.Background(), local, &fakeRemote{snap: &older})

	if res.Decision != DecisionLocalFallback {
		t.Errorf("Expected %s, got %s", DecisionLocalFallback, res.Decision)
	}
	if votes(res.Snapshot) != 5 {
		t.Errorf("Expected local snapshot after fallback, got %d votes", votes(res.Snapshot))
	}
}

func TestBothUnreadableStartsEmpty(t *testing.T) {
	local := &fakeLocal{err: errors.New("corrupt")}
	remote := &fakeRemote{err: mirror.ErrUnavailable}

	res := Run(context.Background(), local, remote)

	if res.Snapshot != nil {
		t.Errorf("Expected empty start, got %+v", res.Snapshot)
	}
	if res.Decision != DecisionEmpty {
		t.Errorf("Expected %s, got %s", DecisionEmpty, res.Decision)
	}
}

func TestLocalLoadPanicsStartsEmpty(t *testing.T) {
	local := &fakeLocal{panicOnce: true}

	res := Run(context.Background(), local, &fakeRemote{})

	// first Load panics, fallback Load succeeds with nothing stored
	if res.Decision != DecisionLocalFallback || res.Snapshot != nil {
		t.Errorf("Expected empty fallback, got %s with %+v", res.Decision, res.Snapshot)
	}
}
