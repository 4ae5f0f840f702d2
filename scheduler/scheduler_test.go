// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KlausLynx/voting-system/models"
)

type fixedSource struct {
	snap models.Snapshot
}

func (f *fixedSource) Snapshot() models.Snapshot { return f.snap }

type recordingArchiver struct {
	mu    sync.Mutex
	dates []time.Time
}

func (r *recordingArchiver) SaveArchive(date time.Time, snap models.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates = append(r.dates, date)
	return nil
}

type countingMirror struct {
	calls atomic.Int32
	err   error
}

func (c *countingMirror) Save(ctx context.Context, snap models.Snapshot) error {
	c.calls.Add(1)
	return c.err
}

func withVotes(votes int) models.Snapshot {
	return models.Snapshot{
		Candidates: map[string]models.Candidate{
			"Amuneke Party": {Votes: votes, CenterBreakdown: map[int]int{1: votes}},
		},
	}
}

func TestNextArchiveTime(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"later today", time.Date(2026, 3, 1, 9, 0, 0, 0, loc), time.Date(2026, 3, 1, 23, 59, 0, 0, loc)},
		{"exactly now rolls over", time.Date(2026, 3, 1, 23, 59, 0, 0, loc), time.Date(2026, 3, 2, 23, 59, 0, 0, loc)},
		{"after today's slot", time.Date(2026, 3, 1, 23, 59, 30, 0, loc), time.Date(2026, 3, 2, 23, 59, 0, 0, loc)},
		{"month end", time.Date(2026, 3, 31, 23, 59, 1, 0, loc), time.Date(2026, 4, 1, 23, 59, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextArchiveTime(tt.now, 23, 59); !got.Equal(tt.want) {
				t.Errorf("NextArchiveTime(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("23:59")
	if err != nil || h != 23 || m != 59 {
		t.Errorf("ParseClock(23:59) = %d, %d, %v", h, m, err)
	}

	for _, bad := range []string{"", "24:00", "7pm", "12:60"} {
		if _, _, err := ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q) expected error", bad)
		}
	}
}

func TestNewValidation(t *testing.T) {
	src := &fixedSource{}
	if _, err := New(src, &recordingArchiver{}, &countingMirror{}, Config{ArchiveAt: "nope", AutoBackupInterval: time.Minute}); err == nil {
		t.Error("Expected error for bad archive time")
	}
	if _, err := New(src, &recordingArchiver{}, &countingMirror{}, Config{ArchiveAt: "23:59"}); err == nil {
		t.Error("Expected error for zero interval")
	}
}

func TestAutoBackupSkipsEmptyTally(t *testing.T) {
	src := &fixedSource{snap: withVotes(0)}
	m := &countingMirror{}
	s, err := New(src, &recordingArchiver{}, m, Config{ArchiveAt: "23:59", AutoBackupInterval: time.Minute})
	if err != nil {
		t.Fatal(err)
	}

	pushed, err := s.AutoBackup(context.Background())
	if err != nil || pushed {
		t.Errorf("Expected no push for empty tally, got pushed=%v err=%v", pushed, err)
	}

	src.snap = withVotes(5)
	pushed, err = s.AutoBackup(context.Background())
	if err != nil || !pushed {
		t.Errorf("Expected push once votes exist, got pushed=%v err=%v", pushed, err)
	}
	if m.calls.Load() != 1 {
		t.Errorf("Expected 1 mirror call, got %d", m.calls.Load())
	}
}

func TestAutoBackupReportsMirrorError(t *testing.T) {
	m := &countingMirror{err: errors.New("down")}
	s, err := New(&fixedSource{snap: withVotes(1)}, &recordingArchiver{}, m, Config{ArchiveAt: "23:59", AutoBackupInterval: time.Minute})
	if err != nil {
		t.Fatal(err)
	}

	pushed, err := s.AutoBackup(context.Background())
	if !pushed || err == nil {
		t.Errorf("Expected attempted push with error, got pushed=%v err=%v", pushed, err)
	}
}

func TestArchiveNowUsesConfiguredLocation(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	a := &recordingArchiver{}
	s, err := New(&fixedSource{}, a, &countingMirror{}, Config{ArchiveAt: "23:59", AutoBackupInterval: time.Minute, Location: loc})
	if err != nil {
		t.Fatal(err)
	}
	// 23:30 UTC is already the next day in WAT
	s.now = func() time.Time { return time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC) }

	if err := s.ArchiveNow(); err != nil {
		t.Fatal(err)
	}
	if len(a.dates) != 1 || a.dates[0].Day() != 2 {
		t.Errorf("Expected archive dated March 2 in WAT, got %v", a.dates)
	}
}

func TestRunAutoBackupLoop(t *testing.T) {
	m := &countingMirror{}
	s, err := New(&fixedSource{snap: withVotes(1)}, &recordingArchiver{}, m, Config{ArchiveAt: "23:59", AutoBackupInterval: 10 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for m.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if m.calls.Load() < 2 {
		t.Errorf("Expected at least 2 auto-backups, got %d", m.calls.Load())
	}
}
