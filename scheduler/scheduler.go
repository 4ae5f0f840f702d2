// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KlausLynx/voting-system/metrics"
	"github.com/KlausLynx/voting-system/models"
)

// SnapshotSource is the ledger's read-only accessor
type SnapshotSource interface {
	Snapshot() models.Snapshot
}

type Archiver interface {
	SaveArchive(date time.Time, snap models.Snapshot) error
}

type Mirror interface {
	Save(ctx context.Context, snap models.Snapshot) error
}

type Config struct {
	// ArchiveAt is the local wall-clock time of the daily archive, "15:04"
	ArchiveAt          string
	AutoBackupInterval time.Duration
	Location           *time.Location
}

// Scheduler runs the daily archive and the periodic mirror auto-backup.
// Neither task touches the submission path beyond taking a snapshot copy.
type Scheduler struct {
	src      SnapshotSource
	archiver Archiver
	mirror   Mirror

	hour     int
	minute   int
	interval time.Duration
	loc      *time.Location
	now      func() time.Time
}

func New(src SnapshotSource, archiver Archiver, mirror Mirror, cfg Config) (*Scheduler, error) {
	hour, minute, err := ParseClock(cfg.ArchiveAt)
	if err != nil {
		return nil, err
	}
	if cfg.AutoBackupInterval <= 0 {
		return nil, fmt.Errorf("auto-backup interval must be positive, got %s", cfg.AutoBackupInterval)
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		src:      src,
		archiver: archiver,
		mirror:   mirror,
		hour:     hour,
		minute:   minute,
		interval: cfg.AutoBackupInterval,
		loc:      loc,
		now:      time.Now,
	}, nil
}

// Run starts both timers and blocks until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.archiveLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		s.autoBackupLoop(ctx)
	}()
	wg.Wait()
}

func (s *Scheduler) archiveLoop(ctx context.Context) {
	for {
		next := NextArchiveTime(s.now().In(s.loc), s.hour, s.minute)
		slog.Debug("next daily archive scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := s.ArchiveNow(); err != nil {
				slog.Warn("daily archive failed", "error", err)
			}
		}
	}
}

func (s *Scheduler) autoBackupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.AutoBackup(ctx); err != nil {
				metrics.RecordPersistenceWarning(metrics.StoreRemote)
				slog.Warn("mirror auto-backup failed", "error", err)
			}
		}
	}
}

// ArchiveNow writes today's archive from the current ledger state
func (s *Scheduler) ArchiveNow() error {
	return s.archiver.SaveArchive(s.now().In(s.loc), s.src.Snapshot())
}

// AutoBackup pushes the current snapshot to the mirror when any votes have
// been recorded. Reports whether a push was attempted.
func (s *Scheduler) AutoBackup(ctx context.Context) (bool, error) {
	snap := s.src.Snapshot()
	if !snap.HasVotes() {
		return false, nil
	}
	if err := s.mirror.Save(ctx, snap); err != nil {
		return true, err
	}
	slog.Debug("mirror auto-backup complete", "last_updated", snap.LastUpdated)
	return true, nil
}

// NextArchiveTime returns the first hour:minute strictly after now, in now's location
func NextArchiveTime(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return next
}

// ParseClock parses "15:04" into hour and minute
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid archive time %q, want HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}
