// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/KlausLynx/voting-system/metrics"
	"github.com/KlausLynx/voting-system/models"
)

const (
	activeFile    = "tally.json"
	backupDir     = "backups"
	archiveDir    = "archives"
	backupPrefix  = "tally-"
	archivePrefix = "archive-"
	fileSuffix    = ".json"

	// sorts lexicographically in time order
	backupTimeFormat  = "20060102T150405.000000000Z"
	archiveDateFormat = "2006-01-02"

	DefaultRetention = 50
)

// Store is the durable local store: one active snapshot file, a bounded set
// of timestamped backups, and one archive per calendar date.
type Store struct {
	dir       string
	retention int
	now       func() time.Time

	mu        sync.Mutex
	lastSaved time.Time
}

type Option func(*Store)

// WithRetention sets how many backups are kept after each save
func WithRetention(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.retention = n
		}
	}
}

// WithClock overrides the clock used to name backups
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates the data directory layout under dir
func New(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		dir:       dir,
		retention: DefaultRetention,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, d := range []string{dir, filepath.Join(dir, backupDir), filepath.Join(dir, archiveDir)} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, errors.Wrapf(err, "create %s", d)
		}
	}

	return s, nil
}

// Save writes snap to the active file and a new backup, then prunes old
// backups. A snapshot older than the last one saved is skipped so that
// out-of-order writers cannot regress the active file.
func (s *Store) Save(snap models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal snapshot")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.LastUpdated.Before(s.lastSaved) {
		slog.Debug("skipping stale snapshot", "last_updated", snap.LastUpdated, "last_saved", s.lastSaved)
		return nil
	}

	if err := writeFileAtomic(filepath.Join(s.dir, activeFile), data); err != nil {
		return errors.Wrap(err, "write active snapshot")
	}
	s.lastSaved = snap.LastUpdated

	backup, err := s.nextBackupPath()
	if err != nil {
		return err
	}
	if err := writeFileAtomic(backup, data); err != nil {
		return errors.Wrap(err, "write backup")
	}

	slog.Debug("snapshot saved", "backup", filepath.Base(backup), "size", humanize.Bytes(uint64(len(data))))

	if err := s.prune(); err != nil {
		slog.Warn("failed to prune backups", "error", err)
	}

	return nil
}

// Load reads the active snapshot. If it is missing or unreadable, backups are
// tried newest first. Returns nil with no error when nothing usable exists.
func (s *Store) Load() (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := readSnapshot(filepath.Join(s.dir, activeFile))
	if err == nil {
		s.lastSaved = snap.LastUpdated
		return snap, nil
	}
	if !os.IsNotExist(errors.Cause(err)) {
		slog.Warn("active snapshot unreadable, falling back to backups", "error", err)
	}

	backups, err := s.listBackups()
	if err != nil {
		return nil, err
	}
	for _, name := range backups {
		snap, err := readSnapshot(filepath.Join(s.dir, backupDir, name))
		if err != nil {
			slog.Warn("skipping unreadable backup", "backup", name, "error", err)
			continue
		}
		slog.Info("recovered snapshot from backup", "backup", name)
		s.lastSaved = snap.LastUpdated
		return snap, nil
	}

	return nil, nil
}

// Backups lists backup file names, newest first
func (s *Store) Backups() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listBackups()
}

// SaveArchive writes the archive for date's calendar day, replacing any
// archive already written that day.
func (s *Store) SaveArchive(date time.Time, snap models.Snapshot) error {
	archive := models.Archive{
		Date:     date.Format(archiveDateFormat),
		Snapshot: snap,
	}
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal archive")
	}

	path := filepath.Join(s.dir, archiveDir, archivePrefix+archive.Date+fileSuffix)
	if err := writeFileAtomic(path, data); err != nil {
		return errors.Wrap(err, "write archive")
	}

	metrics.ArchivesWritten.Inc()
	slog.Info("archive written", "date", archive.Date, "size", humanize.Bytes(uint64(len(data))))
	return nil
}

// LoadArchive reads the archive for a date formatted as 2006-01-02
func (s *Store) LoadArchive(date string) (*models.Archive, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, archiveDir, archivePrefix+date+fileSuffix))
	if err != nil {
		return nil, errors.Wrap(err, "read archive")
	}
	var archive models.Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, errors.Wrap(err, "parse archive")
	}
	return &archive, nil
}

func (s *Store) nextBackupPath() (string, error) {
	ts := s.now().UTC()
	for {
		path := filepath.Join(s.dir, backupDir, backupPrefix+ts.Format(backupTimeFormat)+fileSuffix)
		_, err := os.Stat(path)
		if os.IsNotExist(err) {
			return path, nil
		}
		if err != nil {
			return "", errors.Wrap(err, "stat backup")
		}
		ts = ts.Add(time.Nanosecond)
	}
}

// listBackups returns backup names sorted by their timestamp, newest first
func (s *Store) listBackups() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, backupDir))
	if err != nil {
		return nil, errors.Wrap(err, "list backups")
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (s *Store) prune() error {
	names, err := s.listBackups()
	if err != nil {
		return err
	}
	if len(names) <= s.retention {
		return nil
	}

	var freed uint64
	removed := 0
	for _, name := range names[s.retention:] {
		path := filepath.Join(s.dir, backupDir, name)
		if info, err := os.Stat(path); err == nil {
			freed += uint64(info.Size())
		}
		if err := os.Remove(path); err != nil {
			return errors.Wrapf(err, "remove %s", name)
		}
		removed++
	}

	metrics.BackupsPruned.Add(float64(removed))
	slog.Debug("pruned backups", "removed", removed, "freed", humanize.Bytes(freed))
	return nil
}

func readSnapshot(path string) (*models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read snapshot")
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrapf(err, "parse %s", filepath.Base(path))
	}
	if snap.Candidates == nil {
		return nil, errors.Errorf("%s has no candidates", filepath.Base(path))
	}
	return &snap, nil
}

// writeFileAtomic writes to a temp file and renames it over path
func writeFileAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}
