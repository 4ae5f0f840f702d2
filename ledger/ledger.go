// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/KlausLynx/voting-system/models"
	"github.com/KlausLynx/voting-system/registry"
)

// Outcome describes an accepted submission
type Outcome struct {
	Center   models.Center
	Applied  []models.VoteResult // entries that changed totals
	Ignored  []models.VoteResult // unknown parties, malformed, negative or overflowing counts
	At       time.Time
	Snapshot models.Snapshot
}

// Ledger is the in-memory authoritative tally. All mutation goes through
// ApplySubmission; readers get deep copies from Snapshot.
type Ledger struct {
	reg *registry.Registry
	now func() time.Time

	mu          sync.Mutex
	candidates  map[string]models.Candidate
	submissions map[int]models.CenterSubmission
	lastUpdated time.Time
}

type Option func(*Ledger)

// WithClock overrides the UTC wall clock
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a ledger seeded from snap (which may be nil for an empty
// ledger). Registry candidates and centers missing from snap are added with
// zero totals and unsubmitted status.
func New(reg *registry.Registry, snap *models.Snapshot, opts ...Option) *Ledger {
	l := &Ledger{
		reg:         reg,
		now:         func() time.Time { return time.Now().UTC() },
		candidates:  make(map[string]models.Candidate),
		submissions: make(map[int]models.CenterSubmission),
	}
	for _, opt := range opts {
		opt(l)
	}

	if snap != nil {
		s := snap.Clone()
		l.candidates = s.Candidates
		l.submissions = s.CenterSubmissions
		l.lastUpdated = s.LastUpdated
	}

	for _, info := range reg.Candidates() {
		c, ok := l.candidates[info.Party]
		if !ok {
			c = models.Candidate{Name: info.Name, Image: info.Image}
		}
		if c.CenterBreakdown == nil {
			c.CenterBreakdown = make(map[int]int)
		}
		l.candidates[info.Party] = c
	}

	for party, c := range l.candidates {
		if c.CenterBreakdown == nil {
			c.CenterBreakdown = make(map[int]int)
		}
		sum := 0
		for _, v := range c.CenterBreakdown {
			sum += v
		}
		if sum != c.Votes {
			slog.Warn("candidate total disagrees with center breakdown, using breakdown",
				"party", party, "votes", c.Votes, "breakdown_sum", sum)
			c.Votes = sum
		}
		l.candidates[party] = c
	}

	for _, center := range reg.Centers() {
		sub, ok := l.submissions[center.ID]
		if !ok {
			sub = models.CenterSubmission{}
		}
		sub.DeviceLocked = sub.Submitted
		if sub.Submitted && sub.Timestamp == nil && !l.lastUpdated.IsZero() {
			slog.Warn("submitted center has no timestamp, using snapshot lastUpdated",
				"center_id", center.ID, "last_updated", l.lastUpdated)
			at := l.lastUpdated
			sub.Timestamp = &at
		}
		l.submissions[center.ID] = sub
	}

	return l
}

// ApplySubmission records a center's one-time results. The code lookup, the
// submitted check, the totals update and the lock are one critical section.
func (l *Ledger) ApplySubmission(code string, results []models.VoteResult, officer models.Officer) (Outcome, error) {
	center, ok := l.reg.Resolve(code)
	if !ok {
		return Outcome{}, ErrInvalidCenter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sub := l.submissions[center.ID]
	if sub.Submitted {
		var at time.Time
		if sub.Timestamp != nil {
			at = *sub.Timestamp
		}
		return Outcome{}, &DuplicateSubmissionError{CenterID: center.ID, SubmittedAt: at}
	}

	out := Outcome{Center: center}
	for _, r := range results {
		c, known := l.candidates[r.Party]
		if !known || r.Malformed() || r.Votes < 0 || r.Votes > math.MaxInt-c.Votes {
			out.Ignored = append(out.Ignored, r)
			continue
		}
		c.Votes += r.Votes
		c.CenterBreakdown[center.ID] += r.Votes
		l.candidates[r.Party] = c
		out.Applied = append(out.Applied, r)
	}

	now := l.now()
	o := officer
	l.submissions[center.ID] = models.CenterSubmission{
		Submitted:    true,
		Timestamp:    &now,
		Officer:      &o,
		DeviceLocked: true,
	}

	// lastUpdated must advance even if the clock has not
	if !now.After(l.lastUpdated) {
		l.lastUpdated = l.lastUpdated.Add(time.Microsecond)
	} else {
		l.lastUpdated = now
	}

	out.At = now
	out.Snapshot = l.snapshotLocked()
	return out, nil
}

// Snapshot returns a deep copy of the current state
func (l *Ledger) Snapshot() models.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Ledger) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Candidates:        l.candidates,
		CenterSubmissions: l.submissions,
		LastUpdated:       l.lastUpdated,
	}.Clone()
}

// Registry returns the registry the ledger validates against
func (l *Ledger) Registry() *registry.Registry {
	return l.reg
}
