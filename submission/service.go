// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submission

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KlausLynx/voting-system/auth"
	"github.com/KlausLynx/voting-system/ledger"
	"github.com/KlausLynx/voting-system/metrics"
	"github.com/KlausLynx/voting-system/models"
)

// LocalStore persists snapshots durably on this machine
type LocalStore interface {
	Save(snap models.Snapshot) error
}

// Mirror replicates snapshots to the remote store
type Mirror interface {
	Save(ctx context.Context, snap models.Snapshot) error
}

// Publisher fans events out to display clients. build is called once, under
// the publisher's own ordering lock.
type Publisher interface {
	PublishFunc(event string, build func() any)
}

// Result is an accepted submission as seen by the caller
type Result struct {
	ID       string
	Outcome  ledger.Outcome
	Snapshot models.Snapshot
}

// Service runs the submission protocol: apply to the ledger, save locally,
// mirror in the background, broadcast.
type Service struct {
	ledger *ledger.Ledger
	local  LocalStore
	remote Mirror
	pub    Publisher

	inflight sync.WaitGroup
}

func New(l *ledger.Ledger, local LocalStore, remote Mirror, pub Publisher) *Service {
	return &Service{
		ledger: l,
		local:  local,
		remote: remote,
		pub:    pub,
	}
}

// Submit applies a center's results. Validation errors from the ledger are
// returned as-is; persistence failures are logged and never returned, since
// the ledger has already committed the submission.
func (s *Service) Submit(req models.SubmitVoteRequest) (Result, error) {
	start := time.Now()

	out, err := s.ledger.ApplySubmission(req.CenterCode, req.Results, req.Officer)
	if err != nil {
		var dup *ledger.DuplicateSubmissionError
		switch {
		case errors.Is(err, ledger.ErrInvalidCenter):
			metrics.RecordSubmission("invalid_center", time.Since(start))
			slog.Warn("submission with unknown center code", "code", auth.MaskCode(req.CenterCode))
		case errors.As(err, &dup):
			metrics.RecordSubmission("duplicate", time.Since(start))
			slog.Warn("duplicate submission rejected", "center_id", dup.CenterID, "submitted_at", dup.SubmittedAt)
		default:
			metrics.RecordSubmission("error", time.Since(start))
		}
		return Result{}, err
	}

	id := uuid.NewString()
	slog.Info("submission accepted",
		"submission_id", id,
		"center_id", out.Center.ID,
		"applied", len(out.Applied),
		"ignored", len(out.Ignored),
	)
	if len(out.Ignored) > 0 {
		slog.Warn("submission entries ignored", "submission_id", id, "entries", out.Ignored)
	}

	if err := s.local.Save(out.Snapshot); err != nil {
		metrics.RecordPersistenceWarning(metrics.StoreLocal)
		slog.Warn("local save failed", "submission_id", id, "error", err)
	}

	s.mirrorAsync(id, out.Snapshot)
	s.publish(id, out)

	metrics.ObserveSnapshot(out.Snapshot)
	metrics.RecordSubmission("accepted", time.Since(start))

	return Result{ID: id, Outcome: out, Snapshot: out.Snapshot}, nil
}

// mirrorAsync pushes the snapshot to the mirror without holding up the
// officer's response.
func (s *Service) mirrorAsync(id string, snap models.Snapshot) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if err := s.remote.Save(context.Background(), snap); err != nil {
			metrics.RecordPersistenceWarning(metrics.StoreRemote)
			slog.Warn("mirror save failed", "submission_id", id, "error", err)
		}
	}()
}

// publish sends vote-update with the latest ledger totals. The snapshot is
// taken inside the publisher's lock so totals seen by any client never
// decrease, even when two submissions finish out of order.
func (s *Service) publish(id string, out ledger.Outcome) {
	officer := models.Officer{}
	if sub, ok := out.Snapshot.CenterSubmissions[out.Center.ID]; ok && sub.Officer != nil {
		officer = *sub.Officer
	}
	newSub := models.NewSubmission{
		ID:           id,
		CenterNumber: out.Center.ID,
		CenterName:   out.Center.Name,
		Timestamp:    out.At,
		Officer:      officer,
		Results:      out.Applied,
	}

	s.pub.PublishFunc(models.EventVoteUpdate, func() any {
		snap := s.ledger.Snapshot()
		return models.VoteUpdate{
			Candidates:        snap.Candidates,
			CenterSubmissions: snap.CenterSubmissions,
			NewSubmission:     newSub,
		}
	})
}

// Snapshot returns the current ledger state
func (s *Service) Snapshot() models.Snapshot {
	return s.ledger.Snapshot()
}

// InitialData builds the payload sent to a newly connected display client
func (s *Service) InitialData() models.InitialData {
	snap := s.ledger.Snapshot()
	return models.InitialData{
		Candidates:        snap.Candidates,
		CenterSubmissions: snap.CenterSubmissions,
		CenterRegistry:    s.ledger.Registry().PublicCenters(),
	}
}

// Wait blocks until background mirror writes have finished
func (s *Service) Wait() {
	s.inflight.Wait()
}

// Flush writes the current state to both stores. Used at shutdown.
func (s *Service) Flush(ctx context.Context) {
	s.Wait()

	snap := s.ledger.Snapshot()
	if err := s.local.Save(snap); err != nil {
		metrics.RecordPersistenceWarning(metrics.StoreLocal)
		slog.Warn("final local save failed", "error", err)
	}
	if err := s.remote.Save(ctx, snap); err != nil {
		metrics.RecordPersistenceWarning(metrics.StoreRemote)
		slog.Warn("final mirror save failed", "error", err)
	}
}
