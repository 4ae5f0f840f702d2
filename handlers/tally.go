// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/KlausLynx/voting-system/ledger"
	"github.com/KlausLynx/voting-system/middleware"
	"github.com/KlausLynx/voting-system/models"
	"github.com/KlausLynx/voting-system/registry"
	"github.com/KlausLynx/voting-system/submission"
)

const (
	// MsgSubmitFailed is the only detail a client sees for internal failures
	MsgSubmitFailed = "Error submitting vote"

	msgInvalidJSON      = "Invalid JSON"
	msgInvalidCenter    = "Invalid center code"
	msgAlreadySubmitted = "Center already submitted"
)

type TallyHandler struct {
	svc *submission.Service
	reg *registry.Registry
}

func NewTallyHandler(svc *submission.Service, reg *registry.Registry) *TallyHandler {
	return &TallyHandler{svc: svc, reg: reg}
}

// SubmitVote handles POST /submit-vote
func (h *TallyHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	res, err := h.svc.Submit(req)
	if err != nil {
		var dup *ledger.DuplicateSubmissionError
		switch {
		case errors.Is(err, ledger.ErrInvalidCenter):
			middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidCenter)
		case errors.As(err, &dup):
			resp := models.ErrorResponse{Error: msgAlreadySubmitted}
			if !dup.SubmittedAt.IsZero() {
				submittedAt := dup.SubmittedAt
				resp.SubmittedAt = &submittedAt
			}
			middleware.JSONResponse(w, http.StatusBadRequest, resp)
		default:
			slog.Error("failed to submit vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, MsgSubmitFailed)
		}
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SubmitVoteResponse{
		Success:           true,
		Candidates:        res.Snapshot.Candidates,
		CenterSubmissions: res.Snapshot.CenterSubmissions,
	})
}

// GetCenters handles GET /get-centers
// Codes are included: the entry client matches them locally before submitting
func (h *TallyHandler) GetCenters(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.reg.CenterInfos())
}

// GetResults handles GET /results
func (h *TallyHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Candidates:        snap.Candidates,
		CenterSubmissions: snap.CenterSubmissions,
		LastUpdated:       snap.LastUpdated,
	})
}
