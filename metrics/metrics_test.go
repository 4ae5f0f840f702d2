package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/KlausLynx/voting-system/models"
)

func TestRecordSubmission(t *testing.T) {
	before := testutil.ToFloat64(SubmissionsTotal.WithLabelValues("duplicate"))

	RecordSubmission("duplicate", 5*time.Millisecond)

	after := testutil.ToFloat64(SubmissionsTotal.WithLabelValues("duplicate"))
	if after != before+1 {
		t.Errorf("Expected counter to increment by 1, got %v -> %v", before, after)
	}
}

func TestRecordMirror(t *testing.T) {
	okBefore := testutil.ToFloat64(MirrorOperations.WithLabelValues("save", "success"))
	errBefore := testutil.ToFloat64(MirrorOperations.WithLabelValues("save", "error"))

	RecordMirror("save", nil)
	RecordMirror("save", errors.New("boom"))

	if got := testutil.ToFloat64(MirrorOperations.WithLabelValues("save", "success")); got != okBefore+1 {
		t.Errorf("Expected success counter %v, got %v", okBefore+1, got)
	}
	if got := testutil.ToFloat64(MirrorOperations.WithLabelValues("save", "error")); got != errBefore+1 {
		t.Errorf("Expected error counter %v, got %v", errBefore+1, got)
	}
}

func TestObserveSnapshot(t *testing.T) {
	ts := time.Now()
	snap := models.Snapshot{
		Candidates: map[string]models.Candidate{
			"Gauge Party": {Votes: 42, CenterBreakdown: map[int]int{1: 42}},
		},
		CenterSubmissions: map[int]models.CenterSubmission{
			1: {Submitted: true, Timestamp: &ts},
			2: {},
		},
	}

	ObserveSnapshot(snap)

	if got := testutil.ToFloat64(CandidateVotes.WithLabelValues("Gauge Party")); got != 42 {
		t.Errorf("Expected 42, got %v", got)
	}
	if got := testutil.ToFloat64(CentersSubmitted); got != 1 {
		t.Errorf("Expected 1 submitted center, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	RecordPersistenceWarning(StoreLocal)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "tally_persistence_warnings_total") {
		t.Error("Expected persistence warnings metric in exposition")
	}
}
