package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KlausLynx/voting-system/models"
)

const (
	namespace = "tally"
)

// Store labels
const (
	StoreLocal  = "local"
	StoreRemote = "remote"
)

var (
	// SubmissionsTotal counts submission attempts by result
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Total number of center result submissions",
		},
		[]string{"result"}, // accepted/invalid_center/duplicate/error
	)

	// SubmissionDuration measures time spent applying and persisting a submission
	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Submission latency in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
	)

	// PersistenceWarnings counts failed writes that did not fail a submission
	PersistenceWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_warnings_total",
			Help:      "Total number of non-fatal persistence failures",
		},
		[]string{"store"}, // local/remote
	)

	// MirrorOperations counts remote mirror calls
	MirrorOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mirror_operations_total",
			Help:      "Total number of remote mirror operations",
		},
		[]string{"op", "status"}, // op: save/load, status: success/error
	)

	// BackupsPruned counts backup files removed by retention
	BackupsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backups_pruned_total",
			Help:      "Total number of backup files removed by retention",
		},
	)

	// ArchivesWritten counts daily archive writes
	ArchivesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archives_written_total",
			Help:      "Total number of daily archive writes",
		},
	)

	// Subscribers tracks connected display clients
	Subscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscribers",
			Help:      "Number of connected display clients",
		},
	)

	// BroadcastsTotal counts push events sent to subscribers
	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Total number of push events published",
		},
		[]string{"event"},
	)

	// CandidateVotes tracks current totals per party
	CandidateVotes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candidate_votes",
			Help:      "Current vote total per party",
		},
		[]string{"party"},
	)

	// CentersSubmitted tracks how many centers are locked
	CentersSubmitted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "centers_submitted",
			Help:      "Number of centers that have submitted results",
		},
	)
)

// RecordSubmission records a submission attempt
func RecordSubmission(result string, d time.Duration) {
	SubmissionsTotal.WithLabelValues(result).Inc()
	SubmissionDuration.Observe(d.Seconds())
}

// RecordPersistenceWarning records a failed write to store
func RecordPersistenceWarning(store string) {
	PersistenceWarnings.WithLabelValues(store).Inc()
}

// RecordMirror records a mirror call
func RecordMirror(op string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	MirrorOperations.WithLabelValues(op, status).Inc()
}

// ObserveSnapshot updates the tally gauges from a snapshot
func ObserveSnapshot(snap models.Snapshot) {
	for party, c := range snap.Candidates {
		CandidateVotes.WithLabelValues(party).Set(float64(c.Votes))
	}
	submitted := 0
	for _, sub := range snap.CenterSubmissions {
		if sub.Submitted {
			submitted++
		}
	}
	CentersSubmitted.Set(float64(submitted))
}

// Handler serves the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.Handler()
}
