// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/KlausLynx/voting-system/broadcast"
	"github.com/KlausLynx/voting-system/db"
	"github.com/KlausLynx/voting-system/ledger"
	"github.com/KlausLynx/voting-system/mirror"
	"github.com/KlausLynx/voting-system/models"
	"github.com/KlausLynx/voting-system/registry"
	"github.com/KlausLynx/voting-system/store"
	"github.com/KlausLynx/voting-system/submission"
)

// Access codes of the built-in registry
const (
	Center1Code = "CTR1-8K3N-PLM9"
	Center2Code = "CTR2-Q7WX-T4RB"
	Center3Code = "CTR3-M5HD-Z8KC"
)

// Env is a fully wired tally backed by a temp directory and a SQLite mirror
type Env struct {
	Registry *registry.Registry
	Ledger   *ledger.Ledger
	Store    *store.Store
	DB       *sql.DB
	Mirror   *mirror.Mirror
	Hub      *broadcast.Hub
	Service  *submission.Service
}

// NewEnv builds an empty tally with a reachable mirror
func NewEnv(t *testing.T) *Env {
	t.Helper()
	return newEnv(t, false)
}

// NewEnvWithUnreachableMirror builds an empty tally whose mirror connection
// is already closed, so every remote write fails
func NewEnvWithUnreachableMirror(t *testing.T) *Env {
	t.Helper()
	return newEnv(t, true)
}

func newEnv(t *testing.T, closeMirror bool) *Env {
	t.Helper()

	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	conn := SetupTestDB(t)
	if closeMirror {
		conn.Close()
	}

	reg := registry.Default()
	l := ledger.New(reg, nil)

	env := &Env{
		Registry: reg,
		Ledger:   l,
		Store:    st,
		DB:       conn,
		Mirror:   mirror.New(conn),
	}
	env.Hub = broadcast.NewHub(func() models.InitialData {
		return env.Service.InitialData()
	})
	env.Service = submission.New(l, st, env.Mirror, env.Hub)

	t.Cleanup(func() {
		env.Service.Wait()
		env.Hub.Close()
	})
	return env
}

// SetupTestDB opens a fresh SQLite database in a temp directory
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "mirror.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// SampleRequest is the reference submission: 150 / 120 / 80
func SampleRequest(code string) models.SubmitVoteRequest {
	return models.SubmitVoteRequest{
		CenterCode: code,
		Results: []models.VoteResult{
			{Party: "Amuneke Party", Votes: 150},
			{Party: "WayForward Party", Votes: 120},
			{Party: "I Must Win", Votes: 80},
		},
		Officer: models.Officer{
			Name:    "Ada Obi",
			Phone:   "08030000000",
			NIN:     "12345678901",
			Address: "12 Market Road",
		},
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
