// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/KlausLynx/voting-system/handlers"
	"github.com/KlausLynx/voting-system/metrics"
	"github.com/KlausLynx/voting-system/middleware"
	"github.com/KlausLynx/voting-system/registry"
	"github.com/KlausLynx/voting-system/submission"
)

// Deps are the collaborators the routes are wired to
type Deps struct {
	Service  *submission.Service
	Registry *registry.Registry
	// Push is the display-client websocket endpoint
	Push http.Handler
	// ImagesDir is served under /images/ when set
	ImagesDir string
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	tallyHandler := handlers.NewTallyHandler(deps.Service, deps.Registry)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Entry client
	mux.HandleFunc("POST /submit-vote", middleware.WithLogging(
		middleware.Recover(handlers.MsgSubmitFailed, tallyHandler.SubmitVote)))
	mux.HandleFunc("GET /get-centers", middleware.WithLogging(tallyHandler.GetCenters))

	// Display clients
	mux.HandleFunc("GET /results", middleware.WithLogging(tallyHandler.GetResults))
	if deps.Push != nil {
		mux.HandleFunc("GET /ws", middleware.WithLogging(deps.Push.ServeHTTP))
	}
	if deps.ImagesDir != "" {
		mux.Handle("GET /images/", http.StripPrefix("/images/", http.FileServer(http.Dir(deps.ImagesDir))))
	}

	mux.Handle("GET /metrics", metrics.Handler())

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("voting-system tally API v1"))
	})

	return mux
}
