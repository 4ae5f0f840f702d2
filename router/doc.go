// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the tally API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{
		Service:   svc,
		Registry:  reg,
		Push:      hub,
		ImagesDir: cfg.ImagesDir,
	})

CORS is applied by the caller around the whole mux.

# Endpoints

Health:

	GET /health

Entry client:

	POST /submit-vote - Submit a center's results (once per center)
	GET  /get-centers - Centers with access codes

Display clients:

	GET /results  - Current totals and per-center status
	GET /ws       - Push channel (initial-data, then vote-update)
	GET /images/  - Candidate images, when ImagesDir is set

Operations:

	GET /metrics - Prometheus metrics

POST /submit-vote is wrapped in middleware.Recover so a panic becomes a
generic 500.
*/
package router
