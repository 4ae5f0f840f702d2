// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs one line per request on completion (method, path, status, remote,
duration_ms). The wrapped writer still implements http.Hijacker, so the
websocket endpoint can sit behind it.

# Panic Recovery

	middleware.Recover("Error submitting vote", handler)

A panic is logged and answered with 500 and {"error": message}. Internals
never reach the client.

# CORS Middleware

Entry and display clients are served from other origins:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows GET, POST and OPTIONS with the Content-Type header. Preflight requests
get 204 without reaching the mux.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid center code")

Parse JSON request bodies (capped at MaxBodyBytes):

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
