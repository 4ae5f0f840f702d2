// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package broadcast pushes live tally events to display clients over WebSocket.

Every message is a JSON envelope:

	{"event": "initial-data", "data": {"candidates": ..., "centerSubmissions": ..., "centerRegistry": [...]}}
	{"event": "vote-update",  "data": {"candidates": ..., "centerSubmissions": ..., "newSubmission": {...}}}

A Hub is an http.Handler. A new connection receives initial-data before it
is registered for updates, so no vote-update can arrive ahead of it:

	hub := broadcast.NewHub(func() models.InitialData { ... })
	mux.Handle("GET /ws", hub)
	hub.Publish(models.EventVoteUpdate, update)

PublishFunc builds the payload under the same lock that guards initial-data,
so a client never receives an update computed from state older than what it
was first sent:

	hub.PublishFunc(models.EventVoteUpdate, func() any { return buildUpdate() })

Publish never blocks on a slow client: each client has a bounded queue and
is disconnected when it fills up. Clients reconnect and receive a fresh
initial-data.
*/
package broadcast
