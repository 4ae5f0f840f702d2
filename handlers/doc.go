// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the tally API.

# Handler Types

TallyHandler holds the submission service and the center registry:

	h := handlers.NewTallyHandler(svc, reg)

# Endpoints

	POST /submit-vote  → SubmitVote
	GET  /get-centers  → GetCenters
	GET  /results      → GetResults

# Submitting Results

The body carries the center's access code, one entry per party and the
officer's profile:

	{
	  "centerCode": "CTR1-8K3N-PLM9",
	  "results": [{"party": "Amuneke Party", "votes": 150}],
	  "officer": {"name": "...", "phone": "...", "nin": "...", "address": "..."}
	}

Responses:

	200 {"success": true, "candidates": {...}, "centerSubmissions": {...}}
	400 {"error": "Invalid JSON"}
	400 {"error": "Invalid center code"}
	400 {"error": "Center already submitted", "submittedAt": "..."}
	500 {"error": "Error submitting vote"}

A 200 means the in-memory ledger committed the result. Local and mirror
writes that fail afterwards are logged and do not change the response.
Entries for unknown parties or with negative votes are dropped without
failing the request.

# Centers

GetCenters returns {id, name, code, location} for every center. The code is
a shared secret for the entry client; display clients get the code-free
registry over the push channel instead.
*/
package handlers
