// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, event, and domain types for the tally server.

# Request Types

  - SubmitVoteRequest: centerCode, results ([]VoteResult), officer
  - VoteResult: party, votes

# Response Types

  - SubmitVoteResponse: success, candidates, centerSubmissions
  - CenterInfo: id, name, code, location (GET /get-centers)
  - ResultsResponse: candidates, centerSubmissions, lastUpdated
  - ErrorResponse: error, submittedAt (duplicate submissions only)

# Push Events

Every push message is an Event envelope:

	{"event": "vote-update", "data": {...}}

  - EventInitialData → InitialData (sent once per connection)
  - EventVoteUpdate  → VoteUpdate (sent after every accepted submission)

# Domain Types

  - Candidate: display name, image, votes, centerBreakdown (center ID → votes)
  - Center: registry entry with its access code
  - Officer: self-reported submitter profile
  - CenterSubmission: submitted flag, timestamp, officer, deviceLocked
  - Snapshot: candidates + centerSubmissions + lastUpdated
  - Archive: a Snapshot plus its calendar date

For every candidate, Votes equals the sum of CenterBreakdown. Snapshot.Clone
returns a deep copy so readers never share maps with the ledger.
*/
package models
