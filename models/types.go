package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Push channel event names
const (
	EventInitialData = "initial-data"
	EventVoteUpdate  = "vote-update"
)

// Request types

type VoteResult struct {
	Party string `json:"party"`
	Votes int    `json:"votes"`

	malformed bool
}

// UnmarshalJSON accepts any entry shape. A party that is not a string or a
// vote count that is not a JSON integer marks the entry malformed instead of
// failing the whole request.
func (v *VoteResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Party json.RawMessage `json:"party"`
		Votes json.RawMessage `json:"votes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		*v = VoteResult{malformed: true}
		return nil
	}

	*v = VoteResult{}
	if err := json.Unmarshal(raw.Party, &v.Party); err != nil || isNull(raw.Party) {
		v.malformed = true
	}
	if err := json.Unmarshal(raw.Votes, &v.Votes); err != nil || isNull(raw.Votes) {
		v.Votes = 0
		v.malformed = true
	}
	return nil
}

// Malformed reports whether the entry could not be read as {party, votes}
func (v VoteResult) Malformed() bool {
	return v.malformed
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

type SubmitVoteRequest struct {
	CenterCode string       `json:"centerCode"`
	Results    []VoteResult `json:"results"`
	Officer    Officer      `json:"officer"`
}

// Response types

type SubmitVoteResponse struct {
	Success           bool                     `json:"success"`
	Candidates        map[string]Candidate     `json:"candidates"`
	CenterSubmissions map[int]CenterSubmission `json:"centerSubmissions"`
}

// CenterInfo is the public listing entry returned by GET /get-centers.
// Code is a shared secret handed to the officers' devices.
type CenterInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Location string `json:"location"`
}

type ResultsResponse struct {
	Candidates        map[string]Candidate     `json:"candidates"`
	CenterSubmissions map[int]CenterSubmission `json:"centerSubmissions"`
	LastUpdated       time.Time                `json:"lastUpdated"`
}

// Push channel payloads

type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// PublicCenter is a registry entry without its access code.
type PublicCenter struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type InitialData struct {
	Candidates        map[string]Candidate     `json:"candidates"`
	CenterSubmissions map[int]CenterSubmission `json:"centerSubmissions"`
	CenterRegistry    []PublicCenter           `json:"centerRegistry"`
}

type NewSubmission struct {
	ID           string       `json:"id"`
	CenterNumber int          `json:"centerNumber"`
	CenterName   string       `json:"centerName"`
	Timestamp    time.Time    `json:"timestamp"`
	Officer      Officer      `json:"officer"`
	Results      []VoteResult `json:"results"`
}

type VoteUpdate struct {
	Candidates        map[string]Candidate     `json:"candidates"`
	CenterSubmissions map[int]CenterSubmission `json:"centerSubmissions"`
	NewSubmission     NewSubmission            `json:"newSubmission"`
}

// Domain types

type Candidate struct {
	Name            string      `json:"name"`
	Image           string      `json:"image,omitempty"`
	Votes           int         `json:"votes"`
	CenterBreakdown map[int]int `json:"centerBreakdown"`
}

type Center struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Location string `json:"location"`
}

// Officer is a self-reported profile of whoever submitted a center's results.
type Officer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	NIN     string `json:"nin"`
	Address string `json:"address,omitempty"`
}

type CenterSubmission struct {
	Submitted    bool       `json:"submitted"`
	Timestamp    *time.Time `json:"timestamp"`
	Officer      *Officer   `json:"officer"`
	DeviceLocked bool       `json:"deviceLocked"`
}

// Snapshot is the unit of persistence and replication. A newer snapshot
// replaces an older one entirely.
type Snapshot struct {
	Candidates        map[string]Candidate     `json:"candidates"`
	CenterSubmissions map[int]CenterSubmission `json:"centerSubmissions"`
	LastUpdated       time.Time                `json:"lastUpdated"`
}

// Archive is a daily checkpoint of a snapshot, keyed by calendar date.
type Archive struct {
	Date string `json:"date"`
	Snapshot
}

// Clone returns a deep copy that shares no maps or pointers with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Candidates:        make(map[string]Candidate, len(s.Candidates)),
		CenterSubmissions: make(map[int]CenterSubmission, len(s.CenterSubmissions)),
		LastUpdated:       s.LastUpdated,
	}
	for party, c := range s.Candidates {
		breakdown := make(map[int]int, len(c.CenterBreakdown))
		for id, v := range c.CenterBreakdown {
			breakdown[id] = v
		}
		c.CenterBreakdown = breakdown
		out.Candidates[party] = c
	}
	for id, sub := range s.CenterSubmissions {
		if sub.Timestamp != nil {
			ts := *sub.Timestamp
			sub.Timestamp = &ts
		}
		if sub.Officer != nil {
			o := *sub.Officer
			sub.Officer = &o
		}
		out.CenterSubmissions[id] = sub
	}
	return out
}

// HasVotes reports whether any candidate has a nonzero total.
func (s Snapshot) HasVotes() bool {
	for _, c := range s.Candidates {
		if c.Votes != 0 {
			return true
		}
	}
	return false
}

// Error response

type ErrorResponse struct {
	Error       string     `json:"error"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}
