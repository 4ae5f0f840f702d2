// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/KlausLynx/voting-system/auth"
	"github.com/KlausLynx/voting-system/models"
)

// CandidateInfo is the static identity of a candidate on the ballot
type CandidateInfo struct {
	Party string `json:"party"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Registry is the fixed set of centers and candidates for one election.
// It is never mutated after construction.
type Registry struct {
	centers    []models.Center
	byID       map[int]models.Center
	candidates []CandidateInfo
}

type registryFile struct {
	Centers    []models.Center `json:"centers"`
	Candidates []CandidateInfo `json:"candidates"`
}

// New validates and builds a registry
func New(centers []models.Center, candidates []CandidateInfo) (*Registry, error) {
	if len(centers) == 0 {
		return nil, errors.New("registry needs at least one center")
	}
	if len(candidates) == 0 {
		return nil, errors.New("registry needs at least one candidate")
	}

	r := &Registry{
		byID: make(map[int]models.Center, len(centers)),
	}

	codes := make(map[string]int, len(centers))
	for _, c := range centers {
		if c.ID <= 0 {
			return nil, fmt.Errorf("center %q: id must be positive", c.Name)
		}
		if _, dup := r.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate center id %d", c.ID)
		}
		if err := auth.ValidateCodeFormat(c.Code); err != nil {
			return nil, errors.Wrapf(err, "center %d", c.ID)
		}
		code := auth.NormalizeCode(c.Code)
		if other, dup := codes[code]; dup {
			return nil, fmt.Errorf("centers %d and %d share an access code", other, c.ID)
		}
		codes[code] = c.ID
		c.Code = code
		r.byID[c.ID] = c
		r.centers = append(r.centers, c)
	}
	sort.Slice(r.centers, func(i, j int) bool { return r.centers[i].ID < r.centers[j].ID })

	parties := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c.Party == "" {
			return nil, errors.New("candidate party is required")
		}
		if parties[c.Party] {
			return nil, fmt.Errorf("duplicate party %q", c.Party)
		}
		parties[c.Party] = true
		r.candidates = append(r.candidates, c)
	}

	return r, nil
}

// Load reads a registry from a JSON file of the form
// {"centers": [...], "candidates": [...]}
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read registry file")
	}

	var f registryFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse registry file")
	}

	return New(f.Centers, f.Candidates)
}

// Resolve finds the center owning an access code. Every entry is compared so
// the lookup time does not depend on which center matched.
func (r *Registry) Resolve(code string) (models.Center, bool) {
	var found models.Center
	ok := false
	for _, c := range r.centers {
		if auth.MatchCode(code, c.Code) {
			found = c
			ok = true
		}
	}
	return found, ok
}

func (r *Registry) Center(id int) (models.Center, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// Centers returns all centers ordered by ID
func (r *Registry) Centers() []models.Center {
	out := make([]models.Center, len(r.centers))
	copy(out, r.centers)
	return out
}

// Candidates returns candidates in ballot order
func (r *Registry) Candidates() []CandidateInfo {
	out := make([]CandidateInfo, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// CenterInfos is the GET /get-centers listing, codes included
func (r *Registry) CenterInfos() []models.CenterInfo {
	out := make([]models.CenterInfo, 0, len(r.centers))
	for _, c := range r.centers {
		out = append(out, models.CenterInfo{ID: c.ID, Name: c.Name, Code: c.Code, Location: c.Location})
	}
	return out
}

// PublicCenters is the registry as sent to display clients, without codes
func (r *Registry) PublicCenters() []models.PublicCenter {
	out := make([]models.PublicCenter, 0, len(r.centers))
	for _, c := range r.centers {
		out = append(out, models.PublicCenter{ID: c.ID, Name: c.Name, Location: c.Location})
	}
	return out
}
