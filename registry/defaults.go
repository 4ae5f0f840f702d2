// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import "github.com/KlausLynx/voting-system/models"

var defaultCandidates = []CandidateInfo{
	{Party: "Amuneke Party", Name: "Gov Amune", Image: "/images/amune.jpg"},
	{Party: "WayForward Party", Name: "Peter Akah", Image: "/images/peter.jpg"},
	{Party: "I Must Win", Name: "Mamamia", Image: "/images/mamamia.jpg"},
}

var defaultCenters = []models.Center{
	{ID: 1, Name: "Center 1 - Central Primary School", Code: "CTR1-8K3N-PLM9", Location: "Ward 1, Town Centre"},
	{ID: 2, Name: "Center 2 - Community Hall", Code: "CTR2-Q7WX-T4RB", Location: "Ward 2, Market Road"},
	{ID: 3, Name: "Center 3 - Health Centre Grounds", Code: "CTR3-M5HD-Z8KC", Location: "Ward 3, Hospital Road"},
	{ID: 4, Name: "Center 4 - Secondary School Hall", Code: "CTR4-V2JN-Y6PS", Location: "Ward 4, School Lane"},
	{ID: 5, Name: "Center 5 - Town Square", Code: "CTR5-B9FG-E3LU", Location: "Ward 5, Square Avenue"},
}

// Default returns the built-in registry used when no registry file is configured
func Default() *Registry {
	r, err := New(defaultCenters, defaultCandidates)
	if err != nil {
		panic("registry: invalid built-in registry: " + err.Error())
	}
	return r
}
