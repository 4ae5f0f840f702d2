// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registry holds the static election configuration: polling centers and
candidates.

The registry is loaded once at startup and never mutated:

	reg := registry.Default()
	reg, err := registry.Load("registry.json")

A registry file looks like:

	{
	  "centers": [
	    {"id": 1, "name": "Center 1", "code": "CTR1-8K3N-PLM9", "location": "Ward 1"}
	  ],
	  "candidates": [
	    {"party": "Amuneke Party", "name": "Gov Amune", "image": "/images/amune.jpg"}
	  ]
	}

Center IDs must be positive and unique, and codes must be unique after
normalization. Resolve maps an access code to its center.
*/
package registry
