// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides utilities for center access codes.

An access code is an opaque bearer credential handed to the officers of one
polling center. It is a shared secret, not a hardened authentication scheme.

# Matching

Codes are normalized (trimmed, upper-cased) and compared in constant time:

	if auth.MatchCode(req.CenterCode, center.Code) { ... }

# Logging

Never log a full code. MaskCode keeps only the first group:

	auth.MaskCode("CTR1-8K3N-PLM9") // "CTR1-****-****"

# Generation

Registry files can be seeded with fresh codes:

	code, err := auth.GenerateCenterCode(7) // e.g. "CTR7-Q4ZK-M2HT"

Generated codes avoid look-alike characters. ValidateCodeFormat checks the
three-group shape when a registry file is loaded.
*/
package auth
