// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCode = errors.New("invalid center code format")
)

// codeChars excludes look-alike characters (0/O, 1/I) since codes are typed by hand
const codeChars = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// NormalizeCode trims whitespace and upper-cases a center access code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// MatchCode compares two access codes in constant time after normalization
func MatchCode(given, want string) bool {
	g := NormalizeCode(given)
	w := NormalizeCode(want)
	if g == "" || w == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(g), []byte(w)) == 1
}

// MaskCode hides everything but the first group of a code so it can be logged
func MaskCode(code string) string {
	code = NormalizeCode(code)
	if code == "" {
		return ""
	}
	prefix, rest, found := strings.Cut(code, "-")
	if !found {
		if len(code) <= 2 {
			return strings.Repeat("*", len(code))
		}
		return code[:2] + strings.Repeat("*", len(code)-2)
	}
	masked := make([]byte, 0, len(rest))
	for i := 0; i < len(rest); i++ {
		if rest[i] == '-' {
			masked = append(masked, '-')
		} else {
			masked = append(masked, '*')
		}
	}
	return prefix + "-" + string(masked)
}

// GenerateCenterCode creates a code shaped like CTR1-8K3N-PLM9 for a center ID
func GenerateCenterCode(centerID int) (string, error) {
	if centerID <= 0 {
		return "", fmt.Errorf("center id must be positive, got %d", centerID)
	}
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate center code: %w", err)
	}
	for i := range b {
		b[i] = codeChars[int(b[i])%len(codeChars)]
	}
	return fmt.Sprintf("CTR%d-%s-%s", centerID, b[:4], b[4:]), nil
}

// ValidateCodeFormat checks that a code has three non-empty dash-separated groups
func ValidateCodeFormat(code string) error {
	parts := strings.Split(NormalizeCode(code), "-")
	if len(parts) != 3 {
		return ErrInvalidCode
	}
	for _, p := range parts {
		if p == "" {
			return ErrInvalidCode
		}
	}
	return nil
}
