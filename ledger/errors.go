// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCenter = errors.New("invalid center code")
)

// DuplicateSubmissionError is returned when a center that already submitted
// tries again. SubmittedAt is the time of the accepted submission.
type DuplicateSubmissionError struct {
	CenterID    int
	SubmittedAt time.Time
}

func (e *DuplicateSubmissionError) Error() string {
	return fmt.Sprintf("center %d already submitted at %s", e.CenterID, e.SubmittedAt.Format(time.RFC3339))
}
