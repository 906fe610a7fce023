package services

import (
	"errors"
	"fmt"
)

// Error kinds callers branch on. Controllers map these to HTTP statuses;
// nobody string-matches messages.
var (
	// ErrNotFound covers missing appointments, workers and clients.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers bad input shape or range, rejected before any
	// write.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRole is returned when a referenced user does not hold the
	// role the operation requires.
	ErrInvalidRole = errors.New("invalid role")
)

// ConflictError blocks a mutation because of double-booking or approved
// leave. It is retryable only via an explicit override, which always writes
// an audit record.
type ConflictError struct {
	Report *ConflictReport
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict: %d booking, %d leave",
		len(e.Report.BookingConflicts), len(e.Report.LeaveConflicts))
}

// AsConflict unwraps a ConflictError if err is one.
func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
