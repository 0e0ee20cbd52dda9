package service

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired indicates an operation attempted with no signed-in
	// user; no mutation is performed
	ErrAuthRequired = errors.New("authentication required")

	// ErrNotFound indicates the target record does not exist for the
	// current user. Soft for removals (the record may already be gone via
	// another session), hard for settlements.
	ErrNotFound = errors.New("bet record not found")
)

// PartialFailureError reports a bulk operation where only a subset of the
// deletions succeeded. FailedIDs lists the records still present so the
// caller can retry exactly those.
type PartialFailureError struct {
	Attempted int
	FailedIDs []string
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("cleared %d of %d bet records, %d failed",
		e.Attempted-len(e.FailedIDs), e.Attempted, len(e.FailedIDs))
}

// AsPartialFailure extracts a PartialFailureError from an error chain
func AsPartialFailure(err error) (*PartialFailureError, bool) {
	var pf *PartialFailureError
	if errors.As(err, &pf) {
		return pf, true
	}
	return nil, false
}
