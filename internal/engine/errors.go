// Package engine is the match-scoring core: a pure state machine over the
// ball ledger. Every operation here is synchronous and all-or-nothing; the
// caller owns locking and persistence.
package engine

import (
	"errors"
	"fmt"
)

// ErrRejected is the marker for deliveries that violate a scoring rule.
// The human-readable reason is retrieved via Reason(err).
var ErrRejected = errors.New("delivery rejected")

// ErrSetupPending signals that the active innings has no opening recorded.
// Callers may supply the opening selection and retry exactly once.
var ErrSetupPending = errors.New("opening setup pending")

// ErrNothingToUndo signals an undo against an empty ledger.
var ErrNothingToUndo = errors.New("nothing to undo")

// rejectedError carries a rejection reason and unwraps to ErrRejected.
type rejectedError struct {
	reason string
}

func (e *rejectedError) Error() string { return e.reason }
func (e *rejectedError) Unwrap() error { return ErrRejected }

func reject(format string, args ...any) error {
	return &rejectedError{reason: fmt.Sprintf(format, args...)}
}

// Reject builds a rule rejection with the given reason. It exists for the
// service layer's own gate checks (lifecycle, setup ordering) so every
// rejected operation reaches the client through the same error shape.
func Reject(format string, args ...any) error {
	return reject(format, args...)
}

// Reason extracts the rejection reason, or the plain error text for anything
// that is not a rule rejection.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var re *rejectedError
	if errors.As(err, &re) {
		return re.reason
	}
	return err.Error()
}
