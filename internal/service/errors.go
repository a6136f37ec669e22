package service

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrIssueNotFound   = errors.New("issue not found")
	ErrAlreadyResolved = errors.New("issue already resolved")
)

// ValidationError rejects bad report input. Oversized fields are truncated,
// not rejected; only an empty title fails validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// InvariantViolation marks a broken store invariant (a duplicate generated
// issue id). The operation must abort without writing; this is never
// recovered by retrying the same call.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Detail)
}
