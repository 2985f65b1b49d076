package store

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups on rows that provisioning guarantees to exist.
// It is reachable only when a caller bypasses provisioning.
var ErrNotFound = errors.New("store: record not found")

// ValidationError reports caller input that violates a documented constraint.
// It is always returned before any write begins.
type ValidationError struct {
	Field  string // Offending field name.
	Reason string // Human-readable constraint description.
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
