package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is; messages wrap them with
// the concrete reason.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
)

// Forbidden reasons the UI must tell apart. Both match ErrForbidden.
var (
	ErrDayClosed        = fmt.Errorf("%w: day is closed", ErrForbidden)
	ErrInitiativeClosed = fmt.Errorf("%w: initiative is finalized", ErrForbidden)
)

// StorageError wraps a persistence failure so it matches ErrStorage while
// keeping the underlying cause reachable.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// IsRuleViolation reports whether err is a rejected request rather than a
// failure: a validation, conflict or forbidden error.
func IsRuleViolation(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) || errors.Is(err, ErrForbidden)
}
