// Package booking implements the reservation engine: validation, pricing
// and the serialized check-then-commit that prevents double bookings.
package booking

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine. Handlers map these onto stable
// machine-readable codes; errors.Is works across wrapping.
var (
	// ErrDateConflict means the requested range overlaps an active
	// reservation. The caller can recover by choosing different dates.
	ErrDateConflict = errors.New("selected dates are not available for this property")

	// ErrNotFound means the property or reservation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the requester does not own the reservation.
	ErrForbidden = errors.New("forbidden")

	// ErrPersistence means the underlying storage failed. Any partial
	// store mutation has been rolled back; the caller should retry later.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError reports a user-correctable problem with a single input
// field of a reserve request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
