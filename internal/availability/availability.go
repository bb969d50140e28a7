// Package availability owns the derived occupied-range set of each
// property and answers the question "is this date range free". The set is
// a cache over active reservations, never an independent source of truth:
// every commit and release happens together with the reservation write
// that caused it.
package availability

import (
	"context"
	"errors"

	"github.com/homigo/booking-api/internal/model"
)

// ErrPropertyUnknown is returned when a query names a property the store
// has never seen. Handlers should translate this into an HTTP 404.
var ErrPropertyUnknown = errors.New("availability: unknown property")

// ErrInvalidRange is returned for zero-length or inverted date ranges.
// An invalid range is never reported as free.
var ErrInvalidRange = errors.New("availability: invalid date range")

// ErrRangeConflict is returned by Commit when the range overlaps an
// already committed, non-released range for the same property. Commit
// refusing the write is the last line of defence; callers are expected
// to check IsRangeFree first under per-property mutual exclusion.
var ErrRangeConflict = errors.New("availability: range already occupied")

// Store is the authoritative availability interface for properties.
// Implementations must keep the occupied set equal to the union of the
// ranges of all committed, non-released reservations.
type Store interface {
	// IsRangeFree reports whether r overlaps no occupied range of the
	// property. It returns ErrPropertyUnknown for unknown properties and
	// ErrInvalidRange when r is not a well-formed half-open range.
	IsRangeFree(ctx context.Context, propertyID uint64, r model.DateRange) (bool, error)

	// Commit records r as occupied by the given reservation.
	Commit(ctx context.Context, propertyID uint64, r model.DateRange, reservationID uint64) error

	// Release removes the reservation's range from the occupied set.
	// Releasing a reservation that holds no range is a no-op.
	Release(ctx context.Context, propertyID, reservationID uint64) error
}
