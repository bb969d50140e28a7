package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/homigo/booking-api/internal/availability"
	"github.com/homigo/booking-api/internal/model"
)

// Guest count bounds accepted on a booking.
const (
	MinGuests = 1
	MaxGuests = 10
)

// Catalog resolves property IDs to listings. Implementations return
// ErrNotFound (possibly wrapped) for unknown properties.
type Catalog interface {
	GetProperty(ctx context.Context, propertyID uint64) (*model.Property, error)
}

// ReservationStore persists reservation records. Implementations return
// ErrNotFound (possibly wrapped) when a reservation does not exist.
// Transactional implementations may write the reservation's occupied
// range in the same transaction as the row and return ErrDateConflict
// when the range was taken; the paired availability.Store must then treat
// the subsequent Commit of the same reservation as a no-op. Delete exists
// solely for the engine's rollback path: when the availability commit
// fails after the reservation row was written, the row is removed so that
// occupied ranges and persisted reservations never disagree.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	Get(ctx context.Context, reservationID uint64) (*model.Reservation, error)
	SetStatus(ctx context.Context, reservationID uint64, status string) error
	Delete(ctx context.Context, reservationID uint64) error
}

// Fees are the flat per-booking charges added on top of the nightly rate.
type Fees struct {
	CleaningCents int64
	ServiceCents  int64
}

// Engine validates and executes booking attempts. The check-then-commit
// sequence in Reserve is serialized per property: two concurrent attempts
// on overlapping ranges of the same property resolve to exactly one
// success and one date conflict, while bookings on different properties
// never contend.
type Engine struct {
	catalog      Catalog
	avail        availability.Store
	reservations ReservationStore
	fees         Fees
	locks        *propertyLocks
}

// NewEngine constructs an Engine. All dependencies must be non-nil.
func NewEngine(catalog Catalog, avail availability.Store, reservations ReservationStore, fees Fees) *Engine {
	if catalog == nil || avail == nil || reservations == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{
		catalog:      catalog,
		avail:        avail,
		reservations: reservations,
		fees:         fees,
		locks:        newPropertyLocks(),
	}
}

// ReserveRequest carries the validated-on-entry inputs of a booking
// attempt.
type ReserveRequest struct {
	UserID        uint64
	PropertyID    uint64
	Range         model.DateRange
	GuestCount    int
	PaymentMethod string
}

// Reserve validates the request, checks availability and, when the range
// is free, persists a confirmed reservation and commits its range — all
// under the property's lock so the check and the commit are indivisible.
// No mutation survives a failure.
func (e *Engine) Reserve(ctx context.Context, req ReserveRequest) (*model.Reservation, error) {
	if !req.Range.IsValid() {
		return nil, invalidField("dates", "check-in must be before check-out")
	}
	if req.GuestCount < MinGuests || req.GuestCount > MaxGuests {
		return nil, invalidField("guestCount", fmt.Sprintf("must be between %d and %d", MinGuests, MaxGuests))
	}
	if req.PaymentMethod != model.PaymentCard && req.PaymentMethod != model.PaymentCash {
		return nil, invalidField("paymentMethod", `must be "card" or "cash"`)
	}

	unlock := e.locks.acquire(req.PropertyID)
	defer unlock()

	prop, err := e.catalog.GetProperty(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("property %d: %w", req.PropertyID, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: load property: %v", ErrPersistence, err)
	}

	free, err := e.avail.IsRangeFree(ctx, req.PropertyID, req.Range)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrPropertyUnknown):
			return nil, fmt.Errorf("property %d: %w", req.PropertyID, ErrNotFound)
		case errors.Is(err, availability.ErrInvalidRange):
			return nil, invalidField("dates", "check-in must be before check-out")
		default:
			return nil, fmt.Errorf("%w: availability check: %v", ErrPersistence, err)
		}
	}
	if !free {
		return nil, ErrDateConflict
	}

	now := time.Now().UTC()
	res := &model.Reservation{
		UserID:          req.UserID,
		PropertyID:      req.PropertyID,
		Range:           req.Range,
		GuestCount:      req.GuestCount,
		PaymentMethod:   req.PaymentMethod,
		TotalPriceCents: e.Quote(prop, req.Range),
		Status:          model.StatusConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := e.reservations.Create(ctx, res); err != nil {
		if errors.Is(err, ErrDateConflict) {
			return nil, ErrDateConflict
		}
		return nil, fmt.Errorf("%w: create reservation: %v", ErrPersistence, err)
	}
	if err := e.avail.Commit(ctx, req.PropertyID, req.Range, res.ID); err != nil {
		// Roll back the reservation row so the occupied set and the
		// reservation collection cannot disagree.
		_ = e.reservations.Delete(ctx, res.ID)
		if errors.Is(err, availability.ErrRangeConflict) {
			return nil, ErrDateConflict
		}
		return nil, fmt.Errorf("%w: commit range: %v", ErrPersistence, err)
	}
	return res, nil
}

// Cancel marks the reservation cancelled and releases its range. Only the
// owning user may cancel. Cancelling an already-cancelled reservation is
// a no-op, not an error.
func (e *Engine) Cancel(ctx context.Context, reservationID, requestingUserID uint64) error {
	res, err := e.reservations.Get(ctx, reservationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("reservation %d: %w", reservationID, ErrNotFound)
		}
		return fmt.Errorf("%w: load reservation: %v", ErrPersistence, err)
	}
	if res.UserID != requestingUserID {
		return ErrForbidden
	}
	if res.Status == model.StatusCancelled {
		return nil
	}

	unlock := e.locks.acquire(res.PropertyID)
	defer unlock()

	if err := e.reservations.SetStatus(ctx, reservationID, model.StatusCancelled); err != nil {
		return fmt.Errorf("%w: cancel reservation: %v", ErrPersistence, err)
	}
	if err := e.avail.Release(ctx, res.PropertyID, reservationID); err != nil && !errors.Is(err, availability.ErrPropertyUnknown) {
		return fmt.Errorf("%w: release range: %v", ErrPersistence, err)
	}
	return nil
}

// Quote computes the total price for a stay: nightly rate times the
// number of nights plus the flat cleaning and service fees.
func (e *Engine) Quote(prop *model.Property, r model.DateRange) int64 {
	return prop.NightlyRateCents*int64(r.Nights()) + e.fees.CleaningCents + e.fees.ServiceCents
}
