package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/homigo/booking-api/internal/booking"
	"github.com/homigo/booking-api/internal/model"
)

// This file adapts the SQL repositories to the interfaces the booking
// engine consumes, translating repository sentinels into the engine's
// error vocabulary at the boundary.

// EngineCatalog exposes PropertyRepo as a booking.Catalog.
type EngineCatalog struct {
	Properties *PropertyRepo
}

var _ booking.Catalog = (*EngineCatalog)(nil)

// GetProperty implements booking.Catalog.
func (c *EngineCatalog) GetProperty(ctx context.Context, propertyID uint64) (*model.Property, error) {
	p, err := c.Properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			return nil, fmt.Errorf("property %d: %w", propertyID, booking.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// EngineReservations exposes ReservationRepo as a booking.ReservationStore.
// Create writes the reservation row and its occupied range in a single
// transaction (see ReservationRepo.Create), so a lost race surfaces here
// as booking.ErrDateConflict and the paired AvailabilityRepo.Commit is a
// no-op for the same reservation.
type EngineReservations struct {
	Reservations *ReservationRepo
}

var _ booking.ReservationStore = (*EngineReservations)(nil)

// Create implements booking.ReservationStore.
func (s *EngineReservations) Create(ctx context.Context, res *model.Reservation) error {
	err := s.Reservations.Create(ctx, res)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrRangeOccupied):
		return booking.ErrDateConflict
	case errors.Is(err, ErrPropertyNotFound):
		return fmt.Errorf("property %d: %w", res.PropertyID, booking.ErrNotFound)
	default:
		return err
	}
}

// Get implements booking.ReservationStore.
func (s *EngineReservations) Get(ctx context.Context, reservationID uint64) (*model.Reservation, error) {
	res, err := s.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			return nil, fmt.Errorf("reservation %d: %w", reservationID, booking.ErrNotFound)
		}
		return nil, err
	}
	return res, nil
}

// SetStatus implements booking.ReservationStore.
func (s *EngineReservations) SetStatus(ctx context.Context, reservationID uint64, status string) error {
	err := s.Reservations.SetStatus(ctx, reservationID, status)
	if errors.Is(err, ErrReservationNotFound) {
		return fmt.Errorf("reservation %d: %w", reservationID, booking.ErrNotFound)
	}
	return err
}

// Delete implements booking.ReservationStore.
func (s *EngineReservations) Delete(ctx context.Context, reservationID uint64) error {
	return s.Reservations.Delete(ctx, reservationID)
}
