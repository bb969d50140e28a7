package model

import "time"

// Reservation statuses. A reservation is created confirmed directly (there
// is no approval step) and only ever transitions to cancelled.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Payment method tags accepted on a booking. Payment itself is simulated;
// the tag is validated and stored, nothing is charged.
const (
	PaymentCard = "card"
	PaymentCash = "cash"
)

// Reservation records a guest's stay at a property. It is owned by the
// user who created it and referenced by the property through the derived
// occupied-range set.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – guest who made the reservation.
//  PropertyID      – property being reserved.
//  Range           – half-open stay interval.
//  GuestCount      – number of guests (1–10).
//  PaymentMethod   – "card" or "cash".
//  TotalPriceCents – nightly rate × nights + cleaning fee + service fee.
//  Status          – "confirmed" or "cancelled".
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64    `json:"id"`
	UserID          uint64    `json:"user_id"`
	PropertyID      uint64    `json:"property_id"`
	Range           DateRange `json:"range"`
	GuestCount      int       `json:"guest_count"`
	PaymentMethod   string    `json:"payment_method"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Active reports whether the reservation still blocks its dates.
func (r *Reservation) Active() bool {
	return r.Status != StatusCancelled
}
