// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a reservation is successfully
// committed. It carries enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
	ReservationID   uint64 `json:"reservation_id"`
	UserID          uint64 `json:"user_id"`
	PropertyID      uint64 `json:"property_id"`
	PropertyTitle   string `json:"property_title"`
	Location        string `json:"location"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Nights          int    `json:"nights"`
	GuestCount      int    `json:"guest_count"`
	PaymentMethod   string `json:"payment_method"`
	TotalPriceCents int64  `json:"total_price_cents"`
	ConfirmedAt     string `json:"confirmed_at"`
}

// BookingCancelledEvent is published when a guest cancels a reservation
// and its dates become available again.
type BookingCancelledEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	PropertyID    uint64 `json:"property_id"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	CancelledAt   string `json:"cancelled_at"`
}
