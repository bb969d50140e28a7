package model

import "time"

// Property represents a rental listing as stored in the `properties`
// table. The set of dates a property cannot be booked for is not stored
// here: it is derived from the active reservations (see occupied_ranges)
// and must always equal their union.
//
// Fields:
//  ID               – primary key identifier.
//  HostID           – user who listed the property.
//  Title            – short listing title.
//  Location         – free-form location string.
//  Description      – longer listing description.
//  NightlyRateCents – price per night in cents.
//  ImageURL         – cover image location.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Property struct {
	ID               uint64    `json:"id"`
	HostID           uint64    `json:"host_id"`
	Title            string    `json:"title"`
	Location         string    `json:"location"`
	Description      string    `json:"description"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	ImageURL         string    `json:"image_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
