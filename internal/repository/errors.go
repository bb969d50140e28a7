// Package repository contains data access logic separated from HTTP
// handlers. This file defines sentinel error values reused across the
// repositories so higher layers can distinguish failure scenarios with
// errors.Is instead of string matching.
package repository

import "errors"

// ErrPropertyNotFound is returned when a property cannot be found.
var ErrPropertyNotFound = errors.New("property not found")

// ErrReservationNotFound is returned when a reservation cannot be found.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrRangeOccupied is returned when a reservation write loses the race
// for a date range: the in-transaction re-check found an overlapping
// active reservation for the same property.
var ErrRangeOccupied = errors.New("date range already occupied")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")
