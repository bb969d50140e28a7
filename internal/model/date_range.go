package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates. Stays are booked by
// whole days, so no time-of-day component is carried anywhere.
const DateLayout = "2006-01-02"

// DateRange is a half-open interval of calendar dates: the check-in day is
// included, the check-out day is excluded. Under this policy a reservation
// ending on a given day and another starting on that same day do not
// overlap, which is what allows back-to-back bookings.
//
// Fields:
//  CheckIn  – first occupied night (inclusive), midnight UTC.
//  CheckOut – day of departure (exclusive), midnight UTC.
type DateRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// NewDateRange normalizes both dates to midnight UTC and enforces
// CheckIn < CheckOut. A zero-length or inverted range is rejected.
func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	r := DateRange{CheckIn: Date(checkIn), CheckOut: Date(checkOut)}
	if !r.CheckIn.Before(r.CheckOut) {
		return DateRange{}, fmt.Errorf("check-in %s must be before check-out %s",
			r.CheckIn.Format(DateLayout), r.CheckOut.Format(DateLayout))
	}
	return r, nil
}

// ParseDateRange builds a DateRange from two ISO dates (YYYY-MM-DD).
func ParseDateRange(start, end string) (DateRange, error) {
	in, err := time.ParseInLocation(DateLayout, start, time.UTC)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q", start)
	}
	out, err := time.ParseInLocation(DateLayout, end, time.UTC)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q", end)
	}
	return NewDateRange(in, out)
}

// IsValid reports whether the range is well-formed (CheckIn strictly
// before CheckOut).
func (r DateRange) IsValid() bool {
	return r.CheckIn.Before(r.CheckOut)
}

// Overlaps reports whether two half-open ranges share at least one night:
// start1 < end2 AND start2 < end1. Touching endpoints do not overlap.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(r.CheckOut)
}

// Nights returns the number of whole days between check-in and check-out,
// which under half-open semantics is exactly the number of billed nights.
func (r DateRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn) / (24 * time.Hour))
}

// String renders the range as "2025-02-10..2025-02-12" for logs.
func (r DateRange) String() string {
	return r.CheckIn.Format(DateLayout) + ".." + r.CheckOut.Format(DateLayout)
}

// Date truncates a timestamp to its calendar day at midnight UTC.
func Date(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
