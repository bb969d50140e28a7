package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/homigo/booking-api/internal/model"
)

func rangeOf(t *testing.T, start, end string) model.DateRange {
	t.Helper()
	r, err := model.ParseDateRange(start, end)
	if err != nil {
		t.Fatalf("ParseDateRange(%q, %q): %v", start, end, err)
	}
	return r
}

func TestMemStoreUnknownProperty(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	r := rangeOf(t, "2025-02-10", "2025-02-12")

	if _, err := s.IsRangeFree(ctx, 1, r); !errors.Is(err, ErrPropertyUnknown) {
		t.Errorf("IsRangeFree on unknown property: err = %v, want ErrPropertyUnknown", err)
	}
	if err := s.Commit(ctx, 1, r, 10); !errors.Is(err, ErrPropertyUnknown) {
		t.Errorf("Commit on unknown property: err = %v, want ErrPropertyUnknown", err)
	}
	if err := s.Release(ctx, 1, 10); !errors.Is(err, ErrPropertyUnknown) {
		t.Errorf("Release on unknown property: err = %v, want ErrPropertyUnknown", err)
	}
}

func TestMemStoreInvalidRange(t *testing.T) {
	s := NewMemStore()
	s.AddProperty(1)
	ctx := context.Background()

	var bad model.DateRange // zero value, CheckIn == CheckOut
	if _, err := s.IsRangeFree(ctx, 1, bad); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("IsRangeFree with invalid range: err = %v, want ErrInvalidRange", err)
	}
	if err := s.Commit(ctx, 1, bad, 10); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Commit with invalid range: err = %v, want ErrInvalidRange", err)
	}
}

func TestMemStoreCommitConflict(t *testing.T) {
	s := NewMemStore()
	s.AddProperty(1)
	ctx := context.Background()

	if err := s.Commit(ctx, 1, rangeOf(t, "2025-02-10", "2025-02-12"), 10); err != nil {
		t.Fatalf("first Commit: %v", err)
	}
	// Overlapping range under a different reservation must be rejected.
	if err := s.Commit(ctx, 1, rangeOf(t, "2025-02-11", "2025-02-13"), 11); !errors.Is(err, ErrRangeConflict) {
		t.Errorf("overlapping Commit: err = %v, want ErrRangeConflict", err)
	}
	// Re-committing the same reservation's own range is allowed.
	if err := s.Commit(ctx, 1, rangeOf(t, "2025-02-10", "2025-02-12"), 10); err != nil {
		t.Errorf("re-Commit own range: %v", err)
	}
	// Back-to-back is not a conflict.
	if err := s.Commit(ctx, 1, rangeOf(t, "2025-02-12", "2025-02-14"), 12); err != nil {
		t.Errorf("back-to-back Commit: %v", err)
	}

	free, err := s.IsRangeFree(ctx, 1, rangeOf(t, "2025-02-10", "2025-02-11"))
	if err != nil || free {
		t.Errorf("IsRangeFree over committed range = (%v, %v), want (false, nil)", free, err)
	}
}

func TestMemStoreReleaseIdempotent(t *testing.T) {
	s := NewMemStore()
	s.AddProperty(1)
	ctx := context.Background()
	r := rangeOf(t, "2025-02-10", "2025-02-12")

	if err := s.Commit(ctx, 1, r, 10); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.Release(ctx, 1, 10); err != nil {
			t.Fatalf("Release #%d: %v", i+1, err)
		}
	}
	free, err := s.IsRangeFree(ctx, 1, r)
	if err != nil || !free {
		t.Errorf("IsRangeFree after release = (%v, %v), want (true, nil)", free, err)
	}
}

func TestMemStoreIsolatesProperties(t *testing.T) {
	s := NewMemStore()
	s.AddProperty(1)
	s.AddProperty(2)
	ctx := context.Background()
	r := rangeOf(t, "2025-02-10", "2025-02-12")

	if err := s.Commit(ctx, 1, r, 10); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	free, err := s.IsRangeFree(ctx, 2, r)
	if err != nil || !free {
		t.Errorf("property 2 should be unaffected by property 1's bookings: (%v, %v)", free, err)
	}
}
