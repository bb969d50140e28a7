package availability

import (
	"context"
	"sort"
	"sync"

	"github.com/homigo/booking-api/internal/model"
)

// MemStore is an in-memory Store keeping one occupied-range map per
// property. It is safe for concurrent use; a single RWMutex guards the
// whole structure, which is plenty given that the overlap check is a
// linear scan over one property's handful of active reservations.
type MemStore struct {
	mu       sync.RWMutex
	occupied map[uint64]map[uint64]model.DateRange // propertyID -> reservationID -> range
}

// NewMemStore returns an empty in-memory availability store.
func NewMemStore() *MemStore {
	return &MemStore{occupied: make(map[uint64]map[uint64]model.DateRange)}
}

// AddProperty registers a property with no occupied ranges. Queries for
// properties that were never added fail with ErrPropertyUnknown.
func (s *MemStore) AddProperty(propertyID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.occupied[propertyID]; !ok {
		s.occupied[propertyID] = make(map[uint64]model.DateRange)
	}
}

// RemoveProperty forgets a property and all its occupied ranges.
func (s *MemStore) RemoveProperty(propertyID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.occupied, propertyID)
}

// IsRangeFree implements Store.
func (s *MemStore) IsRangeFree(ctx context.Context, propertyID uint64, r model.DateRange) (bool, error) {
	if !r.IsValid() {
		return false, ErrInvalidRange
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ranges, ok := s.occupied[propertyID]
	if !ok {
		return false, ErrPropertyUnknown
	}
	for _, occ := range ranges {
		if occ.Overlaps(r) {
			return false, nil
		}
	}
	return true, nil
}

// Commit implements Store. It re-runs the overlap scan under the write
// lock so that an occupied set can never contain two overlapping ranges,
// even if a caller skipped the free check.
func (s *MemStore) Commit(ctx context.Context, propertyID uint64, r model.DateRange, reservationID uint64) error {
	if !r.IsValid() {
		return ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ranges, ok := s.occupied[propertyID]
	if !ok {
		return ErrPropertyUnknown
	}
	for id, occ := range ranges {
		if id != reservationID && occ.Overlaps(r) {
			return ErrRangeConflict
		}
	}
	ranges[reservationID] = r
	return nil
}

// Release implements Store. Unknown reservation IDs are ignored so the
// operation stays idempotent.
func (s *MemStore) Release(ctx context.Context, propertyID, reservationID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ranges, ok := s.occupied[propertyID]
	if !ok {
		return ErrPropertyUnknown
	}
	delete(ranges, reservationID)
	return nil
}

// OccupiedRanges returns the property's occupied ranges sorted by
// check-in date. Used by availability endpoints and tests.
func (s *MemStore) OccupiedRanges(propertyID uint64) ([]model.DateRange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ranges, ok := s.occupied[propertyID]
	if !ok {
		return nil, ErrPropertyUnknown
	}
	out := make([]model.DateRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}
