package booking

import "sync"

// propertyLocks hands out one mutex per property ID so that the engine's
// check-then-commit is serialized per property while bookings for
// different properties proceed in parallel. Mutexes are created lazily
// and kept for the life of the process; the map grows with the number of
// distinct properties booked, which is bounded by the catalog size.
type propertyLocks struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func newPropertyLocks() *propertyLocks {
	return &propertyLocks{locks: make(map[uint64]*sync.Mutex)}
}

// acquire locks the property's mutex and returns the matching unlock.
func (p *propertyLocks) acquire(propertyID uint64) func() {
	p.mu.Lock()
	l, ok := p.locks[propertyID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[propertyID] = l
	}
	p.mu.Unlock()
	l.Lock()
	return l.Unlock
}
