package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/homigo/booking-api/internal/availability"
	"github.com/homigo/booking-api/internal/model"
)

type memCatalog struct {
	props map[uint64]*model.Property
}

func (c *memCatalog) GetProperty(ctx context.Context, id uint64) (*model.Property, error) {
	if p, ok := c.props[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

// memReservations is an in-memory ReservationStore for engine tests.
type memReservations struct {
	mu     sync.Mutex
	nextID uint64
	items  map[uint64]model.Reservation
}

func newMemReservations() *memReservations {
	return &memReservations{items: make(map[uint64]model.Reservation)}
}

func (s *memReservations) Create(ctx context.Context, res *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	res.ID = s.nextID
	s.items[res.ID] = *res
	return nil
}

func (s *memReservations) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &res, nil
}

func (s *memReservations) SetStatus(ctx context.Context, id uint64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	res.Status = status
	s.items[id] = res
	return nil
}

func (s *memReservations) Delete(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func testRange(t *testing.T, start, end string) model.DateRange {
	t.Helper()
	r, err := model.ParseDateRange(start, end)
	if err != nil {
		t.Fatalf("ParseDateRange(%q, %q): %v", start, end, err)
	}
	return r
}

// newTestEngine builds an engine over in-memory stores with two
// properties: 1 at 15000 cents/night and 2 at 9000 cents/night.
func newTestEngine(t *testing.T) (*Engine, *availability.MemStore, *memReservations) {
	t.Helper()
	catalog := &memCatalog{props: map[uint64]*model.Property{
		1: {ID: 1, HostID: 100, Title: "Seaside flat", NightlyRateCents: 15000},
		2: {ID: 2, HostID: 100, Title: "City loft", NightlyRateCents: 9000},
	}}
	avail := availability.NewMemStore()
	avail.AddProperty(1)
	avail.AddProperty(2)
	reservations := newMemReservations()
	e := NewEngine(catalog, avail, reservations, Fees{CleaningCents: 2500, ServiceCents: 500})
	return e, avail, reservations
}

func reserveReq(t *testing.T, propertyID uint64, start, end string) ReserveRequest {
	t.Helper()
	return ReserveRequest{
		UserID:        7,
		PropertyID:    propertyID,
		Range:         testRange(t, start, end),
		GuestCount:    2,
		PaymentMethod: model.PaymentCard,
	}
}

func TestReserveValidation(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		mutate    func(*ReserveRequest)
		wantField string
	}{
		{"inverted dates", func(r *ReserveRequest) { r.Range = model.DateRange{} }, "dates"},
		{"zero guests", func(r *ReserveRequest) { r.GuestCount = 0 }, "guestCount"},
		{"too many guests", func(r *ReserveRequest) { r.GuestCount = MaxGuests + 1 }, "guestCount"},
		{"bad payment method", func(r *ReserveRequest) { r.PaymentMethod = "bitcoin" }, "paymentMethod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := reserveReq(t, 1, "2025-02-10", "2025-02-12")
			tt.mutate(&req)
			_, err := e.Reserve(ctx, req)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Reserve() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestReserveUnknownProperty(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.Reserve(context.Background(), reserveReq(t, 999, "2025-02-10", "2025-02-12"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Reserve() error = %v, want ErrNotFound", err)
	}
}

func TestReserveSuccessAndPricing(t *testing.T) {
	e, avail, _ := newTestEngine(t)
	ctx := context.Background()

	res, err := e.Reserve(ctx, reserveReq(t, 1, "2025-02-10", "2025-02-12"))
	if err != nil {
		t.Fatalf("Reserve(): %v", err)
	}
	if res.ID == 0 {
		t.Error("reservation ID not assigned")
	}
	if res.Status != model.StatusConfirmed {
		t.Errorf("Status = %q, want %q", res.Status, model.StatusConfirmed)
	}
	// 2 nights * 15000 + 2500 cleaning + 500 service.
	if want := int64(33000); res.TotalPriceCents != want {
		t.Errorf("TotalPriceCents = %d, want %d", res.TotalPriceCents, want)
	}

	free, err := avail.IsRangeFree(ctx, 1, res.Range)
	if err != nil || free {
		t.Errorf("range still free after Reserve: (%v, %v)", free, err)
	}
}

func TestReserveConflicts(t *testing.T) {
	e, avail, _ := newTestEngine(t)
	ctx := context.Background()

	first := testRange(t, "2025-02-10", "2025-02-14")
	if _, err := e.Reserve(ctx, reserveReq(t, 1, "2025-02-10", "2025-02-14")); err != nil {
		t.Fatalf("first Reserve(): %v", err)
	}

	// Overlapping attempt on the same property loses and leaves no trace.
	if _, err := e.Reserve(ctx, reserveReq(t, 1, "2025-02-12", "2025-02-16")); !errors.Is(err, ErrDateConflict) {
		t.Errorf("overlapping Reserve() error = %v, want ErrDateConflict", err)
	}
	occupied, err := avail.OccupiedRanges(1)
	if err != nil {
		t.Fatalf("OccupiedRanges: %v", err)
	}
	if len(occupied) != 1 || !occupied[0].CheckIn.Equal(first.CheckIn) || !occupied[0].CheckOut.Equal(first.CheckOut) {
		t.Errorf("occupied set after failed attempt = %v, want exactly [%s]", occupied, first)
	}

	// Back-to-back stay is allowed.
	if _, err := e.Reserve(ctx, reserveReq(t, 1, "2025-02-14", "2025-02-16")); err != nil {
		t.Errorf("back-to-back Reserve(): %v", err)
	}

	// Same dates on a different property are independent.
	if _, err := e.Reserve(ctx, reserveReq(t, 2, "2025-02-10", "2025-02-14")); err != nil {
		t.Errorf("Reserve() on other property: %v", err)
	}
}

func TestCancel(t *testing.T) {
	e, avail, _ := newTestEngine(t)
	ctx := context.Background()

	res, err := e.Reserve(ctx, reserveReq(t, 1, "2025-02-10", "2025-02-12"))
	if err != nil {
		t.Fatalf("Reserve(): %v", err)
	}

	if err := e.Cancel(ctx, res.ID, 42); !errors.Is(err, ErrForbidden) {
		t.Errorf("Cancel by other user: err = %v, want ErrForbidden", err)
	}
	if err := e.Cancel(ctx, 999, res.UserID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Cancel unknown id: err = %v, want ErrNotFound", err)
	}

	if err := e.Cancel(ctx, res.ID, res.UserID); err != nil {
		t.Fatalf("Cancel(): %v", err)
	}
	// Cancelling again is a no-op.
	if err := e.Cancel(ctx, res.ID, res.UserID); err != nil {
		t.Errorf("second Cancel(): %v", err)
	}

	free, err := avail.IsRangeFree(ctx, 1, res.Range)
	if err != nil || !free {
		t.Errorf("range not freed after Cancel: (%v, %v)", free, err)
	}
	// The freed dates can be booked again.
	if _, err := e.Reserve(ctx, reserveReq(t, 1, "2025-02-10", "2025-02-12")); err != nil {
		t.Errorf("Reserve() after Cancel: %v", err)
	}
}

func TestConcurrentReserveSameRange(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	const attempts = 16
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			req := reserveReq(t, 1, "2025-07-01", "2025-07-08")
			req.UserID = userID
			_, err := e.Reserve(ctx, req)
			errs <- err
		}(uint64(i + 1))
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDateConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("successful reservations = %d, want exactly 1", ok)
	}
	if conflicts != attempts-1 {
		t.Errorf("date conflicts = %d, want %d", conflicts, attempts-1)
	}
}

// failingAvail wraps a Store and fails every Commit, exercising the
// engine's rollback of the reservation row.
type failingAvail struct {
	availability.Store
}

func (f *failingAvail) Commit(ctx context.Context, propertyID uint64, r model.DateRange, reservationID uint64) error {
	return fmt.Errorf("commit refused")
}

func TestReserveRollsBackOnCommitFailure(t *testing.T) {
	catalog := &memCatalog{props: map[uint64]*model.Property{
		1: {ID: 1, HostID: 100, NightlyRateCents: 15000},
	}}
	mem := availability.NewMemStore()
	mem.AddProperty(1)
	reservations := newMemReservations()
	e := NewEngine(catalog, &failingAvail{Store: mem}, reservations, Fees{})
	ctx := context.Background()

	_, err := e.Reserve(ctx, reserveReq(t, 1, "2025-02-10", "2025-02-12"))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("Reserve() error = %v, want ErrPersistence", err)
	}
	// No reservation row may survive the failed commit.
	reservations.mu.Lock()
	n := len(reservations.items)
	reservations.mu.Unlock()
	if n != 0 {
		t.Errorf("reservation rows after failed commit = %d, want 0", n)
	}
}
