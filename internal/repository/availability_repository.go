package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/homigo/booking-api/internal/availability"
	"github.com/homigo/booking-api/internal/model"
)

// AvailabilityRepo is the SQL-backed availability.Store. The occupied
// set lives in the occupied_ranges table, keyed by (property_id,
// reservation_id) with reservation_id unique, and is the single place
// availability queries look — never the reservations table directly.
type AvailabilityRepo struct {
	db *sql.DB
}

// NewAvailabilityRepo returns an AvailabilityRepo bound to the database.
func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

var _ availability.Store = (*AvailabilityRepo)(nil)

// IsRangeFree implements availability.Store.
func (r *AvailabilityRepo) IsRangeFree(ctx context.Context, propertyID uint64, rng model.DateRange) (bool, error) {
	if !rng.IsValid() {
		return false, availability.ErrInvalidRange
	}
	var exists uint64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM properties WHERE id = ?`, propertyID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, availability.ErrPropertyUnknown
		}
		return false, err
	}
	var conflicts int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM occupied_ranges WHERE property_id = ? AND start_date < ? AND ? < end_date`,
		propertyID,
		rng.CheckOut.Format(model.DateLayout),
		rng.CheckIn.Format(model.DateLayout),
	).Scan(&conflicts)
	if err != nil {
		return false, err
	}
	return conflicts == 0, nil
}

// Commit implements availability.Store. ReservationRepo.Create already
// writes the occupied range in the reservation's own transaction, so the
// insert here tolerates the row being present (the unique key on
// reservation_id makes the retry a no-op). A genuinely new commit
// re-checks for overlap under the property row lock before inserting.
func (r *AvailabilityRepo) Commit(ctx context.Context, propertyID uint64, rng model.DateRange, reservationID uint64) error {
	if !rng.IsValid() {
		return availability.ErrInvalidRange
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM properties WHERE id = ? FOR UPDATE`, propertyID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return availability.ErrPropertyUnknown
		}
		return err
	}

	var conflicts int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM occupied_ranges
		 WHERE property_id = ? AND reservation_id <> ? AND start_date < ? AND ? < end_date`,
		propertyID, reservationID,
		rng.CheckOut.Format(model.DateLayout),
		rng.CheckIn.Format(model.DateLayout),
	).Scan(&conflicts)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return availability.ErrRangeConflict
	}

	const q = `INSERT INTO occupied_ranges (property_id, reservation_id, start_date, end_date)
	           VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE start_date = VALUES(start_date), end_date = VALUES(end_date)`
	if _, err := tx.ExecContext(ctx, q,
		propertyID, reservationID,
		rng.CheckIn.Format(model.DateLayout),
		rng.CheckOut.Format(model.DateLayout)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Release implements availability.Store. Deleting a row that is already
// gone affects nothing, which keeps the operation idempotent.
func (r *AvailabilityRepo) Release(ctx context.Context, propertyID, reservationID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM occupied_ranges WHERE property_id = ? AND reservation_id = ?`,
		propertyID, reservationID)
	return err
}

// OccupiedRanges returns the property's occupied ranges ordered by
// check-in date. Returns availability.ErrPropertyUnknown for unknown
// properties so the public endpoint can answer 404.
func (r *AvailabilityRepo) OccupiedRanges(ctx context.Context, propertyID uint64) ([]model.DateRange, error) {
	var exists uint64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM properties WHERE id = ?`, propertyID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, availability.ErrPropertyUnknown
		}
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT start_date, end_date FROM occupied_ranges WHERE property_id = ? ORDER BY start_date`,
		propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.DateRange, 0)
	for rows.Next() {
		var rng model.DateRange
		if err := rows.Scan(&rng.CheckIn, &rng.CheckOut); err != nil {
			return nil, err
		}
		out = append(out, rng)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
