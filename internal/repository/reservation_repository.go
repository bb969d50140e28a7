package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/homigo/booking-api/internal/model"
)

// ReservationRepo provides persistence for reservations and keeps the
// occupied_ranges table in lockstep with them. Every write that changes
// which dates a property has blocked happens in a single transaction
// covering both tables, so the derived occupied set can never drift from
// the set of active reservations.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Create inserts a confirmed reservation and its occupied range in one
// transaction. The property row is locked with SELECT ... FOR UPDATE and
// the overlap check is re-run under that lock, so two processes racing
// for the same dates cannot both commit: the loser gets
// ErrRangeOccupied. Returns ErrPropertyNotFound for unknown properties.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
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

	// Serialize concurrent reservation writes for this property.
	var propertyID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM properties WHERE id = ? FOR UPDATE`, res.PropertyID).Scan(&propertyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPropertyNotFound
		}
		return err
	}

	// Half-open overlap: an occupied range conflicts iff its start is
	// before our end and our start is before its end.
	var conflicts int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM occupied_ranges WHERE property_id = ? AND start_date < ? AND ? < end_date`,
		res.PropertyID,
		res.Range.CheckOut.Format(model.DateLayout),
		res.Range.CheckIn.Format(model.DateLayout),
	).Scan(&conflicts)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return ErrRangeOccupied
	}

	const qInsert = `INSERT INTO reservations
	                 (user_id, property_id, start_date, end_date, guest_count, payment_method, total_price_cents, status)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, qInsert,
		res.UserID, res.PropertyID,
		res.Range.CheckIn.Format(model.DateLayout),
		res.Range.CheckOut.Format(model.DateLayout),
		res.GuestCount, res.PaymentMethod, res.TotalPriceCents, res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	const qRange = `INSERT INTO occupied_ranges (property_id, reservation_id, start_date, end_date)
	                VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, qRange,
		res.PropertyID, res.ID,
		res.Range.CheckIn.Format(model.DateLayout),
		res.Range.CheckOut.Format(model.DateLayout)); err != nil {
		return err
	}

	// Read back DB-assigned timestamps.
	err = tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM reservations WHERE id = ?`, res.ID).
		Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

const reservationColumns = `id, user_id, property_id, start_date, end_date, guest_count,
	payment_method, total_price_cents, status, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.UserID, &res.PropertyID,
		&res.Range.CheckIn, &res.Range.CheckOut, &res.GuestCount,
		&res.PaymentMethod, &res.TotalPriceCents, &res.Status,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GetByID fetches a reservation. Returns ErrReservationNotFound when no
// row exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = "SELECT " + reservationColumns + " FROM reservations WHERE id = ?"
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// SetStatus updates a reservation's status. Moving to cancelled also
// deletes the occupied range in the same transaction; repeating the
// cancellation finds no range row and changes nothing.
func (r *ReservationRepo) SetStatus(ctx context.Context, id uint64, status string) error {
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

	result, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		// RowsAffected is also 0 when the status already matches; only
		// report not-found when the row truly does not exist.
		var exists uint64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM reservations WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrReservationNotFound
			}
			return err
		}
	}
	if status == model.StatusCancelled {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM occupied_ranges WHERE reservation_id = ?`, id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a reservation and its occupied range. Used by the
// engine's rollback path and by property cascade deletes.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
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
	if _, err := tx.ExecContext(ctx, `DELETE FROM occupied_ranges WHERE reservation_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ReservationDetail is a reservation joined with its property's listing
// fields, as returned to guests listing their bookings.
type ReservationDetail struct {
	model.Reservation
	PropertyTitle    string `json:"property_title"`
	PropertyLocation string `json:"property_location"`
	PropertyImageURL string `json:"property_image_url"`
}

// ListByUser returns all reservations created by a user, newest first,
// with property details attached.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]*ReservationDetail, error) {
	const q = `SELECT r.id, r.user_id, r.property_id, r.start_date, r.end_date, r.guest_count,
	                  r.payment_method, r.total_price_cents, r.status, r.created_at, r.updated_at,
	                  p.title, p.location, p.image_url
	           FROM reservations r
	           JOIN properties p ON p.id = r.property_id
	           WHERE r.user_id = ?
	           ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.PropertyID,
			&d.Range.CheckIn, &d.Range.CheckOut, &d.GuestCount,
			&d.PaymentMethod, &d.TotalPriceCents, &d.Status,
			&d.CreatedAt, &d.UpdatedAt,
			&d.PropertyTitle, &d.PropertyLocation, &d.PropertyImageURL); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
