// This file defines repository methods for property listings. A Property
// is listed by a single host; its derived occupied ranges live in the
// occupied_ranges table and are managed by the reservation repository and
// the availability repository, never here.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/homigo/booking-api/internal/model"
)

// PropertyRepo encapsulates all database queries related to properties.
type PropertyRepo struct {
	db *sql.DB
}

// NewPropertyRepo constructs a PropertyRepo with the provided DB handle.
func NewPropertyRepo(db *sql.DB) *PropertyRepo {
	return &PropertyRepo{db: db}
}

const propertyColumns = "id, host_id, title, location, description, nightly_rate_cents, image_url, created_at, updated_at"

func scanProperty(row interface{ Scan(...any) error }) (*model.Property, error) {
	var p model.Property
	err := row.Scan(&p.ID, &p.HostID, &p.Title, &p.Location, &p.Description,
		&p.NightlyRateCents, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new property. On success the ID, CreatedAt and
// UpdatedAt fields are populated from the stored row.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	const qInsert = `INSERT INTO properties (host_id, title, location, description, nightly_rate_cents, image_url)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		p.HostID, p.Title, p.Location, p.Description, p.NightlyRateCents, p.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const qSelect = "SELECT " + propertyColumns + " FROM properties WHERE id = ?"
	stored, err := scanProperty(r.db.QueryRowContext(ctx, qSelect, p.ID))
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// GetByID fetches a property regardless of host. Returns
// ErrPropertyNotFound when no row exists.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
	const q = "SELECT " + propertyColumns + " FROM properties WHERE id = ?"
	p, err := scanProperty(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByIDAndHost fetches a property only if it belongs to the host.
// Returns ErrPropertyNotFound when the row is missing or owned by
// someone else.
func (r *PropertyRepo) GetByIDAndHost(ctx context.Context, id, hostID uint64) (*model.Property, error) {
	const q = "SELECT " + propertyColumns + " FROM properties WHERE id = ? AND host_id = ?"
	p, err := scanProperty(r.db.QueryRowContext(ctx, q, id, hostID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByHost returns all properties of a host ordered by id.
func (r *PropertyRepo) ListByHost(ctx context.Context, hostID uint64) ([]*model.Property, error) {
	const q = "SELECT " + propertyColumns + " FROM properties WHERE host_id = ? ORDER BY id"
	return r.list(ctx, q, hostID)
}

// ListAll returns every property, newest first. Used by the public
// browse endpoint.
func (r *PropertyRepo) ListAll(ctx context.Context) ([]*model.Property, error) {
	const q = "SELECT " + propertyColumns + " FROM properties ORDER BY created_at DESC, id DESC"
	return r.list(ctx, q)
}

func (r *PropertyRepo) list(ctx context.Context, q string, args ...any) ([]*model.Property, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable listing fields if the property belongs to
// the host. Returns sql.ErrNoRows when no row is affected.
func (r *PropertyRepo) Update(ctx context.Context, p *model.Property, hostID uint64) error {
	const q = `UPDATE properties
	           SET title = ?, location = ?, description = ?, nightly_rate_cents = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND host_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		p.Title, p.Location, p.Description, p.NightlyRateCents, p.ImageURL, p.ID, hostID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndHost removes a property together with its reservations,
// occupied ranges and reviews, provided it belongs to the host. Returns
// sql.ErrNoRows when the property does not exist and ErrForbidden when
// it is owned by a different user. Runs inside one transaction.
func (r *PropertyRepo) DeleteByIDAndHost(ctx context.Context, id, hostID uint64) error {
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

	var dbHostID uint64
	if err := tx.QueryRowContext(ctx, `SELECT host_id FROM properties WHERE id = ?`, id).Scan(&dbHostID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	if dbHostID != hostID {
		return ErrForbidden
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM occupied_ranges WHERE property_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE property_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE property_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
