package repository

import (
	"context"
	"database/sql"

	"github.com/homigo/booking-api/internal/model"
)

// ReviewRepo persists guest reviews of properties.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review and populates its ID and CreatedAt.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	const q = `INSERT INTO reviews (property_id, user_id, rating, comment) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rev.PropertyID, rev.UserID, rev.Rating, rev.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at FROM reviews WHERE id = ?`, rev.ID).Scan(&rev.CreatedAt)
}

// ListByProperty returns a property's reviews, newest first.
func (r *ReviewRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]*model.Review, error) {
	const q = `SELECT id, property_id, user_id, rating, comment, created_at
	           FROM reviews WHERE property_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Review, 0)
	for rows.Next() {
		rev := new(model.Review)
		if err := rows.Scan(&rev.ID, &rev.PropertyID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
