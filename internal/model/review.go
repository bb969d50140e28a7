package model

import "time"

// Review is a guest's rating of a property.
type Review struct {
	ID         uint64    `json:"id"`
	PropertyID uint64    `json:"property_id"`
	UserID     uint64    `json:"user_id"`
	Rating     int       `json:"rating"` // 1..5
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}
