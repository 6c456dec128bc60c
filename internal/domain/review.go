package domain

import "time"

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's rating of a workshop
type Review struct {
	ID           string    `json:"id"`
	WorkshopSlug string    `json:"workshop_slug"`
	Name         string    `json:"name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate validates the review
func (r *Review) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
