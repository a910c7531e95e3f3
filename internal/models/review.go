package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is unique per (customer, meal); the constraint lives in the database
// and the service maps the conflict to a typed error.
type Review struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID uuid.UUID `json:"customer_id" db:"customer_id"`
	MealID     uuid.UUID `json:"meal_id" db:"meal_id"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    *string   `json:"comment" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// CreateReviewRequest is the review-creation payload.
type CreateReviewRequest struct {
	MealID  uuid.UUID `json:"meal_id"`
	Rating  int       `json:"rating"`
	Comment *string   `json:"comment"`
}
