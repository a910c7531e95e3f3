package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is immutable after creation. PriceAtTime is the meal price
// captured when the order was placed and never re-read from the catalog.
type OrderItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	MealID      uuid.UUID `json:"meal_id" db:"meal_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	PriceAtTime float64   `json:"price_at_time" db:"price_at_time"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Meal        *Meal     `json:"meal,omitempty" db:"-"` // For nested responses
}
