package models

import (
	"time"

	"github.com/google/uuid"
)

// MealSearchFilter holds search and filter criteria for the public catalog
type MealSearchFilter struct {
	Query       string     `json:"query,omitempty"`        // Case-insensitive search across name and description
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`  // Filter by category
	ProviderID  *uuid.UUID `json:"provider_id,omitempty"`  // Filter by provider
	MinPrice    *float64   `json:"min_price,omitempty"`    // Minimum price
	MaxPrice    *float64   `json:"max_price,omitempty"`    // Maximum price
	IsAvailable *bool      `json:"is_available,omitempty"` // Availability filter
	Limit       int        `json:"limit,omitempty"`        // Page size (default: 50)
	Offset      int        `json:"offset,omitempty"`       // Page offset
}

type Meal struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProviderID  uuid.UUID `json:"provider_id" db:"provider_id"`
	CategoryID  uuid.UUID `json:"category_id" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// MealRating is the cached per-meal review aggregate refreshed by the
// background scheduler.
type MealRating struct {
	MealID        uuid.UUID `json:"meal_id" db:"meal_id"`
	AverageRating float64   `json:"average_rating" db:"average_rating"`
	ReviewCount   int       `json:"review_count" db:"review_count"`
}
