package models

import (
	"time"

	"github.com/google/uuid"
)

type ProviderProfile struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	RestaurantName string    `json:"restaurant_name" db:"restaurant_name"`
	CuisineType    string    `json:"cuisine_type" db:"cuisine_type"`
	Address        string    `json:"address" db:"address"`
	CoverImageURL  *string   `json:"cover_image_url" db:"cover_image_url"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
