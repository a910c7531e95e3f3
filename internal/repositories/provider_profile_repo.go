package repositories

import (
	"context"

	"foodhub/internal/models"

	"github.com/google/uuid"
)

type ProviderProfileRepository interface {
	Create(ctx context.Context, profile *models.ProviderProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.ProviderProfile, error)
	Update(ctx context.Context, profile *models.ProviderProfile) error
}

type providerProfileRepo struct {
	db Database
}

func NewProviderProfileRepo(db Database) ProviderProfileRepository {
	return &providerProfileRepo{db: db}
}

func (r *providerProfileRepo) Create(ctx context.Context, profile *models.ProviderProfile) error {
	query := `
		INSERT INTO provider_profiles (id, user_id, restaurant_name, cuisine_type, address, cover_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, profile.ID, profile.UserID, profile.RestaurantName,
		profile.CuisineType, profile.Address, profile.CoverImageURL)
	return err
}

func (r *providerProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.ProviderProfile, error) {
	profile := &models.ProviderProfile{}
	query := `
		SELECT id, user_id, restaurant_name, cuisine_type, address, cover_image_url, created_at, updated_at
		FROM provider_profiles
		WHERE user_id = $1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&profile.ID, &profile.UserID, &profile.RestaurantName,
		&profile.CuisineType, &profile.Address, &profile.CoverImageURL, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *providerProfileRepo) Update(ctx context.Context, profile *models.ProviderProfile) error {
	query := `
		UPDATE provider_profiles
		SET restaurant_name = $1, cuisine_type = $2, address = $3, cover_image_url = $4, updated_at = NOW()
		WHERE user_id = $5
	`
	_, err := r.db.Exec(ctx, query, profile.RestaurantName, profile.CuisineType,
		profile.Address, profile.CoverImageURL, profile.UserID)
	return err
}
