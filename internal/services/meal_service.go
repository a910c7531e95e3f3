package services

import (
	"context"
	"errors"
	"io"
	"time"

	"foodhub/internal/caching"
	"foodhub/internal/common"
	"foodhub/internal/models"
	"foodhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const mealCacheTTL = 5 * time.Minute

// MealServiceInterface defines the interface for catalog operations
type MealServiceInterface interface {
	CreateMeal(ctx context.Context, providerID uuid.UUID, meal *models.Meal) error
	GetMeal(ctx context.Context, mealID uuid.UUID) (*models.Meal, error)
	SearchMeals(ctx context.Context, filter *models.MealSearchFilter) ([]*models.Meal, error)
	ListProviderMeals(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*models.Meal, error)
	UpdateMeal(ctx context.Context, providerID uuid.UUID, meal *models.Meal) error
	DeleteMeal(ctx context.Context, providerID, mealID uuid.UUID) error
	UploadMealImage(ctx context.Context, providerID, mealID uuid.UUID, reader io.Reader, size int64) (string, error)
}

type mealService struct {
	mealRepo     repositories.MealRepository
	categoryRepo repositories.CategoryRepository
	cacheSvc     caching.CacheService
	images       MealImageStore
}

// NewMealService creates a new meal service instance
func NewMealService(mealRepo repositories.MealRepository, categoryRepo repositories.CategoryRepository,
	cacheSvc caching.CacheService, images MealImageStore) MealServiceInterface {
	return &mealService{
		mealRepo:     mealRepo,
		categoryRepo: categoryRepo,
		cacheSvc:     cacheSvc,
		images:       images,
	}
}

func (s *mealService) CreateMeal(ctx context.Context, providerID uuid.UUID, meal *models.Meal) error {
	if _, err := s.categoryRepo.GetByID(ctx, meal.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &common.NotFoundError{Resource: "category"}
		}
		return err
	}

	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}
	meal.ProviderID = providerID
	return s.mealRepo.Create(ctx, meal)
}

// GetMeal reads through the cache; misses fall back to the database and
// populate the cache.
func (s *mealService) GetMeal(ctx context.Context, mealID uuid.UUID) (*models.Meal, error) {
	if cached, err := s.cacheSvc.GetMeal(ctx, mealID); err == nil && cached != nil {
		return cached, nil
	}

	meal, err := s.mealRepo.GetByID(ctx, mealID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &common.NotFoundError{Resource: "meal"}
		}
		return nil, err
	}

	// Cache failures never fail the read
	_ = s.cacheSvc.SetMeal(ctx, meal, mealCacheTTL)
	return meal, nil
}

func (s *mealService) SearchMeals(ctx context.Context, filter *models.MealSearchFilter) ([]*models.Meal, error) {
	return s.mealRepo.Search(ctx, filter)
}

func (s *mealService) ListProviderMeals(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*models.Meal, error) {
	return s.mealRepo.ListByProvider(ctx, providerID, limit, offset)
}

// UpdateMeal lets a provider change their own meal. Category changes are
// validated against the category table.
func (s *mealService) UpdateMeal(ctx context.Context, providerID uuid.UUID, meal *models.Meal) error {
	existing, err := s.mealRepo.GetByID(ctx, meal.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &common.NotFoundError{Resource: "meal"}
		}
		return err
	}
	if existing.ProviderID != providerID {
		return &common.ForbiddenError{}
	}

	if meal.CategoryID != existing.CategoryID {
		if _, err := s.categoryRepo.GetByID(ctx, meal.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &common.NotFoundError{Resource: "category"}
			}
			return err
		}
	}

	meal.ProviderID = existing.ProviderID
	if err := s.mealRepo.Update(ctx, meal); err != nil {
		return err
	}
	return s.cacheSvc.DeleteMeal(ctx, meal.ID)
}

func (s *mealService) DeleteMeal(ctx context.Context, providerID, mealID uuid.UUID) error {
	existing, err := s.mealRepo.GetByID(ctx, mealID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &common.NotFoundError{Resource: "meal"}
		}
		return err
	}
	if existing.ProviderID != providerID {
		return &common.ForbiddenError{}
	}

	if err := s.mealRepo.Delete(ctx, mealID); err != nil {
		return err
	}
	if existing.ImageURL != nil {
		// Best effort; the meal row is already gone.
		_ = s.images.Remove(ctx, existing.ProviderID, mealID)
	}
	return s.cacheSvc.DeleteMeal(ctx, mealID)
}

// UploadMealImage stores the image in object storage and persists a
// presigned URL on the meal.
func (s *mealService) UploadMealImage(ctx context.Context, providerID, mealID uuid.UUID, reader io.Reader, size int64) (string, error) {
	existing, err := s.mealRepo.GetByID(ctx, mealID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", &common.NotFoundError{Resource: "meal"}
		}
		return "", err
	}
	if existing.ProviderID != providerID {
		return "", &common.ForbiddenError{}
	}

	url, err := s.images.Put(ctx, existing.ProviderID, mealID, reader, size)
	if err != nil {
		return "", err
	}

	existing.ImageURL = &url
	if err := s.mealRepo.Update(ctx, existing); err != nil {
		return "", err
	}
	if err := s.cacheSvc.DeleteMeal(ctx, mealID); err != nil {
		return "", err
	}
	return url, nil
}
