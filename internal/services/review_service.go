package services

import (
	"context"
	"errors"

	"foodhub/internal/common"
	"foodhub/internal/models"
	"foodhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// ReviewServiceInterface defines the interface for review operations
type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, customerID uuid.UUID, req *models.CreateReviewRequest) (*models.Review, error)
	ListMealReviews(ctx context.Context, mealID uuid.UUID, limit, offset int) ([]*models.Review, error)
}

type reviewService struct {
	reviewRepo repositories.ReviewRepository
	orderRepo  repositories.OrderRepository
	mealRepo   repositories.MealRepository
}

// NewReviewService creates a new review service instance
func NewReviewService(reviewRepo repositories.ReviewRepository, orderRepo repositories.OrderRepository,
	mealRepo repositories.MealRepository) ReviewServiceInterface {
	return &reviewService{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		mealRepo:   mealRepo,
	}
}

// CreateReview gates review creation on purchase history: the meal must
// exist, and the customer must have a delivered order containing it.
// Uniqueness per (customer, meal) is enforced by the database; the conflict
// is mapped here rather than pre-checked.
func (s *reviewService) CreateReview(ctx context.Context, customerID uuid.UUID, req *models.CreateReviewRequest) (*models.Review, error) {
	// Existence only; an unavailable meal or inactive provider can still be
	// reviewed after a delivered order.
	if _, err := s.mealRepo.GetByID(ctx, req.MealID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &common.NotFoundError{Resource: "meal"}
		}
		return nil, err
	}

	delivered, err := s.orderRepo.HasDeliveredMeal(ctx, customerID, req.MealID)
	if err != nil {
		return nil, err
	}
	if !delivered {
		return nil, &common.EligibilityError{}
	}

	review := &models.Review{
		ID:         uuid.New(),
		CustomerID: customerID,
		MealID:     req.MealID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, &common.DuplicateReviewError{}
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListMealReviews(ctx context.Context, mealID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	return s.reviewRepo.ListByMeal(ctx, mealID, limit, offset)
}
