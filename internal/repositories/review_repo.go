package repositories

import (
	"context"

	"foodhub/internal/models"

	"github.com/google/uuid"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByMeal(ctx context.Context, mealID uuid.UUID, limit, offset int) ([]*models.Review, error)
	RatingByMeal(ctx context.Context) ([]*models.MealRating, error)
}

type reviewRepo struct {
	db Database
}

func NewReviewRepo(db Database) ReviewRepository {
	return &reviewRepo{db: db}
}

// Create relies on the unique (customer_id, meal_id) constraint; a duplicate
// surfaces as a pgconn.PgError with code 23505 which the service maps.
func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, customer_id, meal_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, review.ID, review.CustomerID, review.MealID, review.Rating, review.Comment)
	return err
}

func (r *reviewRepo) ListByMeal(ctx context.Context, mealID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	query := `
		SELECT id, customer_id, meal_id, rating, comment, created_at
		FROM reviews
		WHERE meal_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, mealID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review := &models.Review{}
		if err := rows.Scan(&review.ID, &review.CustomerID, &review.MealID,
			&review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// RatingByMeal computes per-meal review aggregates for the background cache
// refresh job.
func (r *reviewRepo) RatingByMeal(ctx context.Context) ([]*models.MealRating, error) {
	query := `
		SELECT meal_id, AVG(rating)::float8, COUNT(*)
		FROM reviews
		GROUP BY meal_id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*models.MealRating
	for rows.Next() {
		rating := &models.MealRating{}
		if err := rows.Scan(&rating.MealID, &rating.AverageRating, &rating.ReviewCount); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}
