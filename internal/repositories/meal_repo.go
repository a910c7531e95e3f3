package repositories

import (
	"context"
	"fmt"

	"foodhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MealRepository interface {
	Create(ctx context.Context, meal *models.Meal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Meal, error)
	Update(ctx context.Context, meal *models.Meal) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*models.Meal, error)
	Search(ctx context.Context, filter *models.MealSearchFilter) ([]*models.Meal, error)
}

type mealRepo struct {
	db Database
}

func NewMealRepo(db Database) MealRepository {
	return &mealRepo{db: db}
}

func (r *mealRepo) Create(ctx context.Context, meal *models.Meal) error {
	query := `
		INSERT INTO meals (id, provider_id, category_id, name, description, price, image_url, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, meal.ID, meal.ProviderID, meal.CategoryID, meal.Name,
		meal.Description, meal.Price, meal.ImageURL, meal.IsAvailable)
	return err
}

func (r *mealRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Meal, error) {
	meal := &models.Meal{}
	query := `
		SELECT id, provider_id, category_id, name, description, price, image_url, is_available, created_at, updated_at
		FROM meals
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&meal.ID, &meal.ProviderID, &meal.CategoryID, &meal.Name,
		&meal.Description, &meal.Price, &meal.ImageURL, &meal.IsAvailable, &meal.CreatedAt, &meal.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return meal, nil
}

func (r *mealRepo) Update(ctx context.Context, meal *models.Meal) error {
	query := `
		UPDATE meals
		SET category_id = $1, name = $2, description = $3, price = $4, image_url = $5, is_available = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, meal.CategoryID, meal.Name, meal.Description,
		meal.Price, meal.ImageURL, meal.IsAvailable, meal.ID)
	return err
}

func (r *mealRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM meals WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *mealRepo) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*models.Meal, error) {
	query := `
		SELECT id, provider_id, category_id, name, description, price, image_url, is_available, created_at, updated_at
		FROM meals
		WHERE provider_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, providerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMeals(rows)
}

// Search performs the public catalog query; only meals of active providers
// are visible.
func (r *mealRepo) Search(ctx context.Context, filter *models.MealSearchFilter) ([]*models.Meal, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	queryBase := `
		SELECT m.id, m.provider_id, m.category_id, m.name, m.description, m.price, m.image_url, m.is_available, m.created_at, m.updated_at
		FROM meals m
		JOIN users u ON u.id = m.provider_id
		WHERE u.status = 'active'
	`
	args := []any{}
	conditionCount := 0

	if filter.Query != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (m.name ILIKE $%d OR COALESCE(m.description, '') ILIKE $%d)`,
			conditionCount, conditionCount)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.CategoryID != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND m.category_id = $%d`, conditionCount)
		args = append(args, *filter.CategoryID)
	}
	if filter.ProviderID != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND m.provider_id = $%d`, conditionCount)
		args = append(args, *filter.ProviderID)
	}
	if filter.MinPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND m.price >= $%d`, conditionCount)
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND m.price <= $%d`, conditionCount)
		args = append(args, *filter.MaxPrice)
	}
	if filter.IsAvailable != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND m.is_available = $%d`, conditionCount)
		args = append(args, *filter.IsAvailable)
	}

	queryBase += ` ORDER BY m.created_at DESC`

	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMeals(rows)
}

func scanMeals(rows pgx.Rows) ([]*models.Meal, error) {
	var meals []*models.Meal
	for rows.Next() {
		meal := &models.Meal{}
		if err := rows.Scan(&meal.ID, &meal.ProviderID, &meal.CategoryID, &meal.Name,
			&meal.Description, &meal.Price, &meal.ImageURL, &meal.IsAvailable,
			&meal.CreatedAt, &meal.UpdatedAt); err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}
	return meals, rows.Err()
}
