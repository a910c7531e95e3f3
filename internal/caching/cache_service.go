package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"foodhub/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Catalog caching
	GetMeal(ctx context.Context, mealID uuid.UUID) (*models.Meal, error)
	SetMeal(ctx context.Context, meal *models.Meal, ttl time.Duration) error
	DeleteMeal(ctx context.Context, mealID uuid.UUID) error

	GetCategory(ctx context.Context, categoryID uuid.UUID) (*models.Category, error)
	SetCategory(ctx context.Context, category *models.Category, ttl time.Duration) error
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error

	// Rating aggregates refreshed by the background job
	GetMealRating(ctx context.Context, mealID uuid.UUID) (*models.MealRating, error)
	SetMealRating(ctx context.Context, rating *models.MealRating, ttl time.Duration) error

	// Generic string operations for refresh-token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	// Increment bumps a counter, setting the TTL when the counter is created.
	// Used for login attempt rate limiting.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port and bare host:port forms
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetMeal(ctx context.Context, mealID uuid.UUID) (*models.Meal, error) {
	key := fmt.Sprintf("foodhub:meal:%s", mealID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var meal models.Meal
	if err := json.Unmarshal(data, &meal); err != nil {
		return nil, err
	}
	return &meal, nil
}

func (r *redisCacheService) SetMeal(ctx context.Context, meal *models.Meal, ttl time.Duration) error {
	key := fmt.Sprintf("foodhub:meal:%s", meal.ID.String())
	data, err := json.Marshal(meal)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteMeal(ctx context.Context, mealID uuid.UUID) error {
	key := fmt.Sprintf("foodhub:meal:%s", mealID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetCategory(ctx context.Context, categoryID uuid.UUID) (*models.Category, error) {
	key := fmt.Sprintf("foodhub:category:%s", categoryID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var category models.Category
	if err := json.Unmarshal(data, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *redisCacheService) SetCategory(ctx context.Context, category *models.Category, ttl time.Duration) error {
	key := fmt.Sprintf("foodhub:category:%s", category.ID.String())
	data, err := json.Marshal(category)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	key := fmt.Sprintf("foodhub:category:%s", categoryID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetMealRating(ctx context.Context, mealID uuid.UUID) (*models.MealRating, error) {
	key := fmt.Sprintf("foodhub:rating:%s", mealID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var rating models.MealRating
	if err := json.Unmarshal(data, &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *redisCacheService) SetMealRating(ctx context.Context, rating *models.MealRating, ttl time.Duration) error {
	key := fmt.Sprintf("foodhub:rating:%s", rating.MealID.String())
	data, err := json.Marshal(rating)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
