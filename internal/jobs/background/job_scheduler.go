package background

import (
	"context"
	"log"
	"sync"
	"time"

	"foodhub/internal/caching"
	"foodhub/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

const ratingCacheTTL = 30 * time.Minute

// JobScheduler manages background jobs
type JobScheduler struct {
	scheduler  gocron.Scheduler
	cacheSvc   caching.CacheService
	reviewRepo repositories.ReviewRepository
	jobs       map[string]gocron.Job
	mu         sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(cacheSvc caching.CacheService, reviewRepo repositories.ReviewRepository) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		cacheSvc:   cacheSvc,
		reviewRepo: reviewRepo,
		jobs:       make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Rating aggregates refresh - every 10 minutes
	ratingJob, err := js.scheduler.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(js.refreshMealRatings, context.Background()),
		gocron.WithName("meal-rating-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create rating refresh job: %v", err)
	} else {
		js.mu.Lock()
		js.jobs["meal-rating-refresh"] = ratingJob
		js.mu.Unlock()
	}
}

// refreshMealRatings recomputes per-meal review aggregates and writes them to
// the cache so catalog reads never hit the aggregate query.
func (js *JobScheduler) refreshMealRatings(ctx context.Context) {
	ratings, err := js.reviewRepo.RatingByMeal(ctx)
	if err != nil {
		log.Printf("Rating refresh query failed: %v", err)
		return
	}

	var failed int
	for _, rating := range ratings {
		if err := js.cacheSvc.SetMealRating(ctx, rating, ratingCacheTTL); err != nil {
			failed++
		}
	}
	log.Printf("Rating refresh completed: %d meals, %d cache failures", len(ratings), failed)
}

// RunRatingRefreshNow triggers the rating refresh outside its schedule.
func (js *JobScheduler) RunRatingRefreshNow() error {
	js.mu.RLock()
	job, ok := js.jobs["meal-rating-refresh"]
	js.mu.RUnlock()
	if !ok {
		return nil
	}
	return job.RunNow()
}
