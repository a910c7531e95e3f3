package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"github.com/labstack/echo/v4"

	"foodhub/internal/caching"
	"foodhub/internal/handlers"
	"foodhub/internal/jobs/background"
	"foodhub/internal/middleware"
	"foodhub/internal/models"
	"foodhub/internal/repositories"
	"foodhub/internal/services"
	"foodhub/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}
	jwksURL := os.Getenv("FOODHUB_JWKS_URL")

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	imageStore, err := services.NewMealImageStore(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	profileRepo := repositories.NewProviderProfileRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	mealRepo := repositories.NewMealRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	reviewRepo := repositories.NewReviewRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	authSvc := services.NewAuthService(userRepo, cacheSvc, jwtSecret, 15*time.Minute, 30*24*time.Hour)
	mealSvc := services.NewMealService(mealRepo, categoryRepo, cacheSvc, imageStore)
	orderSvc := services.NewOrderService(orderRepo)
	reviewSvc := services.NewReviewService(reviewRepo, orderRepo, mealRepo)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(userRepo, authSvc, cacheSvc)
	profileHandlers := handlers.NewProfileHandlers(userRepo, profileRepo)
	categoryHandlers := handlers.NewCategoryHandlers(categoryRepo, cacheSvc)
	mealHandlers := handlers.NewMealHandlers(mealSvc, cacheSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	reviewHandlers := handlers.NewReviewHandlers(reviewSvc)
	adminHandlers := handlers.NewAdminHandlers(userRepo, orderSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Token verification
	kf, validMethods, err := middleware.NewKeyfunc(jwtSecret, jwksURL)
	if err != nil {
		log.Fatalf("Failed to initialize token verification: %v", err)
	}
	authenticate := middleware.Authenticate(userRepo, kf, validMethods)

	// Background jobs
	scheduler := background.NewJobScheduler(cacheSvc, reviewRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Scheduler shutdown: %v", err)
		}
	}()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health/live", healthHandlers.Live)
	e.GET("/health/ready", healthHandlers.Ready)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no token required)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/logout", authHandlers.Logout)

	// Public catalog
	v1.GET("/categories", categoryHandlers.ListCategories)
	v1.GET("/categories/:id", categoryHandlers.GetCategory)
	v1.GET("/meals", mealHandlers.SearchMeals)
	v1.GET("/meals/:id", mealHandlers.GetMeal)
	v1.GET("/meals/:id/reviews", reviewHandlers.ListMealReviews)

	// Authenticated routes
	protected := v1.Group("", authenticate)
	protected.GET("/me", profileHandlers.Me)
	protected.POST("/onboarding", profileHandlers.Onboard)

	// Customer routes
	customer := protected.Group("", middleware.RequireRole(models.RoleCustomer, models.RoleAdmin))
	customer.POST("/orders", orderHandlers.CreateOrder)
	customer.GET("/orders", orderHandlers.ListMyOrders)
	customer.GET("/orders/:id", orderHandlers.GetOrder)
	customer.POST("/orders/:id/cancel", orderHandlers.CancelOrder)
	customer.POST("/reviews", reviewHandlers.CreateReview)

	// Provider routes
	provider := protected.Group("/provider", middleware.RequireRole(models.RoleProvider))
	provider.PUT("/me/profile", profileHandlers.UpdateProviderProfile)
	provider.GET("/meals", mealHandlers.ListMyMeals)
	provider.POST("/meals", mealHandlers.CreateMeal)
	provider.PUT("/meals/:id", mealHandlers.UpdateMeal)
	provider.DELETE("/meals/:id", mealHandlers.DeleteMeal)
	provider.POST("/meals/:id/image", mealHandlers.UploadMealImage)
	provider.GET("/orders", orderHandlers.ListIncomingOrders)
	provider.PATCH("/orders/:id/status", orderHandlers.UpdateOrderStatus)

	// Admin routes
	admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.GET("/users", adminHandlers.ListUsers)
	admin.PATCH("/users/:id/status", adminHandlers.UpdateUserStatus)
	admin.GET("/orders", adminHandlers.ListAllOrders)
	admin.POST("/categories", categoryHandlers.CreateCategory)
	admin.PUT("/categories/:id", categoryHandlers.UpdateCategory)
	admin.DELETE("/categories/:id", categoryHandlers.DeleteCategory)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Foodhub server v%s starting on port %d", version, port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
