package handlers

import (
	"net/http"
	"time"

	"foodhub/internal/caching"
	"foodhub/internal/repositories"

	"github.com/labstack/echo/v4"
)

// HealthHandlers reports service liveness and dependency readiness
type HealthHandlers struct {
	db       repositories.Database
	cacheSvc caching.CacheService
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(db repositories.Database, cacheSvc caching.CacheService) *HealthHandlers {
	return &HealthHandlers{
		db:       db,
		cacheSvc: cacheSvc,
	}
}

// Live handles GET /health/live
func (h *HealthHandlers) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready: the database and Redis must both answer
func (h *HealthHandlers) Ready(c echo.Context) error {
	ctx := c.Request().Context()

	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}
	healthy := true

	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if err := h.cacheSvc.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{
		"status":    checks,
		"timestamp": time.Now().UTC(),
	})
}
