package handlers

import (
	"errors"
	"net/http"
	"time"

	"foodhub/internal/caching"
	"foodhub/internal/common"
	"foodhub/internal/models"
	"foodhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

const categoryCacheTTL = 10 * time.Minute

// CategoryHandlers handles the public category listing and the admin-managed
// category CRUD
type CategoryHandlers struct {
	categoryRepo repositories.CategoryRepository
	cacheSvc     caching.CacheService
}

// NewCategoryHandlers creates a new category handlers instance
func NewCategoryHandlers(categoryRepo repositories.CategoryRepository, cacheSvc caching.CacheService) *CategoryHandlers {
	return &CategoryHandlers{
		categoryRepo: categoryRepo,
		cacheSvc:     cacheSvc,
	}
}

// ListCategories handles GET /categories (public)
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationFromQuery(c)
	categories, err := h.categoryRepo.List(ctx, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory handles GET /categories/:id (public)
func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := common.ValidateUUID(c.Param("id"), "category ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if cached, err := h.cacheSvc.GetCategory(ctx, categoryID); err == nil && cached != nil {
		return c.JSON(http.StatusOK, cached)
	}

	category, err := h.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.RespondError(c, &common.NotFoundError{Resource: "category"})
		}
		return common.RespondError(c, err)
	}

	_ = h.cacheSvc.SetCategory(ctx, category, categoryCacheTTL)
	return c.JSON(http.StatusOK, category)
}

// CreateCategory handles POST /admin/categories
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name     string  `json:"name"`
		ImageURL *string `json:"image_url"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateStringLength(req.Name, "name", 2, 80); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}

	category := &models.Category{
		ID:       uuid.New(),
		Name:     req.Name,
		ImageURL: req.ImageURL,
	}
	if err := h.categoryRepo.Create(ctx, category); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /admin/categories/:id
func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := common.ValidateUUID(c.Param("id"), "category ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	category, err := h.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.RespondError(c, &common.NotFoundError{Resource: "category"})
		}
		return common.RespondError(c, err)
	}

	var req struct {
		Name     *string `json:"name"`
		ImageURL *string `json:"image_url"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name != nil {
		if err := common.ValidateStringLength(*req.Name, "name", 2, 80); err != nil {
			return common.SendValidationError(c, "name", err.Error())
		}
		category.Name = *req.Name
	}
	if req.ImageURL != nil {
		category.ImageURL = req.ImageURL
	}

	if err := h.categoryRepo.Update(ctx, category); err != nil {
		return common.RespondError(c, err)
	}
	_ = h.cacheSvc.DeleteCategory(ctx, categoryID)
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /admin/categories/:id
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := common.ValidateUUID(c.Param("id"), "category ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.categoryRepo.Delete(ctx, categoryID); err != nil {
		return common.RespondError(c, err)
	}
	_ = h.cacheSvc.DeleteCategory(ctx, categoryID)
	return c.NoContent(http.StatusNoContent)
}
