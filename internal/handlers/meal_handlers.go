package handlers

import (
	"net/http"
	"strconv"

	"foodhub/internal/caching"
	"foodhub/internal/common"
	"foodhub/internal/models"
	"foodhub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxMealPrice = 10000.0

// MealHandlers handles the public catalog and the provider meal CRUD surface
type MealHandlers struct {
	mealService services.MealServiceInterface
	cacheSvc    caching.CacheService
}

// NewMealHandlers creates a new meal handlers instance
func NewMealHandlers(mealService services.MealServiceInterface, cacheSvc caching.CacheService) *MealHandlers {
	return &MealHandlers{
		mealService: mealService,
		cacheSvc:    cacheSvc,
	}
}

// SearchMeals handles GET /meals (public)
func (h *MealHandlers) SearchMeals(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.MealSearchFilter{
		Query: c.QueryParam("q"),
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := common.ValidateUUID(raw, "category_id")
		if err != nil {
			return common.SendValidationError(c, "category_id", err.Error())
		}
		filter.CategoryID = &id
	}
	if raw := c.QueryParam("provider_id"); raw != "" {
		id, err := common.ValidateUUID(raw, "provider_id")
		if err != nil {
			return common.SendValidationError(c, "provider_id", err.Error())
		}
		filter.ProviderID = &id
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return common.SendValidationError(c, "min_price", "min_price must be a number")
		}
		filter.MinPrice = &price
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return common.SendValidationError(c, "max_price", "max_price must be a number")
		}
		filter.MaxPrice = &price
	}
	if raw := c.QueryParam("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return common.SendValidationError(c, "available", "available must be a boolean")
		}
		filter.IsAvailable = &available
	}
	filter.Limit, filter.Offset = paginationFromQuery(c)

	meals, err := h.mealService.SearchMeals(ctx, filter)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, meals)
}

// GetMeal handles GET /meals/:id (public). The response carries the cached
// rating aggregate when one exists.
func (h *MealHandlers) GetMeal(c echo.Context) error {
	ctx := c.Request().Context()

	mealID, err := common.ValidateUUID(c.Param("id"), "meal ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	meal, err := h.mealService.GetMeal(ctx, mealID)
	if err != nil {
		return common.RespondError(c, err)
	}

	resp := map[string]any{"meal": meal}
	if rating, err := h.cacheSvc.GetMealRating(ctx, mealID); err == nil && rating != nil {
		resp["rating"] = rating
	}
	return c.JSON(http.StatusOK, resp)
}

// ListMyMeals handles GET /provider/meals
func (h *MealHandlers) ListMyMeals(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := paginationFromQuery(c)
	meals, err := h.mealService.ListProviderMeals(ctx, principal.ID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, meals)
}

// CreateMeal handles POST /provider/meals
func (h *MealHandlers) CreateMeal(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		CategoryID  uuid.UUID `json:"category_id"`
		Name        string    `json:"name"`
		Description *string   `json:"description"`
		Price       float64   `json:"price"`
		IsAvailable *bool     `json:"is_available"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := common.ValidateStringLength(req.Name, "name", 2, 120); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	if req.CategoryID == uuid.Nil {
		return common.SendValidationError(c, "category_id", "category_id is required")
	}
	if err := common.ValidatePositiveFloat(req.Price, "price", maxMealPrice); err != nil {
		return common.SendValidationError(c, "price", err.Error())
	}

	meal := &models.Meal{
		ID:          uuid.New(),
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		meal.IsAvailable = *req.IsAvailable
	}

	if err := h.mealService.CreateMeal(ctx, principal.ID, meal); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, meal)
}

// UpdateMeal handles PUT /provider/meals/:id
func (h *MealHandlers) UpdateMeal(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	mealID, err := common.ValidateUUID(c.Param("id"), "meal ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	existing, err := h.mealService.GetMeal(ctx, mealID)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		CategoryID  *uuid.UUID `json:"category_id"`
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		Price       *float64   `json:"price"`
		IsAvailable *bool      `json:"is_available"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.CategoryID != nil {
		existing.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		if err := common.ValidateStringLength(*req.Name, "name", 2, 120); err != nil {
			return common.SendValidationError(c, "name", err.Error())
		}
		existing.Name = *req.Name
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.Price != nil {
		if err := common.ValidatePositiveFloat(*req.Price, "price", maxMealPrice); err != nil {
			return common.SendValidationError(c, "price", err.Error())
		}
		existing.Price = *req.Price
	}
	if req.IsAvailable != nil {
		existing.IsAvailable = *req.IsAvailable
	}

	if err := h.mealService.UpdateMeal(ctx, principal.ID, existing); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, existing)
}

// DeleteMeal handles DELETE /provider/meals/:id
func (h *MealHandlers) DeleteMeal(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	mealID, err := common.ValidateUUID(c.Param("id"), "meal ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.mealService.DeleteMeal(ctx, principal.ID, mealID); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadMealImage handles POST /provider/meals/:id/image (multipart)
func (h *MealHandlers) UploadMealImage(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	mealID, err := common.ValidateUUID(c.Param("id"), "meal ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "image file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.SendClientError(c, "Could not read uploaded file")
	}
	defer file.Close()

	url, err := h.mealService.UploadMealImage(ctx, principal.ID, mealID, file, fileHeader.Size)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"image_url": url})
}
