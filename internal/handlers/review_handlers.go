package handlers

import (
	"net/http"

	"foodhub/internal/common"
	"foodhub/internal/models"
	"foodhub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReviewHandlers handles review creation and listing
type ReviewHandlers struct {
	reviewService services.ReviewServiceInterface
}

// NewReviewHandlers creates a new review handlers instance
func NewReviewHandlers(reviewService services.ReviewServiceInterface) *ReviewHandlers {
	return &ReviewHandlers{reviewService: reviewService}
}

// CreateReview handles POST /reviews
func (h *ReviewHandlers) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req models.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.MealID == uuid.Nil {
		return common.SendValidationError(c, "meal_id", "meal_id is required")
	}
	if err := common.ValidateIntRange(req.Rating, "rating", 1, 5); err != nil {
		return common.SendValidationError(c, "rating", err.Error())
	}
	if req.Comment != nil {
		if err := common.ValidateStringLength(*req.Comment, "comment", 0, 500); err != nil {
			return common.SendValidationError(c, "comment", err.Error())
		}
	}

	review, err := h.reviewService.CreateReview(ctx, principal.ID, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, review)
}

// ListMealReviews handles GET /meals/:id/reviews (public)
func (h *ReviewHandlers) ListMealReviews(c echo.Context) error {
	ctx := c.Request().Context()

	mealID, err := common.ValidateUUID(c.Param("id"), "meal ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	limit, offset := paginationFromQuery(c)
	reviews, err := h.reviewService.ListMealReviews(ctx, mealID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}
