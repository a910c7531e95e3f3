package handlers

import (
	"errors"
	"net/http"

	"foodhub/internal/common"
	"foodhub/internal/models"
	"foodhub/internal/repositories"
	"foodhub/internal/services"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// AdminHandlers handles the moderation surface
type AdminHandlers struct {
	userRepo     repositories.UserRepository
	orderService services.OrderServiceInterface
}

// NewAdminHandlers creates a new admin handlers instance
func NewAdminHandlers(userRepo repositories.UserRepository, orderService services.OrderServiceInterface) *AdminHandlers {
	return &AdminHandlers{
		userRepo:     userRepo,
		orderService: orderService,
	}
}

// ListUsers handles GET /admin/users
func (h *AdminHandlers) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationFromQuery(c)
	users, err := h.userRepo.List(ctx, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUserStatus handles PATCH /admin/users/:id/status. Admins cannot
// suspend themselves.
func (h *AdminHandlers) UpdateUserStatus(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	userID, err := common.ValidateUUID(c.Param("id"), "user ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	if userID == principal.ID {
		return common.SendClientError(c, "Cannot change your own status")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Status != models.UserStatusActive && req.Status != models.UserStatusSuspended {
		return common.SendValidationError(c, "status", "status must be one of: active, suspended")
	}

	if err := h.userRepo.UpdateStatus(ctx, userID, req.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.RespondError(c, &common.NotFoundError{Resource: "user"})
		}
		return common.RespondError(c, err)
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListAllOrders handles GET /admin/orders with an optional status filter
func (h *AdminHandlers) ListAllOrders(c echo.Context) error {
	ctx := c.Request().Context()

	var status *string
	if raw := c.QueryParam("status"); raw != "" {
		switch raw {
		case models.OrderStatusPlaced, models.OrderStatusPreparing, models.OrderStatusReady,
			models.OrderStatusDelivered, models.OrderStatusCancelled:
			status = &raw
		default:
			return common.SendValidationError(c, "status", "unknown order status")
		}
	}

	limit, offset := paginationFromQuery(c)
	orders, err := h.orderService.ListOrders(ctx, status, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}
