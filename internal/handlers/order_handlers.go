package handlers

import (
	"net/http"
	"strconv"

	"foodhub/internal/common"
	"foodhub/internal/models"
	"foodhub/internal/services"

	"github.com/labstack/echo/v4"
)

const maxOrderLines = 20

// OrderHandlers handles the customer and provider order surfaces
type OrderHandlers struct {
	orderService services.OrderServiceInterface
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderServiceInterface) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := common.ValidateStringLength(req.DeliveryAddress, "delivery_address", 10, 300); err != nil {
		return common.SendValidationError(c, "delivery_address", err.Error())
	}
	if len(req.Items) == 0 {
		return common.SendValidationError(c, "items", "items must not be empty")
	}
	if len(req.Items) > maxOrderLines {
		return common.SendValidationError(c, "items", "order cannot exceed "+strconv.Itoa(maxOrderLines)+" lines")
	}
	for i, item := range req.Items {
		if err := common.ValidateIntRange(item.Quantity, "quantity", 1, 20); err != nil {
			return common.SendValidationError(c, "items["+strconv.Itoa(i)+"].quantity", err.Error())
		}
	}

	order, err := h.orderService.CreateOrder(ctx, principal.ID, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListMyOrders handles GET /orders
func (h *OrderHandlers) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := paginationFromQuery(c)
	orders, err := h.orderService.ListCustomerOrders(ctx, principal.ID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	order, err := h.orderService.GetCustomerOrder(ctx, principal.ID, orderID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// CancelOrder handles POST /orders/:id/cancel
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	order, err := h.orderService.CancelOrder(ctx, principal.ID, orderID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListIncomingOrders handles GET /provider/orders
func (h *OrderHandlers) ListIncomingOrders(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := paginationFromQuery(c)
	orders, err := h.orderService.ListProviderOrders(ctx, principal.ID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus handles PATCH /provider/orders/:id/status. The request
// names one of the forward statuses; cancellation is never provider-driven.
func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if !services.IsProviderTarget(req.Status) {
		return common.SendValidationError(c, "status", "status must be one of: preparing, ready, delivered")
	}

	order, err := h.orderService.UpdateOrderStatus(ctx, principal.ID, orderID, req.Status)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func paginationFromQuery(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return common.ValidatePaginationParams(limit, offset)
}
