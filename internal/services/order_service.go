package services

import (
	"context"
	"errors"
	"strconv"

	"foodhub/internal/common"
	"foodhub/internal/models"
	"foodhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderServiceInterface defines the interface for order operations
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, customerID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error)
	GetCustomerOrder(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error)
	ListProviderOrders(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*models.Order, error)
	ListOrders(ctx context.Context, status *string, limit, offset int) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, providerID, orderID uuid.UUID, target string) (*models.Order, error)
	CancelOrder(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error)
}

// Per-item quantity bound, enforced after duplicate lines are merged so the
// persisted item honors it too.
const maxItemQuantity = 20

type orderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new order service instance
func NewOrderService(orderRepo repositories.OrderRepository) OrderServiceInterface {
	return &orderService{
		orderRepo: orderRepo,
	}
}

// CreateOrder validates the cart against the current catalog, computes the
// total from fetched prices, and persists the order with snapshot items. The
// availability read and the writes share one transaction; on any failure no
// order or item row is created.
func (s *orderService) CreateOrder(ctx context.Context, customerID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, &common.InvalidOrderError{Reason: "order must contain at least one item"}
	}

	// Lines naming the same meal are merged by summing quantities. The merged
	// quantity is bounded like any single line.
	quantities := make(map[uuid.UUID]int, len(req.Items))
	mealIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, line := range req.Items {
		if _, seen := quantities[line.MealID]; !seen {
			mealIDs = append(mealIDs, line.MealID)
		}
		quantities[line.MealID] += line.Quantity
		if quantities[line.MealID] > maxItemQuantity {
			return nil, &common.InvalidOrderError{
				Reason: "total quantity for a meal cannot exceed " + strconv.Itoa(maxItemQuantity),
			}
		}
	}

	tx, err := s.orderRepo.BeginOrder(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	meals, err := tx.AvailableMeals(ctx, mealIDs)
	if err != nil {
		return nil, err
	}
	if len(meals) < len(mealIDs) {
		return nil, &common.UnavailableItemsError{}
	}

	providerID := meals[0].ProviderID
	for _, meal := range meals {
		if meal.ProviderID != providerID {
			return nil, &common.MixedProviderError{}
		}
	}

	// Total and per-item prices come from the fetched rows, never from the
	// client payload.
	total := 0.0
	items := make([]*models.OrderItem, 0, len(meals))
	order := &models.Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		ProviderID:      providerID,
		DeliveryAddress: req.DeliveryAddress,
		Status:          models.OrderStatusPlaced,
	}
	for _, meal := range meals {
		quantity := quantities[meal.ID]
		total += meal.Price * float64(quantity)
		items = append(items, &models.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			MealID:      meal.ID,
			Quantity:    quantity,
			PriceAtTime: meal.Price,
			Meal:        meal,
		})
	}
	order.TotalAmount = total

	if err := tx.Create(ctx, order, items); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	order.Items = items
	return order, nil
}

func (s *orderService) GetCustomerOrder(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForCustomer(ctx, orderID, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &common.NotFoundError{Resource: "order"}
		}
		return nil, err
	}
	order.Items, err = s.orderRepo.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

func (s *orderService) ListProviderOrders(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListByProvider(ctx, providerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

// attachItems embeds each order's items, with meal data, in one batched read.
func (s *orderService) attachItems(ctx context.Context, orders []*models.Order) ([]*models.Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}
	ids := make([]uuid.UUID, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}
	itemsByOrder, err := s.orderRepo.ListItemsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		order.Items = itemsByOrder[order.ID]
	}
	return orders, nil
}

func (s *orderService) ListOrders(ctx context.Context, status *string, limit, offset int) ([]*models.Order, error) {
	return s.orderRepo.List(ctx, status, limit, offset)
}

// UpdateOrderStatus applies a provider-requested transition. The ownership
// lookup runs first and reports "not found" for other parties' orders; the
// shared transition table decides legality.
func (s *orderService) UpdateOrderStatus(ctx context.Context, providerID, orderID uuid.UUID, target string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForProvider(ctx, orderID, providerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &common.NotFoundError{Resource: "order"}
		}
		return nil, err
	}

	if !IsProviderTarget(target) || !CanTransition(order.Status, target) {
		return nil, &common.InvalidTransitionError{From: order.Status, To: target}
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, target); err != nil {
		return nil, err
	}
	order.Status = target

	order.Items, err = s.orderRepo.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder is the narrower customer-side operation: it requires the order
// to still be placed rather than consulting the full transition table.
func (s *orderService) CancelOrder(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForCustomer(ctx, orderID, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &common.NotFoundError{Resource: "order"}
		}
		return nil, err
	}

	if order.Status != models.OrderStatusPlaced {
		return nil, &common.InvalidCancellationError{Status: order.Status}
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusCancelled
	return order, nil
}
