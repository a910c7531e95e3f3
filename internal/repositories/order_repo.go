package repositories

import (
	"context"
	"fmt"

	"foodhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	BeginOrder(ctx context.Context) (OrderTx, error)
	GetByIDForCustomer(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error)
	GetByIDForProvider(ctx context.Context, orderID, providerID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*models.Order, error)
	List(ctx context.Context, status *string, limit, offset int) ([]*models.Order, error)
	ListItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	ListItemsForOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]*models.OrderItem, error)
	HasDeliveredMeal(ctx context.Context, customerID, mealID uuid.UUID) (bool, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, customer_id, provider_id, delivery_address, total_amount, status, created_at, updated_at`

// OrderTx is the transaction scope for building an order. The availability
// read and the order insert run in the same transaction, so the prices and
// availability the builder validated are the ones persisted. Rollback after a
// successful commit is a no-op.
type OrderTx interface {
	AvailableMeals(ctx context.Context, ids []uuid.UUID) ([]*models.Meal, error)
	Create(ctx context.Context, order *models.Order, items []*models.OrderItem) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type orderTx struct {
	tx pgx.Tx
}

func (r *orderRepo) BeginOrder(ctx context.Context) (OrderTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &orderTx{tx: tx}, nil
}

// AvailableMeals returns the requested meals filtered to available meals of
// active providers. Missing ids are silently absent from the result; the order
// builder compares lengths to detect them.
func (t *orderTx) AvailableMeals(ctx context.Context, ids []uuid.UUID) ([]*models.Meal, error) {
	query := `
		SELECT m.id, m.provider_id, m.category_id, m.name, m.description, m.price, m.image_url, m.is_available, m.created_at, m.updated_at
		FROM meals m
		JOIN users u ON u.id = m.provider_id
		WHERE m.id = ANY($1) AND m.is_available = TRUE AND u.status = 'active'
	`
	rows, err := t.tx.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMeals(rows)
}

func (t *orderTx) Create(ctx context.Context, order *models.Order, items []*models.OrderItem) error {
	orderQuery := `
		INSERT INTO orders (id, customer_id, provider_id, delivery_address, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	if _, err := t.tx.Exec(ctx, orderQuery, order.ID, order.CustomerID, order.ProviderID,
		order.DeliveryAddress, order.TotalAmount, order.Status); err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, meal_id, quantity, price_at_time, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	for _, item := range items {
		if _, err := t.tx.Exec(ctx, itemQuery, item.ID, item.OrderID, item.MealID,
			item.Quantity, item.PriceAtTime); err != nil {
			return err
		}
	}
	return nil
}

func (t *orderTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *orderTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// Ownership is part of the lookup: an order of another party scans as
// pgx.ErrNoRows, which callers surface as "not found".
func (r *orderRepo) GetByIDForCustomer(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1 AND customer_id = $2
	`
	return r.getOne(ctx, query, orderID, customerID)
}

func (r *orderRepo) GetByIDForProvider(ctx context.Context, orderID, providerID uuid.UUID) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1 AND provider_id = $2
	`
	return r.getOne(ctx, query, orderID, providerID)
}

func (r *orderRepo) getOne(ctx context.Context, query string, args ...any) (*models.Order, error) {
	order := &models.Order{}
	err := r.db.QueryRow(ctx, query, args...).Scan(&order.ID, &order.CustomerID, &order.ProviderID,
		&order.DeliveryAddress, &order.TotalAmount, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepo) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE provider_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, providerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

// List returns all orders, optionally filtered by status. Admin only.
func (r *orderRepo) List(ctx context.Context, status *string, limit, offset int) ([]*models.Order, error) {
	queryBase := `
		SELECT ` + orderColumns + `
		FROM orders
	`
	args := []any{}
	conditionCount := 0
	if status != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` WHERE status = $%d`, conditionCount)
		args = append(args, *status)
	}
	queryBase += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, conditionCount+1, conditionCount+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

const orderItemColumns = `oi.id, oi.order_id, oi.meal_id, oi.quantity, oi.price_at_time, oi.created_at,
	       m.id, m.provider_id, m.category_id, m.name, m.description, m.price, m.image_url, m.is_available, m.created_at, m.updated_at`

// ListItems returns an order's items with the referenced meal embedded.
func (r *orderRepo) ListItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT ` + orderItemColumns + `
		FROM order_items oi
		JOIN meals m ON m.id = oi.meal_id
		WHERE oi.order_id = $1
		ORDER BY oi.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListItemsForOrders returns the items of every listed order in one read,
// grouped by order id. Used by the order listings so they embed the same item
// shape the detail read does.
func (r *orderRepo) ListItemsForOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]*models.OrderItem, error) {
	query := `
		SELECT ` + orderItemColumns + `
		FROM order_items oi
		JOIN meals m ON m.id = oi.meal_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := make(map[uuid.UUID][]*models.OrderItem, len(orderIDs))
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		grouped[item.OrderID] = append(grouped[item.OrderID], item)
	}
	return grouped, rows.Err()
}

func scanOrderItem(rows pgx.Rows) (*models.OrderItem, error) {
	item := &models.OrderItem{Meal: &models.Meal{}}
	if err := rows.Scan(&item.ID, &item.OrderID, &item.MealID, &item.Quantity, &item.PriceAtTime, &item.CreatedAt,
		&item.Meal.ID, &item.Meal.ProviderID, &item.Meal.CategoryID, &item.Meal.Name, &item.Meal.Description,
		&item.Meal.Price, &item.Meal.ImageURL, &item.Meal.IsAvailable, &item.Meal.CreatedAt, &item.Meal.UpdatedAt); err != nil {
		return nil, err
	}
	return item, nil
}

// HasDeliveredMeal reports whether the customer has at least one delivered
// order containing the meal.
func (r *orderRepo) HasDeliveredMeal(ctx context.Context, customerID, mealID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE oi.meal_id = $1 AND o.customer_id = $2 AND o.status = $3
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, mealID, customerID, models.OrderStatusDelivered).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func scanOrders(rows pgx.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.ProviderID, &order.DeliveryAddress,
			&order.TotalAmount, &order.Status, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
