package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. An order starts as placed and moves forward through the
// transition table in services; delivered and cancelled are terminal.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID              uuid.UUID    `json:"id" db:"id"`
	CustomerID      uuid.UUID    `json:"customer_id" db:"customer_id"`
	ProviderID      uuid.UUID    `json:"provider_id" db:"provider_id"`
	DeliveryAddress string       `json:"delivery_address" db:"delivery_address"`
	TotalAmount     float64      `json:"total_amount" db:"total_amount"`
	Status          string       `json:"status" db:"status"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
	Items           []*OrderItem `json:"items,omitempty" db:"-"` // For nested responses
}

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	MealID   uuid.UUID `json:"meal_id"`
	Quantity int       `json:"quantity"`
}

// CreateOrderRequest is the order-creation payload. Multiple lines naming the
// same meal are merged by summing their quantities into a single order item;
// the merged quantity must stay within the per-item bound.
type CreateOrderRequest struct {
	DeliveryAddress string             `json:"delivery_address"`
	Items           []OrderItemRequest `json:"items"`
}
