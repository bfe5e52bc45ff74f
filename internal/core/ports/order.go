package ports

import (
	"context"

	"github.com/spicedrama/ordering-system/internal/core/domain"
)

// OrderItemInput is a single requested line when placing an order.
type OrderItemInput struct {
	FoodID   string
	Quantity int
}

// PlaceOrderInput carries everything needed to place a new order.
type PlaceOrderInput struct {
	Items    []OrderItemInput
	Address  domain.DeliveryAddress
	PlacedBy string
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// List returns all orders ordered newest-first.
	List(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

// OrderEventRepository persists the order status audit trail.
type OrderEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.OrderEvent) error
}

// OrderEventSink receives audit events for asynchronous processing.
type OrderEventSink interface {
	Enqueue(event domain.OrderEvent)
}

// OrderService defines order use cases.
type OrderService interface {
	Place(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	// UpdateStatus applies a status change and records an audit event
	// attributed to actor.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, actor string) (*domain.Order, error)
}
