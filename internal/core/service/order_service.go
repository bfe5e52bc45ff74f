package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/spicedrama/ordering-system/internal/core/domain"
	"github.com/spicedrama/ordering-system/internal/core/ports"
)

// OrderService implements order use cases.
type OrderService struct {
	orders ports.OrderRepository
	foods  ports.FoodRepository
	events ports.OrderEventSink
	log    zerolog.Logger
}

// NewOrderService wires order use cases. events may be nil, which disables
// the asynchronous audit trail.
func NewOrderService(orders ports.OrderRepository, foods ports.FoodRepository, events ports.OrderEventSink, log zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, foods: foods, events: events, log: log}
}

// Place resolves each requested food item, snapshots name and price into the
// order lines, and persists the order in the initial status.
func (s *OrderService) Place(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrMissingField
	}

	var amount float64
	lines := make([]domain.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		if it.FoodID == "" || it.Quantity <= 0 {
			return nil, domain.ErrMissingField
		}
		food, err := s.foods.FindByID(ctx, it.FoodID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.OrderItem{
			FoodID:   food.ID,
			Name:     food.Name,
			Price:    food.Price,
			Quantity: it.Quantity,
		})
		amount += food.Price * float64(it.Quantity)
	}

	now := time.Now().UTC()
	order := &domain.Order{
		Items:     lines,
		Amount:    amount,
		Status:    domain.StatusProcessing,
		Address:   input.Address,
		PlacedBy:  input.PlacedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("order_id", created.ID).Float64("amount", created.Amount).Msg("order placed")
	return created, nil
}

func (s *OrderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.List(ctx)
}

// UpdateStatus applies a status change and enqueues an audit event. The
// update itself is synchronous; only the audit write is deferred.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, actor string) (*domain.Order, error) {
	if !domain.KnownStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	updated, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Enqueue(domain.OrderEvent{
			OrderID:   updated.ID,
			Status:    status,
			Actor:     actor,
			Timestamp: time.Now().UTC(),
		})
	}

	s.log.Info().Str("order_id", id).Str("status", string(status)).Str("actor", actor).Msg("order status updated")
	return updated, nil
}
