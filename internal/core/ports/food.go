package ports

import (
	"context"

	"github.com/spicedrama/ordering-system/internal/core/domain"
)

// CreateFoodInput carries the fields for a new catalog entry.
type CreateFoodInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	ImageURL    string
}

// UpdateFoodInput carries a partial catalog update. Nil fields are ignored.
type UpdateFoodInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	ImageURL    *string
}

// FoodRepository defines persistence operations for the food catalog.
type FoodRepository interface {
	Create(ctx context.Context, item *domain.FoodItem) (*domain.FoodItem, error)
	FindByID(ctx context.Context, id string) (*domain.FoodItem, error)
	List(ctx context.Context) ([]*domain.FoodItem, error)
	Update(ctx context.Context, id string, upd UpdateFoodInput) (*domain.FoodItem, error)
	Delete(ctx context.Context, id string) error
}

// FoodService defines catalog use cases.
type FoodService interface {
	Add(ctx context.Context, input CreateFoodInput) (*domain.FoodItem, error)
	Get(ctx context.Context, id string) (*domain.FoodItem, error)
	List(ctx context.Context) ([]*domain.FoodItem, error)
	Update(ctx context.Context, id string, input UpdateFoodInput) (*domain.FoodItem, error)
	Remove(ctx context.Context, id string) error
}
