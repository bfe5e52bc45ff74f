package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/spicedrama/ordering-system/internal/core/domain"
	"github.com/spicedrama/ordering-system/internal/core/ports"
)

// FoodService implements catalog use cases.
type FoodService struct {
	repo ports.FoodRepository
	log  zerolog.Logger
}

func NewFoodService(repo ports.FoodRepository, log zerolog.Logger) *FoodService {
	return &FoodService{repo: repo, log: log}
}

func (s *FoodService) Add(ctx context.Context, input ports.CreateFoodInput) (*domain.FoodItem, error) {
	if input.Name == "" || input.Category == "" || input.Price <= 0 {
		return nil, domain.ErrMissingField
	}

	now := time.Now().UTC()
	item := &domain.FoodItem{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("food_id", created.ID).Str("category", created.Category).Msg("food item added")
	return created, nil
}

func (s *FoodService) Get(ctx context.Context, id string) (*domain.FoodItem, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *FoodService) List(ctx context.Context) ([]*domain.FoodItem, error) {
	return s.repo.List(ctx)
}

func (s *FoodService) Update(ctx context.Context, id string, input ports.UpdateFoodInput) (*domain.FoodItem, error) {
	if input.Price != nil && *input.Price <= 0 {
		return nil, domain.ErrMissingField
	}

	updated, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("food_id", id).Msg("food item updated")
	return updated, nil
}

func (s *FoodService) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("food_id", id).Msg("food item removed")
	return nil
}
