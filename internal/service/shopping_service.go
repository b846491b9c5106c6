package service

import (
	"context"
	"fmt"
	"time"

	"meal-planner/internal/model"
	"meal-planner/internal/repository"
	"meal-planner/internal/shopping"

	"github.com/rs/zerolog"
)

// shoppingService implements ShoppingService.
type shoppingService struct {
	planRepo repository.MealPlanRepository
	logger   zerolog.Logger
}

// NewShoppingService creates a new shopping service.
func NewShoppingService(planRepo repository.MealPlanRepository, logger zerolog.Logger) ShoppingService {
	return &shoppingService{
		planRepo: planRepo,
		logger:   logger.With().Str("service", "shopping").Logger(),
	}
}

// Generate builds the shopping list for the window starting at start.
func (s *shoppingService) Generate(ctx context.Context, start time.Time) (*model.ShoppingList, error) {
	plans, err := s.planRepo.ListMealPlans(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load meal plans for shopping list")
		return nil, fmt.Errorf("failed to get meal plans: %w", err)
	}

	list := shopping.Build(plans, start)

	s.logger.Debug().
		Str("start", list.StartDate).
		Str("end", list.EndDate).
		Int("plans", len(plans)).
		Int("items", len(list.Items)).
		Msg("generated shopping list")

	return &list, nil
}

// Weeks returns the selectable windows around now.
func (s *shoppingService) Weeks(now time.Time) []model.WeekOption {
	return shopping.WeekOptions(now)
}
