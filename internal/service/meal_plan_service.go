package service

import (
	"context"
	"fmt"
	"strings"

	"meal-planner/internal/model"
	"meal-planner/internal/repository"

	"github.com/rs/zerolog"
)

// mealPlanService implements MealPlanService.
type mealPlanService struct {
	planRepo   repository.MealPlanRepository
	recipeRepo repository.RecipeRepository
	logger     zerolog.Logger
}

// NewMealPlanService creates a new meal plan service.
func NewMealPlanService(
	planRepo repository.MealPlanRepository,
	recipeRepo repository.RecipeRepository,
	logger zerolog.Logger,
) MealPlanService {
	return &mealPlanService{
		planRepo:   planRepo,
		recipeRepo: recipeRepo,
		logger:     logger.With().Str("service", "meal_plan").Logger(),
	}
}

// List retrieves all meal plans keyed by date.
func (s *mealPlanService) List(ctx context.Context) (map[string]model.MealPlan, error) {
	plans, err := s.planRepo.ListMealPlans(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list meal plans")
		return nil, fmt.Errorf("failed to get meal plans: %w", err)
	}

	s.logger.Debug().Int("count", len(plans)).Msg("retrieved meal plans")
	return plans, nil
}

// GetByDate retrieves the meal plan for a date.
func (s *mealPlanService) GetByDate(ctx context.Context, date string) (*model.MealPlan, error) {
	if err := model.ValidateDate(date); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetMealPlan(ctx, date)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("failed to get meal plan")
		return nil, fmt.Errorf("failed to get meal plan: %w", err)
	}

	if plan == nil {
		s.logger.Debug().Str("date", date).Msg("meal plan not found")
		return nil, model.ErrMealPlanNotFound
	}

	return plan, nil
}

// Save stores a plan wholesale.
func (s *mealPlanService) Save(ctx context.Context, plan *model.MealPlan) error {
	if err := model.ValidateDate(plan.Date); err != nil {
		return err
	}
	if plan.Meals == nil {
		plan.Meals = map[string]model.Recipe{}
	}
	for slot, recipe := range plan.Meals {
		if strings.TrimSpace(slot) == "" || recipe.ID == "" {
			return model.NewDomainError(model.ErrCodeInvalidRecipe,
				fmt.Sprintf("Recipe is invalid: slot %q needs a recipe with an id", slot))
		}
	}

	if err := s.planRepo.SaveMealPlan(ctx, plan); err != nil {
		s.logger.Error().Err(err).Str("date", plan.Date).Msg("failed to save meal plan")
		return fmt.Errorf("failed to save meal plan: %w", err)
	}

	s.logger.Info().
		Str("date", plan.Date).
		Int("meals", len(plan.Meals)).
		Msg("meal plan saved")

	return nil
}

// AssignMeals builds a plan from slot to recipe ID assignments. Each recipe
// is copied into the plan as it is now; an empty ID leaves the slot empty.
func (s *mealPlanService) AssignMeals(ctx context.Context, date string, meals map[string]string) (*model.MealPlan, error) {
	if err := model.ValidateDate(date); err != nil {
		return nil, err
	}

	plan := &model.MealPlan{
		Date:  date,
		Meals: make(map[string]model.Recipe, len(meals)),
	}

	for slot, recipeID := range meals {
		slot = strings.TrimSpace(slot)
		if slot == "" || recipeID == "" {
			continue
		}

		recipe, err := s.recipeRepo.GetRecipe(ctx, recipeID)
		if err != nil {
			s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("failed to resolve recipe for meal plan")
			return nil, fmt.Errorf("failed to get recipe: %w", err)
		}
		if recipe == nil {
			s.logger.Debug().
				Str("date", date).
				Str("slot", slot).
				Str("recipe_id", recipeID).
				Msg("assigned recipe not found")
			return nil, model.NewDomainError(model.ErrCodeRecipeNotFound,
				fmt.Sprintf("Recipe not found: %s", recipeID))
		}

		plan.Meals[slot] = *recipe
	}

	if err := s.Save(ctx, plan); err != nil {
		return nil, err
	}

	return plan, nil
}

// Delete removes the plan for a date.
func (s *mealPlanService) Delete(ctx context.Context, date string) error {
	if err := model.ValidateDate(date); err != nil {
		return err
	}

	if err := s.planRepo.DeleteMealPlan(ctx, date); err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("failed to delete meal plan")
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}

	s.logger.Info().Str("date", date).Msg("meal plan deleted")
	return nil
}
