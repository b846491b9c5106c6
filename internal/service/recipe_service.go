package service

import (
	"context"
	"errors"
	"fmt"

	"meal-planner/internal/model"
	"meal-planner/internal/repository"

	"github.com/rs/zerolog"
)

// recipeService implements RecipeService.
type recipeService struct {
	recipeRepo repository.RecipeRepository
	logger     zerolog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(recipeRepo repository.RecipeRepository, logger zerolog.Logger) RecipeService {
	return &recipeService{
		recipeRepo: recipeRepo,
		logger:     logger.With().Str("service", "recipe").Logger(),
	}
}

// List retrieves all recipes matching query.
func (s *recipeService) List(ctx context.Context, query string) ([]model.Recipe, error) {
	recipes, err := s.recipeRepo.ListRecipes(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list recipes")
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}

	if query == "" {
		return recipes, nil
	}

	matched := make([]model.Recipe, 0, len(recipes))
	for i := range recipes {
		if recipes[i].Matches(query) {
			matched = append(matched, recipes[i])
		}
	}

	s.logger.Debug().
		Str("query", query).
		Int("total", len(recipes)).
		Int("matched", len(matched)).
		Msg("filtered recipes")

	return matched, nil
}

// GetByID retrieves a single recipe by ID.
func (s *recipeService) GetByID(ctx context.Context, id string) (*model.Recipe, error) {
	if id == "" {
		s.logger.Warn().Msg("recipe ID is empty")
		return nil, model.ErrRecipeNotFound
	}

	recipe, err := s.recipeRepo.GetRecipe(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("recipe_id", id).Msg("failed to get recipe by ID")
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	if recipe == nil {
		s.logger.Debug().Str("recipe_id", id).Msg("recipe not found")
		return nil, model.ErrRecipeNotFound
	}

	return recipe, nil
}

// Create validates and stores a new recipe.
func (s *recipeService) Create(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	if err := recipe.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("rejected invalid recipe")
		return nil, err
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []model.Ingredient{}
	}

	if err := s.recipeRepo.CreateRecipe(ctx, recipe); err != nil {
		s.logger.Error().Err(err).Str("name", recipe.Name).Msg("failed to create recipe")
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.logger.Info().
		Str("recipe_id", recipe.ID).
		Str("name", recipe.Name).
		Int("ingredients", len(recipe.Ingredients)).
		Msg("recipe created")

	return recipe, nil
}

// Update validates and replaces the recipe with the given ID. The ID in the
// path wins over any ID in the body.
func (s *recipeService) Update(ctx context.Context, id string, recipe *model.Recipe) (*model.Recipe, error) {
	if id == "" {
		return nil, model.ErrRecipeNotFound
	}
	if err := recipe.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("recipe_id", id).Msg("rejected invalid recipe")
		return nil, err
	}

	recipe.ID = id
	if recipe.Ingredients == nil {
		recipe.Ingredients = []model.Ingredient{}
	}

	if err := s.recipeRepo.UpdateRecipe(ctx, recipe); err != nil {
		if errors.Is(err, model.ErrRecipeNotFound) {
			s.logger.Debug().Str("recipe_id", id).Msg("recipe to update not found")
			return nil, model.ErrRecipeNotFound
		}
		s.logger.Error().Err(err).Str("recipe_id", id).Msg("failed to update recipe")
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	s.logger.Info().Str("recipe_id", id).Msg("recipe updated")
	return recipe, nil
}

// Delete removes a recipe by ID.
func (s *recipeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrRecipeNotFound
	}

	if err := s.recipeRepo.DeleteRecipe(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("recipe_id", id).Msg("failed to delete recipe")
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.logger.Info().Str("recipe_id", id).Msg("recipe deleted")
	return nil
}
