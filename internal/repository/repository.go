package repository

import (
	"context"

	"meal-planner/internal/model"
)

// RecipeRepository defines the interface for recipe data access operations.
type RecipeRepository interface {
	// ListRecipes retrieves every stored recipe.
	ListRecipes(ctx context.Context) ([]model.Recipe, error)

	// GetRecipe retrieves a single recipe by its ID.
	// Returns nil without error when the recipe does not exist.
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)

	// CreateRecipe stores a new recipe, assigning a random ID when the
	// recipe has none.
	CreateRecipe(ctx context.Context, recipe *model.Recipe) error

	// UpdateRecipe replaces the stored recipe with the same ID.
	// Returns model.ErrRecipeNotFound if no such recipe exists.
	UpdateRecipe(ctx context.Context, recipe *model.Recipe) error

	// DeleteRecipe removes a recipe. Meal plans keep their own copies.
	DeleteRecipe(ctx context.Context, id string) error
}

// MealPlanRepository defines the interface for meal plan data access operations.
type MealPlanRepository interface {
	// ListMealPlans retrieves every stored meal plan keyed by date.
	ListMealPlans(ctx context.Context) (map[string]model.MealPlan, error)

	// GetMealPlan retrieves the meal plan for a date.
	// Returns nil without error when no plan exists for the date.
	GetMealPlan(ctx context.Context, date string) (*model.MealPlan, error)

	// SaveMealPlan creates or wholesale replaces the plan for plan.Date.
	SaveMealPlan(ctx context.Context, plan *model.MealPlan) error

	// DeleteMealPlan removes the plan for a date.
	DeleteMealPlan(ctx context.Context, date string) error
}

// Replacement describes a wholesale replacement of stored collections.
// Collections whose flag is false are left untouched.
type Replacement struct {
	ReplaceRecipes   bool
	Recipes          []model.Recipe
	ReplaceMealPlans bool
	MealPlans        map[string]model.MealPlan
}

// Store is the storage abstraction consumed by the services.
type Store interface {
	RecipeRepository
	MealPlanRepository

	// Replace applies r atomically.
	Replace(ctx context.Context, r Replacement) error

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error

	// Name identifies the backend in logs.
	Name() string

	// Close releases resources held by the store.
	Close() error
}
