package service

import (
	"context"
	"time"

	"meal-planner/internal/model"
)

// RecipeService defines operations for recipe management.
type RecipeService interface {
	// List retrieves all recipes, optionally filtered by a case-insensitive
	// query over name and description.
	List(ctx context.Context, query string) ([]model.Recipe, error)

	// GetByID retrieves a single recipe by ID.
	GetByID(ctx context.Context, id string) (*model.Recipe, error)

	// Create validates and stores a new recipe.
	Create(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)

	// Update validates and replaces the recipe with the given ID.
	Update(ctx context.Context, id string, recipe *model.Recipe) (*model.Recipe, error)

	// Delete removes a recipe. Meal plans that reference it are not changed.
	Delete(ctx context.Context, id string) error
}

// MealPlanService defines operations for meal plan management.
type MealPlanService interface {
	// List retrieves all meal plans keyed by date.
	List(ctx context.Context) (map[string]model.MealPlan, error)

	// GetByDate retrieves the meal plan for a date.
	GetByDate(ctx context.Context, date string) (*model.MealPlan, error)

	// Save stores a plan wholesale, replacing any plan for the same date.
	Save(ctx context.Context, plan *model.MealPlan) error

	// AssignMeals resolves slot to recipe ID assignments into recipe
	// snapshots and saves the resulting plan.
	AssignMeals(ctx context.Context, date string, meals map[string]string) (*model.MealPlan, error)

	// Delete removes the plan for a date.
	Delete(ctx context.Context, date string) error
}

// ShoppingService derives shopping lists from stored meal plans.
type ShoppingService interface {
	// Generate builds the shopping list for the seven days starting at start.
	Generate(ctx context.Context, start time.Time) (*model.ShoppingList, error)

	// Weeks returns the selectable windows around now.
	Weeks(now time.Time) []model.WeekOption
}

// DataService defines bulk data operations.
type DataService interface {
	// Export returns every recipe and meal plan.
	Export(ctx context.Context) (*model.ExportDocument, error)

	// Import replaces stored collections from an export document.
	Import(ctx context.Context, raw []byte) (*model.ImportResult, error)

	// Clear deletes all recipes and meal plans.
	Clear(ctx context.Context) error

	// Backup writes an export document to the archive under name.
	Backup(ctx context.Context, name string) (string, error)

	// Restore imports the export document stored in the archive under name.
	Restore(ctx context.Context, name string) (*model.ImportResult, error)
}
