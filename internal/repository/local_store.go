package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"meal-planner/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Keys under which the local store keeps its two collections. Recipes are a
// JSON array in insertion order; meal plans are a JSON object keyed by date.
const (
	recipesKey   = "recipes"
	mealPlansKey = "mealPlans"
)

// LocalStore implements Store on an embedded SQLite key/value table. Each
// operation reads the whole collection, edits it and writes it back.
type LocalStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewLocalStore creates a store on an already opened database.
// The store takes ownership of db and closes it on Close.
func NewLocalStore(db *sql.DB, logger zerolog.Logger) *LocalStore {
	return &LocalStore{
		db:     db,
		logger: logger.With().Str("repository", "local").Logger(),
	}
}

// Name identifies the backend in logs.
func (s *LocalStore) Name() string {
	return "local"
}

// Ping checks that the database is usable.
func (s *LocalStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// ListRecipes retrieves all recipes in insertion order.
func (s *LocalStore) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadRecipes(ctx, s.db)
}

// GetRecipe retrieves a single recipe by its ID.
func (s *LocalStore) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipes, err := s.loadRecipes(ctx, s.db)
	if err != nil {
		return nil, err
	}

	for i := range recipes {
		if recipes[i].ID == id {
			return &recipes[i], nil
		}
	}

	s.logger.Debug().Str("recipe_id", id).Msg("recipe not found")
	return nil, nil
}

// CreateRecipe appends a new recipe.
func (s *LocalStore) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}

	recipes, err := s.loadRecipes(ctx, s.db)
	if err != nil {
		return err
	}

	recipes = append(recipes, *recipe)
	if err := s.put(ctx, s.db, recipesKey, recipes); err != nil {
		return err
	}

	s.logger.Debug().Str("recipe_id", recipe.ID).Msg("recipe created successfully")
	return nil
}

// UpdateRecipe replaces the recipe with the same ID in place.
func (s *LocalStore) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipes, err := s.loadRecipes(ctx, s.db)
	if err != nil {
		return err
	}

	for i := range recipes {
		if recipes[i].ID == recipe.ID {
			recipes[i] = *recipe
			return s.put(ctx, s.db, recipesKey, recipes)
		}
	}

	s.logger.Debug().Str("recipe_id", recipe.ID).Msg("recipe to update not found")
	return model.ErrRecipeNotFound
}

// DeleteRecipe removes a recipe by ID. Deleting a missing recipe is a no-op.
func (s *LocalStore) DeleteRecipe(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipes, err := s.loadRecipes(ctx, s.db)
	if err != nil {
		return err
	}

	kept := recipes[:0]
	for _, r := range recipes {
		if r.ID != id {
			kept = append(kept, r)
		}
	}

	if len(kept) == len(recipes) {
		return nil
	}
	return s.put(ctx, s.db, recipesKey, kept)
}

// ListMealPlans retrieves all meal plans keyed by date.
func (s *LocalStore) ListMealPlans(ctx context.Context) (map[string]model.MealPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadMealPlans(ctx, s.db)
}

// GetMealPlan retrieves the meal plan for a date.
func (s *LocalStore) GetMealPlan(ctx context.Context, date string) (*model.MealPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plans, err := s.loadMealPlans(ctx, s.db)
	if err != nil {
		return nil, err
	}

	plan, ok := plans[date]
	if !ok {
		s.logger.Debug().Str("date", date).Msg("meal plan not found")
		return nil, nil
	}
	return &plan, nil
}

// SaveMealPlan creates or replaces the plan for plan.Date.
func (s *LocalStore) SaveMealPlan(ctx context.Context, plan *model.MealPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plans, err := s.loadMealPlans(ctx, s.db)
	if err != nil {
		return err
	}

	stored := *plan
	if stored.Meals == nil {
		stored.Meals = map[string]model.Recipe{}
	}
	plans[plan.Date] = stored

	if err := s.put(ctx, s.db, mealPlansKey, plans); err != nil {
		return err
	}

	s.logger.Debug().Str("date", plan.Date).Int("meals", len(stored.Meals)).Msg("meal plan saved")
	return nil
}

// DeleteMealPlan removes the plan for a date.
func (s *LocalStore) DeleteMealPlan(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plans, err := s.loadMealPlans(ctx, s.db)
	if err != nil {
		return err
	}

	if _, ok := plans[date]; !ok {
		return nil
	}
	delete(plans, date)
	return s.put(ctx, s.db, mealPlansKey, plans)
}

// Replace swaps the selected collections inside one transaction.
func (s *LocalStore) Replace(ctx context.Context, r Replacement) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if r.ReplaceRecipes {
		recipes := make([]model.Recipe, 0, len(r.Recipes))
		for _, recipe := range r.Recipes {
			if recipe.ID == "" {
				recipe.ID = uuid.NewString()
			}
			recipes = append(recipes, recipe)
		}
		if err = s.put(ctx, tx, recipesKey, recipes); err != nil {
			return err
		}
	}

	if r.ReplaceMealPlans {
		plans := make(map[string]model.MealPlan, len(r.MealPlans))
		for key, plan := range r.MealPlans {
			plan.Date = key
			plans[key] = plan
		}
		if err = s.put(ctx, tx, mealPlansKey, plans); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit replacement: %w", err)
	}

	s.logger.Info().
		Bool("recipes", r.ReplaceRecipes).
		Int("recipe_count", len(r.Recipes)).
		Bool("meal_plans", r.ReplaceMealPlans).
		Int("meal_plan_count", len(r.MealPlans)).
		Msg("collections replaced")

	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *LocalStore) get(ctx context.Context, q querier, key string) ([]byte, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to read local key")
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *LocalStore) put(ctx context.Context, q querier, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	query := `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`
	if _, err := q.ExecContext(ctx, query, key, string(data)); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to write local key")
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) loadRecipes(ctx context.Context, q querier) ([]model.Recipe, error) {
	data, err := s.get(ctx, q, recipesKey)
	if err != nil {
		return nil, err
	}

	recipes, err := model.DecodeRecipes(data)
	if err != nil {
		s.logger.Error().Err(err).Msg("stored recipes are corrupt")
		return nil, err
	}
	return recipes, nil
}

func (s *LocalStore) loadMealPlans(ctx context.Context, q querier) (map[string]model.MealPlan, error) {
	data, err := s.get(ctx, q, mealPlansKey)
	if err != nil {
		return nil, err
	}

	plans, err := model.DecodeMealPlans(data)
	if err != nil {
		s.logger.Error().Err(err).Msg("stored meal plans are corrupt")
		return nil, err
	}
	return plans, nil
}
