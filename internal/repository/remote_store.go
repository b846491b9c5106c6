package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"meal-planner/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// RemoteStore implements Store on PostgreSQL. Ingredients and meals are kept
// in JSONB columns and decoded through the model codec on the way out.
type RemoteStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRemoteStore creates a new PostgreSQL-backed store. The store takes
// ownership of pool and closes it on Close.
func NewRemoteStore(pool *pgxpool.Pool, logger zerolog.Logger) *RemoteStore {
	return &RemoteStore{
		pool:   pool,
		logger: logger.With().Str("repository", "remote").Logger(),
	}
}

// Name identifies the backend in logs.
func (s *RemoteStore) Name() string {
	return "remote"
}

// Ping checks that the database is reachable.
func (s *RemoteStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *RemoteStore) Close() error {
	s.pool.Close()
	return nil
}

const recipeColumns = `id, name, description, ingredients, instructions, cook_time, servings`

// ListRecipes retrieves all recipes ordered by name.
func (s *RemoteStore) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes ORDER BY name, id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query recipes")
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to scan recipe row")
			return nil, err
		}
		recipes = append(recipes, *r)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).Msg("error iterating recipe rows")
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	return recipes, nil
}

// GetRecipe retrieves a single recipe by its ID.
func (s *RemoteStore) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`

	r, err := scanRecipe(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().Str("recipe_id", id).Msg("recipe not found")
			return nil, nil
		}
		s.logger.Error().Err(err).Str("recipe_id", id).Msg("failed to query recipe")
		return nil, err
	}

	return r, nil
}

// CreateRecipe inserts a new recipe.
func (s *RemoteStore) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}

	ingredients, err := encodeIngredients(recipe.Ingredients)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO recipes (id, name, description, ingredients, instructions, cook_time, servings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`

	_, err = s.pool.Exec(ctx, query,
		recipe.ID, recipe.Name, recipe.Description, ingredients,
		recipe.Instructions, recipe.CookTime, recipe.Servings,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("recipe_id", recipe.ID).Msg("failed to create recipe")
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	s.logger.Debug().Str("recipe_id", recipe.ID).Msg("recipe created successfully")
	return nil
}

// UpdateRecipe replaces an existing recipe.
func (s *RemoteStore) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	ingredients, err := encodeIngredients(recipe.Ingredients)
	if err != nil {
		return err
	}

	query := `
		UPDATE recipes
		SET name = $2, description = $3, ingredients = $4, instructions = $5,
		    cook_time = $6, servings = $7, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		recipe.ID, recipe.Name, recipe.Description, ingredients,
		recipe.Instructions, recipe.CookTime, recipe.Servings,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("recipe_id", recipe.ID).Msg("failed to update recipe")
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	if tag.RowsAffected() == 0 {
		s.logger.Debug().Str("recipe_id", recipe.ID).Msg("recipe to update not found")
		return model.ErrRecipeNotFound
	}

	return nil
}

// DeleteRecipe removes a recipe by ID.
func (s *RemoteStore) DeleteRecipe(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id); err != nil {
		s.logger.Error().Err(err).Str("recipe_id", id).Msg("failed to delete recipe")
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

// ListMealPlans retrieves all meal plans keyed by date.
func (s *RemoteStore) ListMealPlans(ctx context.Context) (map[string]model.MealPlan, error) {
	rows, err := s.pool.Query(ctx, `SELECT date, meals FROM meal_plans ORDER BY date`)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query meal plans")
		return nil, fmt.Errorf("failed to query meal plans: %w", err)
	}
	defer rows.Close()

	plans := make(map[string]model.MealPlan)
	for rows.Next() {
		plan, err := scanMealPlan(rows)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to scan meal plan row")
			return nil, err
		}
		plans[plan.Date] = *plan
	}

	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).Msg("error iterating meal plan rows")
		return nil, fmt.Errorf("error iterating meal plans: %w", err)
	}

	return plans, nil
}

// GetMealPlan retrieves the meal plan for a date.
func (s *RemoteStore) GetMealPlan(ctx context.Context, date string) (*model.MealPlan, error) {
	plan, err := scanMealPlan(s.pool.QueryRow(ctx, `SELECT date, meals FROM meal_plans WHERE date = $1`, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().Str("date", date).Msg("meal plan not found")
			return nil, nil
		}
		s.logger.Error().Err(err).Str("date", date).Msg("failed to query meal plan")
		return nil, err
	}

	return plan, nil
}

// SaveMealPlan upserts the plan for plan.Date.
func (s *RemoteStore) SaveMealPlan(ctx context.Context, plan *model.MealPlan) error {
	meals, err := encodeMeals(plan.Meals)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO meal_plans (id, date, meals, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (date) DO UPDATE
		SET meals = EXCLUDED.meals, updated_at = NOW()
	`

	if _, err := s.pool.Exec(ctx, query, uuid.New(), plan.Date, meals); err != nil {
		s.logger.Error().Err(err).Str("date", plan.Date).Msg("failed to save meal plan")
		return fmt.Errorf("failed to save meal plan: %w", err)
	}

	s.logger.Debug().Str("date", plan.Date).Int("meals", len(plan.Meals)).Msg("meal plan saved")
	return nil
}

// DeleteMealPlan removes the plan for a date.
func (s *RemoteStore) DeleteMealPlan(ctx context.Context, date string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM meal_plans WHERE date = $1`, date); err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("failed to delete meal plan")
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	return nil
}

// Replace swaps the selected collections inside one transaction.
func (s *RemoteStore) Replace(ctx context.Context, r Replacement) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if r.ReplaceRecipes {
		if err = s.replaceRecipes(ctx, tx, r.Recipes); err != nil {
			return err
		}
	}

	if r.ReplaceMealPlans {
		if err = s.replaceMealPlans(ctx, tx, r.MealPlans); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
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

func (s *RemoteStore) replaceRecipes(ctx context.Context, tx pgx.Tx, recipes []model.Recipe) error {
	if _, err := tx.Exec(ctx, `DELETE FROM recipes`); err != nil {
		return fmt.Errorf("failed to clear recipes: %w", err)
	}
	if len(recipes) == 0 {
		return nil
	}

	query := `
		INSERT INTO recipes (id, name, description, ingredients, instructions, cook_time, servings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`

	batch := &pgx.Batch{}
	for _, r := range recipes {
		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		ingredients, err := encodeIngredients(r.Ingredients)
		if err != nil {
			return err
		}
		batch.Queue(query, id, r.Name, r.Description, ingredients, r.Instructions, r.CookTime, r.Servings)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(recipes); i++ {
		if _, err := results.Exec(); err != nil {
			s.logger.Error().Err(err).Str("recipe_id", recipes[i].ID).Msg("failed to insert recipe")
			return fmt.Errorf("failed to insert recipe: %w", err)
		}
	}

	return nil
}

func (s *RemoteStore) replaceMealPlans(ctx context.Context, tx pgx.Tx, plans map[string]model.MealPlan) error {
	if _, err := tx.Exec(ctx, `DELETE FROM meal_plans`); err != nil {
		return fmt.Errorf("failed to clear meal plans: %w", err)
	}
	if len(plans) == 0 {
		return nil
	}

	query := `
		INSERT INTO meal_plans (id, date, meals, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`

	batch := &pgx.Batch{}
	dates := make([]string, 0, len(plans))
	for date, plan := range plans {
		meals, err := encodeMeals(plan.Meals)
		if err != nil {
			return err
		}
		batch.Queue(query, uuid.New(), date, meals)
		dates = append(dates, date)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range dates {
		if _, err := results.Exec(); err != nil {
			s.logger.Error().Err(err).Str("date", dates[i]).Msg("failed to insert meal plan")
			return fmt.Errorf("failed to insert meal plan: %w", err)
		}
	}

	return nil
}

func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var (
		r           model.Recipe
		ingredients []byte
	)
	err := row.Scan(&r.ID, &r.Name, &r.Description, &ingredients, &r.Instructions, &r.CookTime, &r.Servings)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan recipe: %w", err)
	}

	r.Ingredients, err = model.DecodeIngredients(ingredients)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", r.ID, err)
	}

	return &r, nil
}

func scanMealPlan(row pgx.Row) (*model.MealPlan, error) {
	var (
		plan  model.MealPlan
		meals []byte
	)
	if err := row.Scan(&plan.Date, &meals); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan meal plan: %w", err)
	}

	decoded, err := model.DecodeMeals(meals)
	if err != nil {
		return nil, fmt.Errorf("meal plan %s: %w", plan.Date, err)
	}
	plan.Meals = decoded

	return &plan, nil
}

func encodeIngredients(ingredients []model.Ingredient) (string, error) {
	if ingredients == nil {
		ingredients = []model.Ingredient{}
	}
	data, err := json.Marshal(ingredients)
	if err != nil {
		return "", fmt.Errorf("failed to encode ingredients: %w", err)
	}
	return string(data), nil
}

func encodeMeals(meals map[string]model.Recipe) (string, error) {
	if meals == nil {
		meals = map[string]model.Recipe{}
	}
	data, err := json.Marshal(meals)
	if err != nil {
		return "", fmt.Errorf("failed to encode meals: %w", err)
	}
	return string(data), nil
}
