package repository

import (
	"context"
	"errors"

	"meal-planner/internal/model"

	"github.com/rs/zerolog"
)

// FallbackStore tries the remote store first and serves the request from the
// local store when the remote one fails. Not-found answers and cancelled
// contexts are returned as they are. Local failures are always returned.
type FallbackStore struct {
	remote Store
	local  Store
	logger zerolog.Logger
}

// NewFallbackStore creates a store that prefers remote and falls back to
// local. If remote is nil, every operation goes straight to local.
func NewFallbackStore(remote, local Store, logger zerolog.Logger) *FallbackStore {
	return &FallbackStore{
		remote: remote,
		local:  local,
		logger: logger.With().Str("repository", "fallback").Logger(),
	}
}

// Name identifies the backend in logs.
func (s *FallbackStore) Name() string {
	if s.remote == nil {
		return s.local.Name()
	}
	return s.remote.Name() + "+" + s.local.Name()
}

// shouldFallback reports whether a remote error warrants retrying locally.
func shouldFallback(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	// A remote timeout on a live context is an outage, not a cancellation.
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, model.ErrRecipeNotFound) || errors.Is(err, model.ErrMealPlanNotFound) {
		return false
	}
	return true
}

func withFallback[T any](ctx context.Context, s *FallbackStore, op string, call func(Store) (T, error)) (T, error) {
	if s.remote != nil {
		result, err := call(s.remote)
		if !shouldFallback(ctx, err) {
			return result, err
		}

		s.logger.Warn().
			Err(err).
			Str("operation", op).
			Msg("remote store failed, falling back to local store")
	}

	return call(s.local)
}

func withFallbackErr(ctx context.Context, s *FallbackStore, op string, call func(Store) error) error {
	_, err := withFallback(ctx, s, op, func(st Store) (struct{}, error) {
		return struct{}{}, call(st)
	})
	return err
}

// ListRecipes retrieves all recipes.
func (s *FallbackStore) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	return withFallback(ctx, s, "list recipes", func(st Store) ([]model.Recipe, error) {
		return st.ListRecipes(ctx)
	})
}

// GetRecipe retrieves a single recipe by its ID.
func (s *FallbackStore) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	return withFallback(ctx, s, "get recipe", func(st Store) (*model.Recipe, error) {
		return st.GetRecipe(ctx, id)
	})
}

// CreateRecipe stores a new recipe.
func (s *FallbackStore) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	return withFallbackErr(ctx, s, "create recipe", func(st Store) error {
		return st.CreateRecipe(ctx, recipe)
	})
}

// UpdateRecipe replaces an existing recipe.
func (s *FallbackStore) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	return withFallbackErr(ctx, s, "update recipe", func(st Store) error {
		return st.UpdateRecipe(ctx, recipe)
	})
}

// DeleteRecipe removes a recipe by ID.
func (s *FallbackStore) DeleteRecipe(ctx context.Context, id string) error {
	return withFallbackErr(ctx, s, "delete recipe", func(st Store) error {
		return st.DeleteRecipe(ctx, id)
	})
}

// ListMealPlans retrieves all meal plans keyed by date.
func (s *FallbackStore) ListMealPlans(ctx context.Context) (map[string]model.MealPlan, error) {
	return withFallback(ctx, s, "list meal plans", func(st Store) (map[string]model.MealPlan, error) {
		return st.ListMealPlans(ctx)
	})
}

// GetMealPlan retrieves the meal plan for a date.
func (s *FallbackStore) GetMealPlan(ctx context.Context, date string) (*model.MealPlan, error) {
	return withFallback(ctx, s, "get meal plan", func(st Store) (*model.MealPlan, error) {
		return st.GetMealPlan(ctx, date)
	})
}

// SaveMealPlan creates or replaces the plan for plan.Date.
func (s *FallbackStore) SaveMealPlan(ctx context.Context, plan *model.MealPlan) error {
	return withFallbackErr(ctx, s, "save meal plan", func(st Store) error {
		return st.SaveMealPlan(ctx, plan)
	})
}

// DeleteMealPlan removes the plan for a date.
func (s *FallbackStore) DeleteMealPlan(ctx context.Context, date string) error {
	return withFallbackErr(ctx, s, "delete meal plan", func(st Store) error {
		return st.DeleteMealPlan(ctx, date)
	})
}

// Replace applies r to whichever store accepts it.
func (s *FallbackStore) Replace(ctx context.Context, r Replacement) error {
	return withFallbackErr(ctx, s, "replace collections", func(st Store) error {
		return st.Replace(ctx, r)
	})
}

// Ping succeeds when the local store is reachable. An unreachable remote
// store is logged but does not fail the check.
func (s *FallbackStore) Ping(ctx context.Context) error {
	if s.remote != nil {
		if err := s.remote.Ping(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("remote store unreachable")
		}
	}
	return s.local.Ping(ctx)
}

// Close closes both stores.
func (s *FallbackStore) Close() error {
	var errs []error
	if s.remote != nil {
		errs = append(errs, s.remote.Close())
	}
	errs = append(errs, s.local.Close())
	return errors.Join(errs...)
}
