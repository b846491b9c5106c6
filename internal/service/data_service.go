package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meal-planner/internal/archive"
	"meal-planner/internal/model"
	"meal-planner/internal/repository"

	"github.com/rs/zerolog"
)

// exportDateLayout matches the millisecond UTC timestamps of existing export
// files.
const exportDateLayout = "2006-01-02T15:04:05.000Z"

// ExportFileName returns the conventional file name for an export taken at t.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("meal-planner-export-%s.json", t.UTC().Format(model.DateLayout))
}

// dataService implements DataService.
type dataService struct {
	store   repository.Store
	archive archive.Archive
	now     func() time.Time
	logger  zerolog.Logger
}

// NewDataService creates a new data service. archive may be nil when backups
// are not needed.
func NewDataService(store repository.Store, arc archive.Archive, logger zerolog.Logger) DataService {
	return &dataService{
		store:   store,
		archive: arc,
		now:     time.Now,
		logger:  logger.With().Str("service", "data").Logger(),
	}
}

// Export returns every recipe and meal plan.
func (s *dataService) Export(ctx context.Context) (*model.ExportDocument, error) {
	recipes, err := s.store.ListRecipes(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list recipes for export")
		return nil, fmt.Errorf("failed to export recipes: %w", err)
	}

	plans, err := s.store.ListMealPlans(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list meal plans for export")
		return nil, fmt.Errorf("failed to export meal plans: %w", err)
	}

	doc := &model.ExportDocument{
		Recipes:    recipes,
		MealPlans:  plans,
		ExportDate: s.now().UTC().Format(exportDateLayout),
	}

	s.logger.Info().
		Int("recipes", len(recipes)).
		Int("meal_plans", len(plans)).
		Msg("data exported")

	return doc, nil
}

// Import replaces stored collections from an export document. A collection
// is replaced only when its key is present with the right JSON shape; other
// keys are ignored. Every element is decoded before anything is written, so
// a bad document leaves the store untouched.
func (s *dataService) Import(ctx context.Context, raw []byte) (*model.ImportResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		s.logger.Warn().Err(err).Msg("import document is not a JSON object")
		return nil, importFailed(err)
	}

	var (
		replacement repository.Replacement
		result      model.ImportResult
	)

	if value, ok := fields["recipes"]; ok && jsonKind(value) == '[' {
		recipes, err := model.DecodeImportedRecipes(value)
		if err != nil {
			s.logger.Warn().Err(err).Msg("import document has invalid recipes")
			return nil, importFailed(err)
		}
		replacement.ReplaceRecipes = true
		replacement.Recipes = recipes
		result.RecipesImported = true
		result.RecipeCount = len(recipes)
	}

	if value, ok := fields["mealPlans"]; ok && jsonKind(value) == '{' {
		plans, err := model.DecodeMealPlans(value)
		if err != nil {
			s.logger.Warn().Err(err).Msg("import document has invalid meal plans")
			return nil, importFailed(err)
		}
		replacement.ReplaceMealPlans = true
		replacement.MealPlans = plans
		result.MealPlansImported = true
		result.MealPlanCount = len(plans)
	}

	if !replacement.ReplaceRecipes && !replacement.ReplaceMealPlans {
		s.logger.Info().Msg("import document contained no collections")
		return &result, nil
	}

	if err := s.store.Replace(ctx, replacement); err != nil {
		s.logger.Error().Err(err).Msg("failed to apply import")
		return nil, fmt.Errorf("failed to import data: %w", err)
	}

	s.logger.Info().
		Bool("recipes", result.RecipesImported).
		Int("recipe_count", result.RecipeCount).
		Bool("meal_plans", result.MealPlansImported).
		Int("meal_plan_count", result.MealPlanCount).
		Msg("data imported")

	return &result, nil
}

// Clear deletes all recipes and meal plans.
func (s *dataService) Clear(ctx context.Context) error {
	err := s.store.Replace(ctx, repository.Replacement{
		ReplaceRecipes:   true,
		Recipes:          []model.Recipe{},
		ReplaceMealPlans: true,
		MealPlans:        map[string]model.MealPlan{},
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to clear data")
		return fmt.Errorf("failed to clear data: %w", err)
	}

	s.logger.Info().Msg("all data cleared")
	return nil
}

// Backup writes the current export document to the archive. An empty name
// uses the dated export file name. The name actually written is returned.
func (s *dataService) Backup(ctx context.Context, name string) (string, error) {
	if s.archive == nil {
		return "", fmt.Errorf("backup archive is not configured")
	}
	if name == "" {
		name = ExportFileName(s.now())
	}
	if err := archive.ValidateName(name); err != nil {
		return "", err
	}

	doc, err := s.Export(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export document: %w", err)
	}

	if err := s.archive.Save(ctx, name, data); err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to save backup")
		return "", fmt.Errorf("failed to save backup %s: %w", name, err)
	}

	s.logger.Info().Str("name", name).Int("bytes", len(data)).Msg("backup saved")
	return name, nil
}

// Restore imports the export document stored under name.
func (s *dataService) Restore(ctx context.Context, name string) (*model.ImportResult, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("backup archive is not configured")
	}

	data, err := s.archive.Load(ctx, name)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to load backup")
		return nil, fmt.Errorf("failed to load backup %s: %w", name, err)
	}

	return s.Import(ctx, data)
}

// jsonKind returns the first significant byte of a JSON value, which
// identifies arrays and objects.
func jsonKind(value json.RawMessage) byte {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func importFailed(cause error) error {
	if cause == nil {
		return model.ErrImportFailed
	}
	return fmt.Errorf("%w: %v", model.ErrImportFailed, cause)
}
