package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"meal-planner/internal/archive"
	"meal-planner/internal/model"
	"meal-planner/internal/repository"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// newLocalStore returns an in-memory local store.
func newLocalStore(t *testing.T) repository.Store {
	t.Helper()

	db, err := repository.OpenLocalDB(context.Background(), ":memory:", nil)
	require.NoError(t, err)

	store := repository.NewLocalStore(db, zerolog.Nop())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newDataService(store repository.Store, arc archive.Archive) *dataService {
	svc := NewDataService(store, arc, zerolog.Nop()).(*dataService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func seed(t *testing.T, ctx context.Context, store repository.Store) {
	t.Helper()

	soup := model.Recipe{
		ID:          "R1",
		Name:        "Tomato Soup",
		Ingredients: []model.Ingredient{{Name: "Tomato", Amount: "4", Unit: ""}, {Name: "Cream", Amount: "100", Unit: "ml"}},
		CookTime:    30,
		Servings:    2,
	}
	toast := model.Recipe{ID: "R2", Name: "Toast", Ingredients: []model.Ingredient{}}

	require.NoError(t, store.CreateRecipe(ctx, &soup))
	require.NoError(t, store.CreateRecipe(ctx, &toast))
	require.NoError(t, store.SaveMealPlan(ctx, &model.MealPlan{
		Date:  "2024-01-15",
		Meals: map[string]model.Recipe{model.SlotDinner: soup, model.SlotBreakfast: toast},
	}))
}

func TestDataService_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()

	source := newLocalStore(t)
	seed(t, ctx, source)

	exported, err := newDataService(source, nil).Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15T10:30:00.000Z", exported.ExportDate)

	raw, err := json.Marshal(exported)
	require.NoError(t, err)

	target := newLocalStore(t)
	result, err := newDataService(target, nil).Import(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, &model.ImportResult{
		RecipesImported:   true,
		RecipeCount:       2,
		MealPlansImported: true,
		MealPlanCount:     1,
	}, result)

	reexported, err := newDataService(target, nil).Export(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff(exported, reexported); diff != "" {
		t.Errorf("round trip mismatch (-exported +reimported):\n%s", diff)
	}
}

func TestDataService_DeleteDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	store := newLocalStore(t)
	seed(t, ctx, store)

	recipes := NewRecipeService(store, zerolog.Nop())
	plans := NewMealPlanService(store, store, zerolog.Nop())

	require.NoError(t, recipes.Delete(ctx, "R1"))

	_, err := recipes.GetByID(ctx, "R1")
	assert.ErrorIs(t, err, model.ErrRecipeNotFound)

	plan, err := plans.GetByDate(ctx, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", plan.Meals[model.SlotDinner].Name)
	assert.Len(t, plan.Meals[model.SlotDinner].Ingredients, 2)
}

func TestDataService_ImportFailures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "Malformed JSON", raw: `{"recipes": [`},
		{name: "Not an object", raw: `[1, 2, 3]`},
		{name: "Null document", raw: `null`},
		{name: "Recipe with wrong field type", raw: `{"recipes": [{"id": "R1", "name": "Soup", "cookTime": "slow"}]}`},
		{name: "Meal snapshot without id", raw: `{"mealPlans": {"2024-01-15": {"date": "2024-01-15", "meals": {"dinner": {"name": "Soup"}}}}}`},
		{name: "Corrupt meal plan after valid recipes", raw: `{"recipes": [{"id": "R1", "name": "Soup"}], "mealPlans": {"2024-01-15": {"meals": 7}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockStore)
			service := newDataService(mockStore, nil)

			result, err := service.Import(ctx, []byte(tt.raw))

			assert.ErrorIs(t, err, model.ErrImportFailed)
			assert.Nil(t, result)
			mockStore.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
		})
	}
}

func TestDataService_ImportIgnoresWrongShapes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		raw      string
		expected repository.Replacement
		replaced bool
	}{
		{
			name:     "Recipes only",
			raw:      `{"recipes": []}`,
			expected: repository.Replacement{ReplaceRecipes: true, Recipes: []model.Recipe{}},
			replaced: true,
		},
		{
			name:     "Meal plans only",
			raw:      `{"mealPlans": {}}`,
			expected: repository.Replacement{ReplaceMealPlans: true, MealPlans: map[string]model.MealPlan{}},
			replaced: true,
		},
		{
			name:     "Recipes as object and meal plans as array are ignored",
			raw:      `{"recipes": {"a": 1}, "mealPlans": [1]}`,
			replaced: false,
		},
		{
			name:     "Null collections are ignored",
			raw:      `{"recipes": null, "mealPlans": null, "exportDate": "x"}`,
			replaced: false,
		},
		{
			name:     "Empty object",
			raw:      `{}`,
			replaced: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockStore)
			service := newDataService(mockStore, nil)

			if tt.replaced {
				mockStore.On("Replace", ctx, tt.expected).Return(nil)
			}

			result, err := service.Import(ctx, []byte(tt.raw))

			require.NoError(t, err)
			assert.Equal(t, tt.expected.ReplaceRecipes, result.RecipesImported)
			assert.Equal(t, tt.expected.ReplaceMealPlans, result.MealPlansImported)
			mockStore.AssertExpectations(t)
			if !tt.replaced {
				mockStore.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestDataService_ImportAcceptsNumericAmounts(t *testing.T) {
	ctx := context.Background()
	store := newLocalStore(t)

	raw := `{"recipes": [{"id": "R1", "name": "Eggs", "ingredients": [{"name": "egg", "amount": 2, "unit": ""}]}]}`
	_, err := newDataService(store, nil).Import(ctx, []byte(raw))
	require.NoError(t, err)

	recipe, err := store.GetRecipe(ctx, "R1")
	require.NoError(t, err)
	require.NotNil(t, recipe)
	assert.Equal(t, "2", recipe.Ingredients[0].Amount)
}

func TestDataService_ImportAssignsMissingIDs(t *testing.T) {
	ctx := context.Background()
	store := newLocalStore(t)

	raw := `{"recipes": [{"name": "Pancakes", "ingredients": [{"name": "Flour", "amount": "200", "unit": "g"}]}, {"id": "R2", "name": "Toast"}], "mealPlans": {}}`
	result, err := newDataService(store, nil).Import(ctx, []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 2, result.RecipeCount)

	recipes, err := store.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Pancakes", recipes[0].Name)
	assert.NotEmpty(t, recipes[0].ID)
	assert.Equal(t, "R2", recipes[1].ID)
}

func TestDataService_ImportKeysPlansByDate(t *testing.T) {
	ctx := context.Background()
	store := newLocalStore(t)

	raw := `{"mealPlans": {
		"2024-01-01": {"date": "2024-01-05", "meals": {"lunch": {"id": "R1", "name": "Soup"}}},
		"2024-01-05": {"date": "2024-01-05", "meals": {"dinner": {"id": "R2", "name": "Stew"}}}
	}}`
	_, err := newDataService(store, nil).Import(ctx, []byte(raw))
	require.NoError(t, err)

	plans, err := store.ListMealPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "2024-01-01", plans["2024-01-01"].Date)
}

func TestDataService_ReplaceError(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockStore)
	mockStore.On("Replace", ctx, mock.Anything).Return(errors.New("database error"))

	service := newDataService(mockStore, nil)

	_, err := service.Import(ctx, []byte(`{"recipes": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to import data")

	err = service.Clear(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear data")
}

func TestDataService_Clear(t *testing.T) {
	ctx := context.Background()
	store := newLocalStore(t)
	seed(t, ctx, store)

	service := newDataService(store, nil)
	require.NoError(t, service.Clear(ctx))

	doc, err := service.Export(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Recipes)
	assert.Empty(t, doc.MealPlans)
}

func TestDataService_BackupAndRestore(t *testing.T) {
	ctx := context.Background()
	arc := archive.NewFileArchive(t.TempDir(), zerolog.Nop())

	source := newLocalStore(t)
	seed(t, ctx, source)

	name, err := newDataService(source, arc).Backup(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "meal-planner-export-2024-01-15.json", name)

	gzName, err := newDataService(source, arc).Backup(ctx, "weekly.json.gz")
	require.NoError(t, err)
	assert.Equal(t, "weekly.json.gz", gzName)

	target := newLocalStore(t)
	result, err := newDataService(target, arc).Restore(ctx, "weekly.json.gz")
	require.NoError(t, err)
	assert.Equal(t, 2, result.RecipeCount)
	assert.Equal(t, 1, result.MealPlanCount)

	recipes, err := target.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
}

func TestDataService_BackupErrors(t *testing.T) {
	ctx := context.Background()

	_, err := newDataService(new(MockStore), nil).Backup(ctx, "a.json")
	assert.Error(t, err)

	arc := archive.NewFileArchive(t.TempDir(), zerolog.Nop())
	_, err = newDataService(new(MockStore), arc).Backup(ctx, "../a.json")
	assert.ErrorIs(t, err, archive.ErrInvalidName)

	_, err = newDataService(new(MockStore), arc).Restore(ctx, "missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load backup")
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "meal-planner-export-2024-01-15.json", ExportFileName(fixedNow))
}
