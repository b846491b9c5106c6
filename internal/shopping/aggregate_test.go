package shopping

import (
	"math"
	"testing"

	"meal-planner/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipeWith(id string, ingredients ...model.Ingredient) model.Recipe {
	return model.Recipe{ID: id, Name: id, Ingredients: ingredients}
}

func ing(name, amount, unit string) model.Ingredient {
	return model.Ingredient{Name: name, Amount: amount, Unit: unit}
}

func TestAggregate_CaseInsensitiveMerge(t *testing.T) {
	plans := []model.MealPlan{{
		Date: "2024-05-05",
		Meals: map[string]model.Recipe{
			model.SlotBreakfast: recipeWith("r1", ing("Flour", "200", "g")),
			model.SlotDinner:    recipeWith("r2", ing("flour", "150", "g")),
		},
	}}

	got := Aggregate(plans)

	require.Len(t, got, 1)
	assert.Equal(t, "flour", got[0].Key)
	assert.Equal(t, 350.0, got[0].NumericTotal)
	assert.Equal(t, "g", got[0].Unit)
	assert.Empty(t, got[0].NonNumericParts)
}

func TestAggregate_UnitMismatchIsNeverSummed(t *testing.T) {
	plans := []model.MealPlan{{
		Date: "2024-05-05",
		Meals: map[string]model.Recipe{
			model.SlotLunch:  recipeWith("r1", ing("Salt", "1", "tsp")),
			model.SlotDinner: recipeWith("r2", ing("Salt", "2", "tbsp")),
		},
	}}

	got := Aggregate(plans)

	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].NumericTotal)
	assert.Equal(t, "tsp", got[0].Unit)
	assert.Equal(t, []string{"2 tbsp"}, got[0].NonNumericParts)
	assert.Equal(t, "1 tsp + 2 tbsp", Format(got[0]))
}

func TestAggregate_NonNumericFirstOccurrence(t *testing.T) {
	plans := []model.MealPlan{{
		Date: "2024-05-05",
		Meals: map[string]model.Recipe{
			model.SlotDinner: recipeWith("r1", ing("Seasoning", "a pinch", "salt")),
		},
	}}

	got := Aggregate(plans)

	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].NumericTotal)
	assert.Equal(t, []string{"a pinch salt"}, got[0].NonNumericParts)
	assert.Equal(t, "a pinch salt", Format(got[0]))
}

func TestAggregate_NonNumericThenNumeric(t *testing.T) {
	plans := []model.MealPlan{{
		Date: "2024-05-05",
		Meals: map[string]model.Recipe{
			model.SlotBreakfast: recipeWith("r1", ing("Pepper", "to taste", "")),
			model.SlotDinner:    recipeWith("r2", ing("pepper", "2", "")),
		},
	}}

	got := Aggregate(plans)

	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].NumericTotal)
	assert.Equal(t, []string{"to taste "}, got[0].NonNumericParts)
	assert.Equal(t, "2  + to taste ", Format(got[0]))
}

func TestAggregate_EggsEndToEnd(t *testing.T) {
	plans := map[string]model.MealPlan{
		"2024-05-06": {
			Date:  "2024-05-06",
			Meals: map[string]model.Recipe{model.SlotBreakfast: recipeWith("r1", ing("Eggs", "2", ""))},
		},
		"2024-05-09": {
			Date:  "2024-05-09",
			Meals: map[string]model.Recipe{model.SlotLunch: recipeWith("r2", ing("eggs", "3", ""))},
		},
	}

	start := date(t, "2024-05-05")
	got := Aggregate(SelectWindow(plans, start))

	require.Len(t, got, 1)
	assert.Equal(t, AggregatedIngredient{
		Key:             "eggs",
		NumericTotal:    5,
		Unit:            "",
		NonNumericParts: []string{},
	}, got[0])
	assert.Equal(t, "5 ", Format(got[0]))
}

func TestAggregate_DeterministicOrder(t *testing.T) {
	plans := []model.MealPlan{
		{
			Date: "2024-05-05",
			Meals: map[string]model.Recipe{
				"brunch":            recipeWith("r4", ing("Bacon", "3", "strips")),
				model.SlotDinner:    recipeWith("r3", ing("Rice", "1", "cup"), ing("Milk", "1", "l")),
				model.SlotBreakfast: recipeWith("r1", ing("Milk", "a splash", "")),
			},
		},
		{
			Date: "2024-05-06",
			Meals: map[string]model.Recipe{
				model.SlotLunch: recipeWith("r2", ing("Bread", "2", "slices"), ing("milk", "0.5", "l")),
			},
		},
	}

	for i := 0; i < 20; i++ {
		got := Aggregate(plans)

		keys := make([]string, len(got))
		for j, a := range got {
			keys[j] = a.Key
		}
		require.Equal(t, []string{"milk", "rice", "bacon", "bread"}, keys)

		// Breakfast comes before dinner, so "a splash" seeds the entry and
		// both litre amounts are kept as text against the empty unit.
		assert.Equal(t, []string{"a splash ", "1 l", "0.5 l"}, got[0].NonNumericParts)
		assert.Equal(t, 0.0, got[0].NumericTotal)
	}
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
	assert.Empty(t, Aggregate([]model.MealPlan{{Date: "2024-05-05"}}))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{input: "2", expected: 2, ok: true},
		{input: "1.5", expected: 1.5, ok: true},
		{input: " 3", expected: 3, ok: true},
		{input: "\u20032", expected: 2, ok: true},
		{input: "\u3000\ufeff4 g", expected: 4, ok: true},
		{input: "\u2028\u00a01", expected: 1, ok: true},
		{input: "\u00852", ok: false},
		{input: "2 cups", expected: 2, ok: true},
		{input: "1/2", expected: 1, ok: true},
		{input: ".5", expected: 0.5, ok: true},
		{input: "-1", expected: -1, ok: true},
		{input: "1e3", expected: 1000, ok: true},
		{input: "2e", expected: 2, ok: true},
		{input: "3.", expected: 3, ok: true},
		{input: "a pinch", ok: false},
		{input: "", ok: false},
		{input: ".", ok: false},
		{input: "-", ok: false},
		{input: "½", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestParseAmount_Infinity(t *testing.T) {
	got, ok := ParseAmount("Infinity")
	require.True(t, ok)
	assert.True(t, math.IsInf(got, 1))

	got, ok = ParseAmount("-Infinity cups")
	require.True(t, ok)
	assert.True(t, math.IsInf(got, -1))
}
