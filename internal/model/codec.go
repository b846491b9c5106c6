package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// UnmarshalJSON accepts amount as either a JSON string or a JSON number, so
// documents written by hand ("amount": 2) load the same as ones written by
// the app ("amount": "2").
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name   string          `json:"name"`
		Amount json.RawMessage `json:"amount"`
		Unit   string          `json:"unit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	amount, err := decodeAmount(raw.Amount)
	if err != nil {
		return fmt.Errorf("ingredient %q: %w", raw.Name, err)
	}

	i.Name = raw.Name
	i.Amount = amount
	i.Unit = raw.Unit
	return nil
}

func decodeAmount(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return n.String(), nil
	}

	return "", fmt.Errorf("amount must be a string or number, got %s", string(trimmed))
}

// DecodeIngredients decodes a persisted ingredients column.
func DecodeIngredients(data []byte) ([]Ingredient, error) {
	if isNullJSON(data) {
		return []Ingredient{}, nil
	}

	var ingredients []Ingredient
	if err := json.Unmarshal(data, &ingredients); err != nil {
		return nil, corrupt("ingredients", err)
	}
	if ingredients == nil {
		ingredients = []Ingredient{}
	}
	return ingredients, nil
}

// DecodeMeals decodes a persisted meals column. Every slot must hold a
// recipe snapshot with an id.
func DecodeMeals(data []byte) (map[string]Recipe, error) {
	if isNullJSON(data) {
		return map[string]Recipe{}, nil
	}

	var meals map[string]Recipe
	if err := json.Unmarshal(data, &meals); err != nil {
		return nil, corrupt("meals", err)
	}
	for slot, recipe := range meals {
		if err := checkSnapshot(slot, recipe); err != nil {
			return nil, err
		}
	}
	if meals == nil {
		meals = map[string]Recipe{}
	}
	return meals, nil
}

// DecodeRecipes decodes a stored JSON array of recipes. Every recipe must
// carry an id.
func DecodeRecipes(data []byte) ([]Recipe, error) {
	return decodeRecipes(data, true)
}

// DecodeImportedRecipes decodes a JSON array of recipes from an import
// document. Recipes without an id are kept and get one when stored.
func DecodeImportedRecipes(data []byte) ([]Recipe, error) {
	return decodeRecipes(data, false)
}

func decodeRecipes(data []byte, requireID bool) ([]Recipe, error) {
	if isNullJSON(data) {
		return []Recipe{}, nil
	}

	var recipes []Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, corrupt("recipes", err)
	}
	for i, r := range recipes {
		if requireID && r.ID == "" {
			return nil, corrupt("recipes", fmt.Errorf("recipe %d has no id", i))
		}
		if r.Ingredients == nil {
			recipes[i].Ingredients = []Ingredient{}
		}
	}
	if recipes == nil {
		recipes = []Recipe{}
	}
	return recipes, nil
}

// DecodeMealPlans decodes a JSON object of date to meal plan. The key is the
// plan's date; an embedded date is overwritten by it.
func DecodeMealPlans(data []byte) (map[string]MealPlan, error) {
	if isNullJSON(data) {
		return map[string]MealPlan{}, nil
	}

	var plans map[string]MealPlan
	if err := json.Unmarshal(data, &plans); err != nil {
		return nil, corrupt("meal plans", err)
	}
	for key, plan := range plans {
		plan.Date = key
		if plan.Meals == nil {
			plan.Meals = map[string]Recipe{}
		}
		for slot, recipe := range plan.Meals {
			if err := checkSnapshot(slot, recipe); err != nil {
				return nil, err
			}
		}
		plans[key] = plan
	}
	if plans == nil {
		plans = map[string]MealPlan{}
	}
	return plans, nil
}

func checkSnapshot(slot string, recipe Recipe) error {
	if strings.TrimSpace(recipe.ID) == "" {
		return corrupt("meals", fmt.Errorf("slot %q holds a recipe without an id", slot))
	}
	return nil
}

func isNullJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func corrupt(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrCorruptRecord, what, err)
}
