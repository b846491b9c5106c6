package model

import (
	"fmt"
	"strings"
)

// Ingredient is a single line of a recipe. Amount is free text and is not
// guaranteed to be numeric ("2", "1.5", "a pinch").
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Recipe represents a user recipe.
type Recipe struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions string       `json:"instructions"`
	CookTime     int          `json:"cookTime"`
	Servings     int          `json:"servings"`
}

// Validate checks the fields a recipe must carry before it is stored.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalidRecipe("name is required")
	}
	if r.CookTime < 0 {
		return invalidRecipe("cook time cannot be negative")
	}
	if r.Servings < 0 {
		return invalidRecipe("servings cannot be negative")
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return invalidRecipe(fmt.Sprintf("ingredient %d: name is required", i))
		}
	}
	return nil
}

// Matches reports whether the recipe name or description contains query,
// ignoring case. An empty query matches everything.
func (r *Recipe) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.Description), q)
}

func invalidRecipe(msg string) *DomainError {
	return NewDomainError(ErrCodeInvalidRecipe, "Recipe is invalid: "+msg)
}
