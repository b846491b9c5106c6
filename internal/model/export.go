package model

// ExportDocument is the JSON document produced by export and accepted by
// import.
type ExportDocument struct {
	Recipes    []Recipe            `json:"recipes"`
	MealPlans  map[string]MealPlan `json:"mealPlans"`
	ExportDate string              `json:"exportDate"`
}

// ImportResult reports which collections an import replaced.
type ImportResult struct {
	RecipesImported   bool `json:"recipesImported"`
	RecipeCount       int  `json:"recipeCount"`
	MealPlansImported bool `json:"mealPlansImported"`
	MealPlanCount     int  `json:"mealPlanCount"`
}

// MealAssignment is the request body for scheduling recipes on a date: slot
// label to recipe id. An empty id leaves the slot empty.
type MealAssignment struct {
	Meals map[string]string `json:"meals"`
}

// ShoppingItem is one line of a generated shopping list.
type ShoppingItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// ShoppingList is the shopping list for one seven-day window.
type ShoppingList struct {
	StartDate string         `json:"startDate"`
	EndDate   string         `json:"endDate"`
	Items     []ShoppingItem `json:"items"`
}

// WeekOption is a selectable shopping-list window.
type WeekOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
