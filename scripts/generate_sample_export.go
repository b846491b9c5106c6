package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"meal-planner/internal/model"
)

// generateSampleExport writes an export document with a week of meals, both
// plain and gzip-compressed, into the local backup directory. Restore it with
// "mealctl restore sample-export.json" or POST it to /api/data/import.
//
// The week starting Sunday 2024-01-14 exercises the shopping list edge cases:
// "Eggs" and "eggs" merge, "Flour" in g and cups stays split, and "a pinch"
// of salt is kept verbatim.
func main() {
	dataDir := "data/backups"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	pancakes := model.Recipe{
		ID:          "sample-pancakes",
		Name:        "Pancakes",
		Description: "Fluffy breakfast pancakes",
		Ingredients: []model.Ingredient{
			{Name: "Flour", Amount: "200", Unit: "g"},
			{Name: "Eggs", Amount: "2", Unit: ""},
			{Name: "Milk", Amount: "300", Unit: "ml"},
		},
		Instructions: "Whisk, rest for ten minutes, fry.",
		CookTime:     20,
		Servings:     4,
	}
	omelette := model.Recipe{
		ID:   "sample-omelette",
		Name: "Omelette",
		Ingredients: []model.Ingredient{
			{Name: "eggs", Amount: "3", Unit: ""},
			{Name: "Salt", Amount: "a pinch", Unit: ""},
		},
		CookTime: 10,
		Servings: 1,
	}
	bread := model.Recipe{
		ID:   "sample-bread",
		Name: "Soda Bread",
		Ingredients: []model.Ingredient{
			{Name: "Flour", Amount: "2", Unit: "cups"},
			{Name: "Buttermilk", Amount: "400", Unit: "ml"},
		},
		CookTime: 45,
		Servings: 8,
	}

	doc := model.ExportDocument{
		Recipes: []model.Recipe{pancakes, omelette, bread},
		MealPlans: map[string]model.MealPlan{
			"2024-01-14": {Date: "2024-01-14", Meals: map[string]model.Recipe{
				model.SlotBreakfast: pancakes,
				model.SlotDinner:    bread,
			}},
			"2024-01-16": {Date: "2024-01-16", Meals: map[string]model.Recipe{
				model.SlotBreakfast: omelette,
			}},
			"2024-01-22": {Date: "2024-01-22", Meals: map[string]model.Recipe{
				model.SlotLunch: omelette,
			}},
		},
		ExportDate: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode export: %v", err)
	}

	plain := filepath.Join(dataDir, "sample-export.json")
	if err := os.WriteFile(plain, data, 0644); err != nil {
		log.Fatalf("Failed to create %s: %v", plain, err)
	}
	fmt.Printf("Created %s with %d recipes and %d meal plans\n", plain, len(doc.Recipes), len(doc.MealPlans))

	compressed := plain + ".gz"
	if err := createGzipFile(compressed, data); err != nil {
		log.Fatalf("Failed to create %s: %v", compressed, err)
	}
	fmt.Printf("Created %s\n", compressed)

	fmt.Println("\nShopping list for the week of 2024-01-14:")
	fmt.Println("  - flour:      200 g + 2 cups")
	fmt.Println("  - eggs:       5")
	fmt.Println("  - milk:       300 ml")
	fmt.Println("  - buttermilk: 400 ml")
	fmt.Println("  - salt:       a pinch")
}

func createGzipFile(filePath string, data []byte) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	if _, err := gzipWriter.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return gzipWriter.Close()
}
