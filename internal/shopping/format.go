package shopping

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"meal-planner/internal/model"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Format renders the merged quantity of a as a single display string.
func Format(a AggregatedIngredient) string {
	parts := strings.Join(a.NonNumericParts, ", ")

	switch {
	case a.NumericTotal > 0 && len(a.NonNumericParts) == 0:
		return FormatNumber(a.NumericTotal) + " " + a.Unit
	case a.NumericTotal > 0:
		return FormatNumber(a.NumericTotal) + " " + a.Unit + " + " + parts
	default:
		return parts
	}
}

// FormatNumber prints v in its shortest round-tripping decimal form:
// integral values carry no fraction ("5"), others no trailing zeros ("1.5").
// Very large and very small magnitudes switch to exponent notation.
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		// 1.5e-07 -> 1.5e-7
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ItemID derives a stable list-item id from an aggregation key.
func ItemID(key string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(key, "-"))
}

// Build produces the shopping list for the seven-day window starting at
// start from the full set of meal plans.
func Build(plans map[string]model.MealPlan, start time.Time) model.ShoppingList {
	selected := SelectWindow(plans, start)
	aggregated := Aggregate(selected)

	items := make([]model.ShoppingItem, 0, len(aggregated))
	for _, a := range aggregated {
		items = append(items, model.ShoppingItem{
			ID:     ItemID(a.Key),
			Name:   a.Key,
			Amount: Format(a),
		})
	}

	return model.ShoppingList{
		StartDate: Day(start).Format(model.DateLayout),
		EndDate:   WindowEnd(start).Format(model.DateLayout),
		Items:     items,
	}
}
