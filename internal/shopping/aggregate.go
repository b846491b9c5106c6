package shopping

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"meal-planner/internal/model"
)

// AggregatedIngredient is the merged quantity of one ingredient across all
// selected meals.
type AggregatedIngredient struct {
	Key             string   `json:"key"`
	NumericTotal    float64  `json:"numericTotal"`
	Unit            string   `json:"unit"`
	NonNumericParts []string `json:"nonNumericParts"`
}

// Aggregate merges the ingredients of every meal in plans by lowercased
// name. Quantities are summed only when the amount parses and the unit
// matches the unit first seen for that name; anything else is kept
// verbatim as "<amount> <unit>". Entries are returned in first-seen order.
func Aggregate(plans []model.MealPlan) []AggregatedIngredient {
	var entries []AggregatedIngredient
	index := make(map[string]int)

	for _, plan := range plans {
		for _, slot := range plan.SlotOrder() {
			recipe := plan.Meals[slot]
			for _, ing := range recipe.Ingredients {
				key := strings.ToLower(ing.Name)
				amount, numeric := ParseAmount(ing.Amount)
				literal := ing.Amount + " " + ing.Unit

				i, seen := index[key]
				if !seen {
					entry := AggregatedIngredient{
						Key:             key,
						Unit:            ing.Unit,
						NonNumericParts: []string{},
					}
					if numeric {
						entry.NumericTotal = amount
					} else {
						entry.NonNumericParts = append(entry.NonNumericParts, literal)
					}
					index[key] = len(entries)
					entries = append(entries, entry)
					continue
				}

				if entries[i].Unit == ing.Unit && numeric {
					entries[i].NumericTotal += amount
				} else {
					entries[i].NonNumericParts = append(entries[i].NonNumericParts, literal)
				}
			}
		}
	}

	return entries
}

// ParseAmount reads the leading decimal number of s, ignoring leading
// whitespace and any trailing text: "2 cups" is 2, "1/2" is 1. It reports
// false when s does not start with a number.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, isLeadingSpace)

	if v, ok := parseInfinity(s); ok {
		return v, true
	}

	end := numericPrefix(s)
	if end == 0 {
		return 0, false
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v, true
		}
		return 0, false
	}
	return v, true
}

// isLeadingSpace matches the whitespace and line terminators skipped before a
// number: Unicode spaces and the byte order mark, but not NEL.
func isLeadingSpace(r rune) bool {
	return r == '\ufeff' || (r != '\u0085' && unicode.IsSpace(r))
}

func parseInfinity(s string) (float64, bool) {
	sign := 1.0
	rest := s
	if strings.HasPrefix(rest, "+") {
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "-") {
		sign = -1
		rest = rest[1:]
	}
	if strings.HasPrefix(rest, "Infinity") {
		return math.Inf(int(sign)), true
	}
	return 0, false
}

// numericPrefix returns the length of the longest prefix of s that is a
// decimal literal: optional sign, digits with an optional fraction, and an
// optional exponent. It returns 0 when no digit is present in the mantissa.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}

	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
