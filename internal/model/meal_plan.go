package model

import (
	"sort"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used as the meal-plan key.
const DateLayout = "2006-01-02"

// Meal slots offered to users. Storage accepts any slot label.
const (
	SlotBreakfast = "breakfast"
	SlotLunch     = "lunch"
	SlotDinner    = "dinner"
	SlotSnack     = "snack"
)

// MealSlots lists the canonical slots in display order.
var MealSlots = []string{SlotBreakfast, SlotLunch, SlotDinner, SlotSnack}

// MealPlan is the set of meals planned for one calendar date. Each slot holds
// a full copy of the recipe taken when the plan was saved, so later edits or
// deletions of the recipe do not reach existing plans.
type MealPlan struct {
	Date  string            `json:"date"`
	Meals map[string]Recipe `json:"meals"`
}

// SlotOrder returns the plan's slot labels with canonical slots first, in
// display order, followed by any other labels sorted lexically.
func (p *MealPlan) SlotOrder() []string {
	slots := make([]string, 0, len(p.Meals))
	for _, s := range MealSlots {
		if _, ok := p.Meals[s]; ok {
			slots = append(slots, s)
		}
	}

	var extra []string
	for s := range p.Meals {
		if !isCanonicalSlot(s) {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)

	return append(slots, extra...)
}

func isCanonicalSlot(slot string) bool {
	for _, s := range MealSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// ParseDate parses a stored meal-plan date into a UTC calendar day. Full
// RFC 3339 timestamps are accepted and truncated to their date part.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// ValidateDate checks that date is a strict YYYY-MM-DD calendar date.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
