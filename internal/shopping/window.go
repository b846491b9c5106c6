// Package shopping derives a shopping list from the meal plans of one week:
// plans in the window are selected, their recipes' ingredients merged by
// name, and each merged quantity rendered for display.
package shopping

import (
	"sort"
	"time"

	"meal-planner/internal/model"
)

// WindowDays is the length of a shopping-list window.
const WindowDays = 7

// Day truncates t to its calendar date, expressed as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WindowEnd returns the last day included in the window starting at start.
func WindowEnd(start time.Time) time.Time {
	return Day(start).AddDate(0, 0, WindowDays-1)
}

// SelectWindow returns the plans whose date falls within
// [start, start+6] inclusive, ordered by date. Plans with an unparseable
// date are skipped.
func SelectWindow(plans map[string]model.MealPlan, start time.Time) []model.MealPlan {
	first := Day(start)
	last := WindowEnd(start)

	type dated struct {
		day  time.Time
		key  string
		plan model.MealPlan
	}

	selected := make([]dated, 0, len(plans))
	for key, plan := range plans {
		day, ok := model.ParseDate(plan.Date)
		if !ok {
			continue
		}
		if day.Before(first) || day.After(last) {
			continue
		}
		selected = append(selected, dated{day: day, key: key, plan: plan})
	}

	sort.Slice(selected, func(i, j int) bool {
		if !selected[i].day.Equal(selected[j].day) {
			return selected[i].day.Before(selected[j].day)
		}
		return selected[i].key < selected[j].key
	})

	out := make([]model.MealPlan, len(selected))
	for i, d := range selected {
		out[i] = d.plan
	}
	return out
}

// WeekStart returns the Sunday that starts the week containing t.
func WeekStart(t time.Time) time.Time {
	day := Day(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// WeekOptions lists eight selectable windows around now: the four weeks
// before the current one, the current week, and the three after it.
func WeekOptions(now time.Time) []model.WeekOption {
	options := make([]model.WeekOption, 0, 8)
	for i := 0; i < 8; i++ {
		start := WeekStart(now.AddDate(0, 0, (i-4)*7))
		end := WindowEnd(start)
		options = append(options, model.WeekOption{
			Value: start.Format(model.DateLayout),
			Label: start.Format("Jan 2") + " - " + end.Format("Jan 2"),
		})
	}
	return options
}
