package handler

import (
	"net/http"

	"meal-planner/internal/model"
	"meal-planner/internal/service"

	"github.com/rs/zerolog"
)

const mealPlansPath = "/api/meal-plans/"

// MealPlanHandler handles meal plan HTTP requests.
type MealPlanHandler struct {
	service service.MealPlanService
	logger  zerolog.Logger
}

// NewMealPlanHandler creates a new meal plan handler.
func NewMealPlanHandler(service service.MealPlanService, logger zerolog.Logger) *MealPlanHandler {
	return &MealPlanHandler{
		service: service,
		logger:  logger.With().Str("handler", "meal_plan").Logger(),
	}
}

// List handles GET /api/meal-plans requests.
func (h *MealPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	plans, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, plans)
}

// GetByDate handles GET /api/meal-plans/{date} requests.
func (h *MealPlanHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	plan, err := h.service.GetByDate(r.Context(), pathParam(r, mealPlansPath))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// Assign handles PUT /api/meal-plans/{date} requests. The body maps slots
// to recipe IDs and replaces the whole plan for the date.
func (h *MealPlanHandler) Assign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	var req model.MealAssignment
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	plan, err := h.service.AssignMeals(r.Context(), pathParam(r, mealPlansPath), req.Meals)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// Delete handles DELETE /api/meal-plans/{date} requests.
func (h *MealPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), pathParam(r, mealPlansPath)); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
