package handler

import (
	"net/http"

	"meal-planner/internal/model"
	"meal-planner/internal/service"

	"github.com/rs/zerolog"
)

const recipesPath = "/api/recipes/"

// RecipeHandler handles recipe-related HTTP requests.
type RecipeHandler struct {
	service service.RecipeService
	logger  zerolog.Logger
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(service service.RecipeService, logger zerolog.Logger) *RecipeHandler {
	return &RecipeHandler{
		service: service,
		logger:  logger.With().Str("handler", "recipe").Logger(),
	}
}

// List handles GET /api/recipes requests with an optional ?q= filter.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	recipes, err := h.service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, recipes)
}

// Create handles POST /api/recipes requests.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	var recipe model.Recipe
	if err := decodeJSON(w, r, &recipe); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	created, err := h.service.Create(r.Context(), &recipe)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetByID handles GET /api/recipes/{id} requests.
func (h *RecipeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	id := pathParam(r, recipesPath)
	if id == "" {
		writeServiceError(w, model.ErrRecipeNotFound, h.logger)
		return
	}

	recipe, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// Update handles PUT /api/recipes/{id} requests.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	id := pathParam(r, recipesPath)
	if id == "" {
		writeServiceError(w, model.ErrRecipeNotFound, h.logger)
		return
	}

	var recipe model.Recipe
	if err := decodeJSON(w, r, &recipe); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	updated, err := h.service.Update(r.Context(), id, &recipe)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/recipes/{id} requests.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	id := pathParam(r, recipesPath)
	if id == "" {
		writeServiceError(w, model.ErrRecipeNotFound, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
