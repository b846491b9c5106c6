package handler

import (
	"net/http"
	"time"

	"meal-planner/internal/model"
	"meal-planner/internal/service"
	"meal-planner/internal/shopping"

	"github.com/rs/zerolog"
)

// ShoppingHandler handles shopping list HTTP requests.
type ShoppingHandler struct {
	service service.ShoppingService
	now     func() time.Time
	logger  zerolog.Logger
}

// NewShoppingHandler creates a new shopping list handler.
func NewShoppingHandler(service service.ShoppingService, logger zerolog.Logger) *ShoppingHandler {
	return &ShoppingHandler{
		service: service,
		now:     time.Now,
		logger:  logger.With().Str("handler", "shopping").Logger(),
	}
}

// List handles GET /api/shopping-list requests. The window starts at
// ?start=YYYY-MM-DD, or at the Sunday of the current week when omitted.
func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	start := shopping.WeekStart(h.now())
	if value := r.URL.Query().Get("start"); value != "" {
		parsed, err := time.Parse(model.DateLayout, value)
		if err != nil {
			writeServiceError(w, model.ErrInvalidDate, h.logger)
			return
		}
		start = parsed
	}

	list, err := h.service.Generate(r.Context(), start)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Weeks handles GET /api/shopping-list/weeks requests.
func (h *ShoppingHandler) Weeks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.service.Weeks(h.now()))
}
