package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"meal-planner/internal/model"
	"meal-planner/internal/service"

	"github.com/rs/zerolog"
)

// DataHandler handles export, import and clear requests.
type DataHandler struct {
	service service.DataService
	now     func() time.Time
	logger  zerolog.Logger
}

// NewDataHandler creates a new data handler.
func NewDataHandler(service service.DataService, logger zerolog.Logger) *DataHandler {
	return &DataHandler{
		service: service,
		now:     time.Now,
		logger:  logger.With().Str("handler", "data").Logger(),
	}
}

// Export handles GET /api/data/export requests. The document is sent as a
// file download.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	doc, err := h.service.Export(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, service.ExportFileName(h.now())))
	writeJSON(w, http.StatusOK, doc)
}

// Import handles POST /api/data/import requests.
func (h *DataHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, model.ErrCodeImportFailed, "import document is too large", h.logger)
			return
		}
		writeServiceError(w, model.ErrImportFailed, h.logger)
		return
	}

	result, err := h.service.Import(r.Context(), raw)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Clear handles DELETE /api/data requests.
func (h *DataHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w, h.logger)
		return
	}

	if err := h.service.Clear(r.Context()); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
