package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/lightnsw21/fantasy-v4/internal/cards"
	"github.com/lightnsw21/fantasy-v4/internal/importer"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
)

// ImportHandler triggers sheet imports
type ImportHandler struct {
	importer *importer.Importer
	logger   *logger.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(imp *importer.Importer, log *logger.Logger) *ImportHandler {
	return &ImportHandler{
		importer: imp,
		logger:   log,
	}
}

// ImportSheet runs one sheet import: fetch, normalize, replace.
// POST /api/import-sheet
func (h *ImportHandler) ImportSheet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.importer.Run(ctx)
	if err != nil {
		var schemaErr *cards.SchemaError
		switch {
		case errors.As(err, &schemaErr):
			respondError(w, http.StatusBadRequest, schemaErr.Error())
		case errors.Is(err, cards.ErrEmptyBatch):
			respondError(w, http.StatusBadRequest, "no records found in sheet")
		case errors.Is(err, fs.ErrNotExist):
			respondError(w, http.StatusNotFound, "sheet file not found")
		default:
			h.logger.WithError(err).Error("Sheet import failed")
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":      fmt.Sprintf("Successfully imported %d records", count),
		"record_count": count,
	})
}
