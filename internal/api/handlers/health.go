package handlers

import (
	"context"
	"net/http"

	"github.com/lightnsw21/fantasy-v4/pkg/database"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
)

// HealthChecker reports database connectivity
type HealthChecker interface {
	HealthCheck(ctx context.Context) (*database.HealthStatus, error)
}

// CardCounter reports the stored card count
type CardCounter interface {
	Count(ctx context.Context) (int, error)
}

// HealthHandler serves the service health endpoint
type HealthHandler struct {
	db     HealthChecker
	store  CardCounter
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db HealthChecker, store CardCounter, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		store:  store,
		logger: log,
	}
}

// Health reports service status, database health and the stored card
// count.
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbStatus, err := h.db.HealthCheck(ctx)
	if err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "unavailable",
			"service":  "fantasy-v4-api",
			"database": dbStatus,
		})
		return
	}

	response := map[string]interface{}{
		"status":   "ok",
		"service":  "fantasy-v4-api",
		"database": dbStatus,
	}

	if count, err := h.store.Count(ctx); err == nil {
		response["cards"] = count
	} else {
		h.logger.WithError(err).Warn("Failed to count cards for health check")
	}

	respondJSON(w, http.StatusOK, response)
}
