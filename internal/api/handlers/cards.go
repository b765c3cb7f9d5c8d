package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lightnsw21/fantasy-v4/internal/cards"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
)

// CardStore is the read side of the card repository the lookup
// endpoints need.
type CardStore interface {
	ScanAll(ctx context.Context, skip, limit int) ([]cards.Card, error)
	FindByHeroID(ctx context.Context, heroID string) (*cards.Card, error)
	FindByName(ctx context.Context, name string) (*cards.Card, error)
}

// CardHandler handles card lookup API endpoints
type CardHandler struct {
	store  CardStore
	logger *logger.Logger
}

// NewCardHandler creates a new card handler
func NewCardHandler(store CardStore, log *logger.Logger) *CardHandler {
	return &CardHandler{
		store:  store,
		logger: log,
	}
}

// List returns a page of the card collection
// GET /api/cards?skip=0&limit=1000
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	skip := 0
	if skipStr := r.URL.Query().Get("skip"); skipStr != "" {
		if s, err := strconv.Atoi(skipStr); err == nil && s >= 0 {
			skip = s
		}
	}

	limit := 1000
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	result, err := h.store.ScanAll(ctx, skip, limit)
	if err != nil {
		if errors.Is(err, cards.ErrStoreUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"skip":  skip,
			"limit": limit,
		}).Error("Failed to scan cards")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve cards")
		return
	}

	if result == nil {
		result = []cards.Card{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"count": len(result),
			"cards": result,
		},
	})
}

// GetByHeroID returns the card with the given hero_id
// GET /api/cards/{hero_id}
func (h *CardHandler) GetByHeroID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	heroID := mux.Vars(r)["hero_id"]

	if heroID == "" {
		respondError(w, http.StatusBadRequest, "hero_id is required")
		return
	}

	card, err := h.store.FindByHeroID(ctx, heroID)
	if err != nil {
		if errors.Is(err, cards.ErrNotFound) {
			respondError(w, http.StatusNotFound, "card with hero_id "+heroID+" not found")
			return
		}
		if errors.Is(err, cards.ErrStoreUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		h.logger.WithError(err).WithField("hero_id", heroID).Error("Failed to find card")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve card")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    card,
	})
}

// GetByName returns the card with the given name
// GET /api/cards/by-name/{name}
func (h *CardHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := mux.Vars(r)["name"]

	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	card, err := h.store.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, cards.ErrNotFound) {
			respondError(w, http.StatusNotFound, "card named "+name+" not found")
			return
		}
		if errors.Is(err, cards.ErrStoreUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		h.logger.WithError(err).WithField("name", name).Error("Failed to find card")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve card")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    card,
	})
}
