package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lightnsw21/fantasy-v4/internal/cards"
	"github.com/lightnsw21/fantasy-v4/internal/har"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
)

// Upload size cap for traffic archives
const maxArchiveBytes = 64 << 20

// HarHandler ingests captured browser traffic archives
type HarHandler struct {
	repo   *cards.Repository
	logger *logger.Logger
}

// NewHarHandler creates a new archive handler
func NewHarHandler(repo *cards.Repository, log *logger.Logger) *HarHandler {
	return &HarHandler{
		repo:   repo,
		logger: log,
	}
}

// ProcessArchive extracts player cards from an uploaded HAR file and
// replaces the stored player-card collection with them.
// POST /api/har (multipart, field "file")
func (h *HarHandler) ProcessArchive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxArchiveBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	entries, err := har.Parse(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse archive: "+err.Error())
		return
	}

	playerCards, err := har.PlayerCards(entries)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to extract player cards: "+err.Error())
		return
	}

	if len(playerCards) == 0 {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   "no player cards found in archive",
		})
		return
	}

	portfolioValue, err := har.PortfolioValue(entries)
	if err != nil {
		portfolioValue = 0
	}

	ids, err := h.repo.ReplacePlayerCards(ctx, playerCards)
	if err != nil {
		h.logger.WithError(err).Error("Failed to store player cards")
		respondError(w, http.StatusInternalServerError, "Failed to store player cards")
		return
	}

	stored, err := h.repo.ListPlayerCards(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list stored player cards")
		respondError(w, http.StatusInternalServerError, "Failed to list player cards")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Successfully uploaded %d cards", len(ids)),
		"data": map[string]interface{}{
			"player_cards":    stored,
			"portfolio_value": portfolioValue,
		},
	})
}

// ListPlayerCards returns the stored player-card collection
// GET /api/player-cards
func (h *HarHandler) ListPlayerCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playerCards, err := h.repo.ListPlayerCards(ctx)
	if err != nil {
		if errors.Is(err, cards.ErrStoreUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		h.logger.WithError(err).Error("Failed to list player cards")
		respondError(w, http.StatusInternalServerError, "Failed to list player cards")
		return
	}

	if playerCards == nil {
		playerCards = []cards.PlayerCard{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"count":        len(playerCards),
			"player_cards": playerCards,
		},
	})
}
