package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/lightnsw21/fantasy-v4/internal/cards"
	"github.com/lightnsw21/fantasy-v4/internal/suggest"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
	"github.com/lightnsw21/fantasy-v4/pkg/redis"
)

// SuggestHandler serves ranked investment suggestions
type SuggestHandler struct {
	engine *suggest.Engine
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewSuggestHandler creates a new suggestion handler. cache may be
// nil when Redis is disabled.
func NewSuggestHandler(engine *suggest.Engine, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *SuggestHandler {
	return &SuggestHandler{
		engine: engine,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

type suggestionsResponse struct {
	Success bool               `json:"success"`
	Count   int                `json:"count"`
	Data    []cards.Suggestion `json:"data"`
}

// GetSuggestions computes the ranked suggestion list
// GET /api/suggestions?max_price=5&min_historical_games=3&rarity=common&limit=10
func (h *SuggestHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := parseSuggestParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	params.Normalize()

	cacheKey := suggestCacheKey(params)
	if h.cache != nil {
		var cached suggestionsResponse
		if found, _ := h.cache.Get(ctx, cacheKey, &cached); found {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	suggestions, err := h.engine.Suggest(ctx, params)
	if err != nil {
		if errors.Is(err, cards.ErrStoreUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		h.logger.WithError(err).Error("Failed to compute suggestions")
		respondError(w, http.StatusInternalServerError, "Failed to compute suggestions")
		return
	}

	response := suggestionsResponse{
		Success: true,
		Count:   len(suggestions),
		Data:    suggestions,
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, cacheKey, response, h.ttl); err != nil {
			h.logger.WithError(err).Warn("Failed to cache suggestions")
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// parseSuggestParams reads the query parameters into engine params
func parseSuggestParams(r *http.Request) (suggest.Params, error) {
	var params suggest.Params
	query := r.URL.Query()

	if maxPriceStr := query.Get("max_price"); maxPriceStr != "" {
		maxPrice, err := strconv.ParseFloat(maxPriceStr, 64)
		if err != nil {
			return params, fmt.Errorf("max_price must be a number")
		}
		params.MaxPrice = &maxPrice
	}

	if gamesStr := query.Get("min_historical_games"); gamesStr != "" {
		games, err := strconv.Atoi(gamesStr)
		if err != nil || games < 0 {
			return params, fmt.Errorf("min_historical_games must be a non-negative integer")
		}
		// An explicit 0 is a valid value and disables the filter.
		params.MinHistoricalGames = &games
	}

	if rarityStr := query.Get("rarity"); rarityStr != "" {
		rarity, ok := cards.ParseRarity(rarityStr)
		if !ok {
			return params, fmt.Errorf("rarity must be one of: legendary, epic, rare, common")
		}
		params.Rarity = &rarity
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return params, fmt.Errorf("limit must be a positive integer")
		}
		params.Limit = limit
	}

	return params, nil
}

// suggestCacheKey builds a cache key covering every query knob.
// Expects normalized params.
func suggestCacheKey(params suggest.Params) string {
	maxPrice := "none"
	if params.MaxPrice != nil {
		maxPrice = strconv.FormatFloat(*params.MaxPrice, 'g', -1, 64)
	}
	minGames := 0
	if params.MinHistoricalGames != nil {
		minGames = *params.MinHistoricalGames
	}
	rarity := "any"
	if params.Rarity != nil {
		rarity = string(*params.Rarity)
	}
	return fmt.Sprintf("suggestions:%s:%d:%s:%d", maxPrice, minGames, rarity, params.Limit)
}
