package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/lightnsw21/fantasy-v4/internal/api/handlers"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cardHandler *handlers.CardHandler,
	importHandler *handlers.ImportHandler,
	harHandler *handlers.HarHandler,
	suggestHandler *handlers.SuggestHandler,
	healthHandler *handlers.HealthHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Card endpoints
	api.HandleFunc("/cards", cardHandler.List).Methods("GET")
	api.HandleFunc("/cards/by-name/{name}", cardHandler.GetByName).Methods("GET")
	api.HandleFunc("/cards/{hero_id}", cardHandler.GetByHeroID).Methods("GET")

	// Import endpoints
	api.HandleFunc("/import-sheet", importHandler.ImportSheet).Methods("POST")

	// Traffic archive endpoints
	api.HandleFunc("/har", harHandler.ProcessArchive).Methods("POST")
	api.HandleFunc("/player-cards", harHandler.ListPlayerCards).Methods("GET")

	// Suggestion endpoint
	api.HandleFunc("/suggestions", suggestHandler.GetSuggestions).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
