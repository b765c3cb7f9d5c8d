package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lightnsw21/fantasy-v4/internal/api"
	"github.com/lightnsw21/fantasy-v4/internal/api/handlers"
	"github.com/lightnsw21/fantasy-v4/internal/external/sheets"
	"github.com/lightnsw21/fantasy-v4/internal/importer"
	"github.com/lightnsw21/fantasy-v4/internal/sheet"
	"github.com/lightnsw21/fantasy-v4/internal/suggest"
	"github.com/lightnsw21/fantasy-v4/pkg/httputil"
	"github.com/lightnsw21/fantasy-v4/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                 - Health check
  GET  /api/cards              - List stored cards
  GET  /api/cards/{hero_id}    - Get one card by hero id
  GET  /api/cards/by-name/{n}  - Get one card by name
  POST /api/import-sheet       - Import the sheet export
  POST /api/har                - Process an uploaded traffic archive
  GET  /api/player-cards       - List archive-derived player cards
  GET  /api/suggestions        - Ranked investment suggestions

Example:
  go run ./cmd/fantasy api
  go run ./cmd/fantasy api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	rt.log.WithFields(map[string]interface{}{
		"port": rt.cfg.Port,
		"env":  rt.cfg.Env,
	}).Info("Initializing API server")

	// Redis is optional: off means no caching, everything else works.
	redisClient, err := redis.New(rt.cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewCache(redisClient, "fantasy")

	httpClient := httputil.New(rt.log)
	sheetClient := sheets.NewClient(httpClient, rt.cfg.Sheet, rt.log)
	normalizer := sheet.NewNormalizer(rt.log)
	imp := importer.New(sheetClient, normalizer, rt.repo, cache, rt.log)

	engine := suggest.NewEngine(rt.repo, rt.log)

	cardHandler := handlers.NewCardHandler(rt.repo, rt.log)
	importHandler := handlers.NewImportHandler(imp, rt.log)
	harHandler := handlers.NewHarHandler(rt.repo, rt.log)
	suggestHandler := handlers.NewSuggestHandler(engine, cache, rt.cfg.Redis.CacheTTL, rt.log)
	healthHandler := handlers.NewHealthHandler(rt.db, rt.repo, rt.log)

	router := api.NewRouter(cardHandler, importHandler, harHandler, suggestHandler, healthHandler, rt.log)
	server := api.New(rt.cfg, rt.log, router)

	go func() {
		if err := server.Start(); err != nil {
			rt.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	rt.log.Info("API server started")
	fmt.Printf("Server running on http://localhost:%s\n", rt.cfg.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	rt.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	rt.log.Info("Server stopped")
	return nil
}
