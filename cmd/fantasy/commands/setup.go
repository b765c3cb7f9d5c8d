package commands

import (
	"context"
	"fmt"

	"github.com/lightnsw21/fantasy-v4/internal/cards"
	"github.com/lightnsw21/fantasy-v4/pkg/config"
	"github.com/lightnsw21/fantasy-v4/pkg/database"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
)

// runtime bundles the pieces every command needs
type runtime struct {
	cfg  *config.Config
	log  *logger.Logger
	db   *database.DB
	repo *cards.Repository
}

// setup loads config, connects to the database and prepares the card
// repository. The caller owns teardown via close.
func setup(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
		cfg.LogFormat = "console"
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	repo := cards.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &runtime{
		cfg:  cfg,
		log:  log,
		db:   db,
		repo: repo,
	}, nil
}

// close releases runtime resources
func (rt *runtime) close() {
	rt.db.Close()
}
