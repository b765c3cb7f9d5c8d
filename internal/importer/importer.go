package importer

import (
	"context"
	"fmt"

	"github.com/lightnsw21/fantasy-v4/internal/cards"
	"github.com/lightnsw21/fantasy-v4/internal/external/sheets"
	"github.com/lightnsw21/fantasy-v4/internal/sheet"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
	"github.com/lightnsw21/fantasy-v4/pkg/redis"
)

// Importer runs one sheet import end to end: fetch the export,
// normalize it, replace the stored collection and invalidate derived
// caches. Importing the same export twice yields the same card set.
type Importer struct {
	client     *sheets.Client
	normalizer *sheet.Normalizer
	repo       *cards.Repository
	cache      *redis.Cache
	logger     *logger.Logger
}

// New creates a new importer. cache may be nil.
func New(client *sheets.Client, normalizer *sheet.Normalizer, repo *cards.Repository, cache *redis.Cache, log *logger.Logger) *Importer {
	return &Importer{
		client:     client,
		normalizer: normalizer,
		repo:       repo,
		cache:      cache,
		logger:     log,
	}
}

// Run imports the current sheet export and returns the number of
// cards stored.
func (i *Importer) Run(ctx context.Context) (int, error) {
	grid, err := i.client.FetchGrid(ctx)
	if err != nil {
		return 0, fmt.Errorf("load sheet: %w", err)
	}

	records, err := i.normalizer.Normalize(grid)
	if err != nil {
		return 0, err
	}

	ids, err := i.repo.ReplaceAll(ctx, records)
	if err != nil {
		return 0, err
	}

	if i.cache != nil {
		if err := i.cache.DeletePrefix(ctx); err != nil {
			i.logger.WithError(err).Warn("Failed to invalidate suggestion cache")
		}
	}

	i.logger.WithField("records", len(ids)).Info("Sheet import completed")
	return len(ids), nil
}
