package jobs

import (
	"context"

	"github.com/lightnsw21/fantasy-v4/internal/importer"
	"github.com/lightnsw21/fantasy-v4/pkg/config"
	"github.com/lightnsw21/fantasy-v4/pkg/logger"
)

// SheetImportJob re-imports the sheet export on a schedule. Each run
// replaces the whole card collection, so a stable export keeps the
// stored set identical between runs.
type SheetImportJob struct {
	importer *importer.Importer
	config   *config.Config
	logger   *logger.Logger
}

// NewSheetImportJob creates a new sheet import job
func NewSheetImportJob(imp *importer.Importer, cfg *config.Config, log *logger.Logger) *SheetImportJob {
	return &SheetImportJob{
		importer: imp,
		config:   cfg,
		logger:   log,
	}
}

// Name returns the job name
func (j *SheetImportJob) Name() string {
	return "sheet_import"
}

// Schedule returns the configured cron schedule
func (j *SheetImportJob) Schedule() string {
	return j.config.Sheet.ImportSchedule
}

// Run executes one import
func (j *SheetImportJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled sheet import")

	count, err := j.importer.Run(ctx)
	if err != nil {
		return err
	}

	j.logger.WithField("records", count).Info("Scheduled sheet import finished")
	return nil
}
