package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lightnsw21/fantasy-v4/internal/external/sheets"
	"github.com/lightnsw21/fantasy-v4/internal/importer"
	"github.com/lightnsw21/fantasy-v4/internal/scheduler"
	"github.com/lightnsw21/fantasy-v4/internal/scheduler/jobs"
	"github.com/lightnsw21/fantasy-v4/internal/sheet"
	"github.com/lightnsw21/fantasy-v4/pkg/httputil"
	"github.com/lightnsw21/fantasy-v4/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the periodic sheet re-import scheduler",
	Long: `Starts the job scheduler. The sheet export is re-imported on
the configured cron schedule (SHEET_IMPORT_SCHEDULE).

Example:
  go run ./cmd/fantasy scheduler
  go run ./cmd/fantasy scheduler --run-now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "run the import job immediately on startup")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

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

	sched := scheduler.New(rt.log)
	importJob := jobs.NewSheetImportJob(imp, rt.cfg, rt.log)
	if err := sched.AddJob(importJob); err != nil {
		return fmt.Errorf("add import job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow {
		if err := sched.RunJob(importJob.Name()); err != nil {
			return err
		}
	}

	fmt.Printf("Scheduler running (import schedule: %s)\n", rt.cfg.Sheet.ImportSchedule)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if results, err := sched.LatestResults(importJob.Name(), 5); err == nil && len(results) > 0 {
		fmt.Println("Recent import runs:")
		for _, result := range results {
			status := "ok"
			if !result.Success {
				status = "failed: " + result.Error
			}
			fmt.Printf("  %s  %-10s %s\n",
				result.StartTime.Format(time.RFC3339), result.Duration.Round(time.Millisecond), status)
		}
	}

	return nil
}
