package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lightnsw21/fantasy-v4/internal/external/sheets"
	"github.com/lightnsw21/fantasy-v4/internal/importer"
	"github.com/lightnsw21/fantasy-v4/internal/sheet"
	"github.com/lightnsw21/fantasy-v4/pkg/httputil"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the sheet export into the card collection",
	Long: `Runs one sheet import: loads the configured export (local CSV
path or published URL), normalizes it, and replaces the whole stored
card collection.

Example:
  go run ./cmd/fantasy import
  go run ./cmd/fantasy import --path exports/FantasySheets.csv`,
	RunE: runImport,
}

var importPath string

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importPath, "path", "", "local CSV path (overrides SHEET_PATH)")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	if importPath != "" {
		rt.cfg.Sheet.Path = importPath
		rt.cfg.Sheet.ExportURL = ""
	}

	httpClient := httputil.New(rt.log)
	sheetClient := sheets.NewClient(httpClient, rt.cfg.Sheet, rt.log)
	normalizer := sheet.NewNormalizer(rt.log)
	imp := importer.New(sheetClient, normalizer, rt.repo, nil, rt.log)

	count, err := imp.Run(ctx)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d records\n", count)
	return nil
}
