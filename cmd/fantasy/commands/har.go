package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lightnsw21/fantasy-v4/internal/har"
)

// harCmd represents the har command
var harCmd = &cobra.Command{
	Use:   "har [file]",
	Short: "Process a captured traffic archive",
	Long: `Extracts player cards from a HAR capture and replaces the
stored player-card collection with them.

Example:
  go run ./cmd/fantasy har capture.har`,
	Args: cobra.ExactArgs(1),
	RunE: runHar,
}

func init() {
	rootCmd.AddCommand(harCmd)
}

func runHar(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	entries, err := har.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parse archive: %w", err)
	}

	playerCards, err := har.PlayerCards(entries)
	if err != nil {
		return fmt.Errorf("extract player cards: %w", err)
	}
	if len(playerCards) == 0 {
		return fmt.Errorf("no player cards found in archive")
	}

	portfolioValue, err := har.PortfolioValue(entries)
	if err != nil {
		return fmt.Errorf("compute portfolio value: %w", err)
	}

	ids, err := rt.repo.ReplacePlayerCards(ctx, playerCards)
	if err != nil {
		return fmt.Errorf("store player cards: %w", err)
	}

	fmt.Printf("Stored %d player cards\n", len(ids))
	fmt.Printf("Portfolio value: %.4f\n", portfolioValue)
	return nil
}
