package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lightnsw21/fantasy-v4/internal/cards"
	"github.com/lightnsw21/fantasy-v4/internal/suggest"
)

// suggestCmd represents the suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print ranked investment suggestions",
	Long: `Computes the investment-suggestion ranking over the stored
card collection and prints the top results.

Example:
  go run ./cmd/fantasy suggest
  go run ./cmd/fantasy suggest --max-price 5 --rarity common --limit 20`,
	RunE: runSuggest,
}

var (
	suggestMaxPrice float64
	suggestMinGames int
	suggestRarity   string
	suggestLimit    int
)

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().Float64Var(&suggestMaxPrice, "max-price", 0, "maximum floor price (0 = no filter)")
	suggestCmd.Flags().IntVar(&suggestMinGames, "min-games", 3, "minimum historical games")
	suggestCmd.Flags().StringVar(&suggestRarity, "rarity", "", "rarity tier (legendary|epic|rare|common)")
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 10, "number of suggestions")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if suggestMinGames < 0 {
		return fmt.Errorf("min-games must be non-negative")
	}

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	params := suggest.Params{
		MinHistoricalGames: &suggestMinGames,
		Limit:              suggestLimit,
	}
	if suggestMaxPrice > 0 {
		params.MaxPrice = &suggestMaxPrice
	}
	if suggestRarity != "" {
		rarity, ok := cards.ParseRarity(suggestRarity)
		if !ok {
			return fmt.Errorf("unknown rarity %q", suggestRarity)
		}
		params.Rarity = &rarity
	}

	engine := suggest.NewEngine(rt.repo, rt.log)
	suggestions, err := engine.Suggest(ctx, params)
	if err != nil {
		return fmt.Errorf("compute suggestions: %w", err)
	}

	if len(suggestions) == 0 {
		fmt.Println("No suggestions (is the card collection imported?)")
		return nil
	}

	fmt.Printf("%-4s %-24s %10s %10s %10s %10s %6s\n",
		"#", "NAME", "FLOOR", "EFFICIENCY", "AVG", "SCORE", "GAMES")
	for i, s := range suggestions {
		fmt.Printf("%-4d %-24s %10.2f %10.3f %10.2f %10.3f %6d\n",
			i+1, s.Name, s.FloorPrice, s.ScoreEfficiency, s.HistoricalAverage, s.InvestmentScore, s.HistoricalGames)
	}

	return nil
}
