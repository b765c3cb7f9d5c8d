package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fantasy",
	Short: "Fantasy card ingestion and investment-suggestion service",
	Long: `Fantasy-v4 unified CLI

Ingests fantasy-sports player data from sheet exports and captured
browser traffic, stores canonical card records, and serves ranked
investment suggestions.

Usage:
  go run ./cmd/fantasy [command]

Examples:
  go run ./cmd/fantasy api
  go run ./cmd/fantasy import
  go run ./cmd/fantasy har capture.har
  go run ./cmd/fantasy suggest --max-price 5
  go run ./cmd/fantasy scheduler`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
