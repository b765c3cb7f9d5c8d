package main

import (
	"os"

	"github.com/lightnsw21/fantasy-v4/cmd/fantasy/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
