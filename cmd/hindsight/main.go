package main

import (
	"os"

	"github.com/hindsightlab/hindsight/cmd/hindsight/commands"
)

// main is the entry point for the hindsight CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
