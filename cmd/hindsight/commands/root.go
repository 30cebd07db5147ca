package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hindsightlab/hindsight/pkg/config"
	"github.com/hindsightlab/hindsight/pkg/database"
	"github.com/hindsightlab/hindsight/pkg/logger"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hindsight",
	Short: "Hindsight - macro forecasting game backend",
	Long: `Hindsight CLI

Backend tooling for the macro forecasting game: normalize raw monthly
market data, generate playable scenarios, and score game sessions.

Usage:
  go run ./cmd/hindsight [command]

Examples:
  go run ./cmd/hindsight normalize
  go run ./cmd/hindsight scenarios generate --clear
  go run ./cmd/hindsight game start --scenario 1
  go run ./cmd/hindsight status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// setup loads configuration and builds the logger every command starts
// from.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg), nil
}

// connectDB opens the database pool and verifies connectivity.
func connectDB(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.DB, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Debug("database connected")
	return db, nil
}
