package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hindsightlab/hindsight/internal/scenario"
	"github.com/hindsightlab/hindsight/pkg/database"
	"github.com/hindsightlab/hindsight/pkg/redis"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity and dataset state",
	Long: `Checks database and redis connectivity and reports how many
scenarios are stored.

Example:
  go run ./cmd/hindsight status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Printf("Environment: %s\n\n", cfg.Env)

	// Database
	db, err := database.New(cfg)
	if err != nil {
		fmt.Printf("Database:  FAIL (%v)\n", err)
		return err
	}
	defer db.Close()

	health, err := db.HealthCheck(ctx)
	if err != nil {
		fmt.Printf("Database:  FAIL (%v)\n", err)
		return err
	}
	fmt.Printf("Database:  OK (%d/%d conns in use, ping %v)\n",
		health.Stats.AcquiredConns, health.Stats.TotalConns, health.ResponseTime)

	// Redis
	if client, err := redis.New(cfg); err != nil {
		log.WithError(err).Debug("redis check failed")
		fmt.Printf("Redis:     unavailable (%v)\n", err)
	} else if !client.Enabled() {
		fmt.Println("Redis:     disabled")
	} else {
		fmt.Println("Redis:     OK")
		_ = client.Close()
	}

	// Scenarios
	count, err := scenario.NewRepository(db.Pool).Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Scenarios: %d stored\n", count)
	if count == 0 {
		fmt.Println("\nRun: go run ./cmd/hindsight scenarios generate")
	}

	return nil
}
