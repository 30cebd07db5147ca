package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hindsightlab/hindsight/internal/scenario"
	"github.com/hindsightlab/hindsight/internal/scheduler"
	"github.com/hindsightlab/hindsight/internal/scheduler/jobs"
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Dataset refresh job",
	Long: `Runs the dataset refresh: re-normalize the raw data and regenerate
every scenario.

Subcommands:
  run   - run one refresh now and exit
  start - start the cron daemon (schedule from REFRESH_CRON)

Example:
  go run ./cmd/hindsight refresh run
  go run ./cmd/hindsight refresh start`,
}

var (
	refreshRunCmd = &cobra.Command{
		Use:   "run",
		Short: "Run one refresh now",
		RunE:  runRefreshOnce,
	}

	refreshStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the refresh daemon",
		RunE:  runRefreshDaemon,
	}
)

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.AddCommand(refreshRunCmd)
	refreshCmd.AddCommand(refreshStartCmd)
}

func runRefreshOnce(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := connectDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	job := jobs.NewRefreshJob(cfg, scenario.NewRepository(db.Pool), log)
	if err := job.Run(ctx); err != nil {
		return err
	}

	fmt.Println("Refresh finished")
	return nil
}

func runRefreshDaemon(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := connectDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	sched := scheduler.New(log)
	job := jobs.NewRefreshJob(cfg, scenario.NewRepository(db.Pool), log)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	fmt.Printf("Refresh daemon running (schedule %q). Ctrl+C to stop.\n", job.Schedule())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	sched.Stop()
	return nil
}
