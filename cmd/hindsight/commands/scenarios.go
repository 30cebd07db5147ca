package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hindsightlab/hindsight/internal/marketdata"
	"github.com/hindsightlab/hindsight/internal/normalize"
	"github.com/hindsightlab/hindsight/internal/scenario"
)

// scenariosCmd represents the scenarios command
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Manage game scenarios",
	Long: `Generate, list, or clear the pre-computed game scenarios.

Subcommands:
  generate - normalize the raw data and build scenarios for the curated anchors
  list     - show stored scenarios
  clear    - delete all scenarios (and their game sessions)

Example:
  go run ./cmd/hindsight scenarios generate --clear
  go run ./cmd/hindsight scenarios list`,
}

var (
	scenariosGenerateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Build scenarios from the raw dataset",
		RunE:  runScenariosGenerate,
	}

	scenariosListCmd = &cobra.Command{
		Use:   "list",
		Short: "List stored scenarios",
		RunE:  runScenariosList,
	}

	scenariosClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Delete all scenarios",
		RunE:  runScenariosClear,
	}
)

var scenariosClearFirst bool

func init() {
	rootCmd.AddCommand(scenariosCmd)
	scenariosCmd.AddCommand(scenariosGenerateCmd)
	scenariosCmd.AddCommand(scenariosListCmd)
	scenariosCmd.AddCommand(scenariosClearCmd)

	scenariosGenerateCmd.Flags().BoolVar(&scenariosClearFirst, "clear", true, "clear existing scenarios first")
}

func runScenariosGenerate(cmd *cobra.Command, args []string) error {
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

	raw, err := marketdata.LoadRawCSV(cfg.Pipeline.RawDataPath)
	if err != nil {
		return err
	}

	table, err := normalize.New(cfg.Pipeline, log).Normalize(raw)
	if err != nil {
		return err
	}

	builder := scenario.NewBuilder(cfg, scenario.NewRepository(db.Pool), log)
	stored, err := builder.Generate(ctx, table, scenario.DefaultAnchors(), scenariosClearFirst)
	if err != nil {
		return err
	}

	fmt.Printf("Stored %d scenarios\n", stored)
	return nil
}

func runScenariosList(cmd *cobra.Command, args []string) error {
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

	scenarios, err := scenario.NewRepository(db.Pool).List(ctx)
	if err != nil {
		return err
	}

	if len(scenarios) == 0 {
		fmt.Println("No scenarios stored. Run: scenarios generate")
		return nil
	}

	fmt.Printf("%-4s %-14s %-12s %-38s %10s %10s\n",
		"ID", "Label", "Anchor", "Context", "Stocks", "Benchmark")
	for _, s := range scenarios {
		fmt.Printf("%-4d %-14s %-12s %-38s %9.1f%% %9.1f%%\n",
			s.ID,
			s.DisplayLabel,
			s.AnchorDate.Format("2006-01-02"),
			s.HistoricalContext,
			s.ForwardReturns.Stocks*100,
			s.BenchmarkReturn*100)
	}
	fmt.Printf("\n%d scenarios\n", len(scenarios))

	return nil
}

func runScenariosClear(cmd *cobra.Command, args []string) error {
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

	if err := scenario.NewRepository(db.Pool).ClearAll(ctx); err != nil {
		return err
	}

	fmt.Println("All scenarios cleared")
	return nil
}
