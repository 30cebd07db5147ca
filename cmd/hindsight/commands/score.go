package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hindsightlab/hindsight/internal/scenario"
	"github.com/hindsightlab/hindsight/internal/scoring"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a hypothetical play against a stored scenario",
	Long: `Computes the full score bundle for a prediction set and allocation
against a stored scenario, without creating a game session. Useful for
checking what a given play would have scored.

Example:
  go run ./cmd/hindsight score --scenario 1 --p15 0.2 --p10 0.4 --p5 0.7 --p0 0.9 --stocks 60 --bonds 40`,
	RunE: runScore,
}

var (
	scoreScenarioID int64
	scoreP15        float64
	scoreP10        float64
	scoreP5         float64
	scoreP0         float64
	scoreStocks     int
	scoreBonds      int
	scoreCash       int
	scoreGold       int
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().Int64Var(&scoreScenarioID, "scenario", 0, "scenario id")
	scoreCmd.Flags().Float64Var(&scoreP15, "p15", 0.5, "P(stock return > 15%)")
	scoreCmd.Flags().Float64Var(&scoreP10, "p10", 0.5, "P(stock return > 10%)")
	scoreCmd.Flags().Float64Var(&scoreP5, "p5", 0.5, "P(stock return > 5%)")
	scoreCmd.Flags().Float64Var(&scoreP0, "p0", 0.5, "P(stock return > 0%)")
	scoreCmd.Flags().IntVar(&scoreStocks, "stocks", 0, "stock allocation %")
	scoreCmd.Flags().IntVar(&scoreBonds, "bonds", 0, "bond allocation %")
	scoreCmd.Flags().IntVar(&scoreCash, "cash", 0, "cash allocation %")
	scoreCmd.Flags().IntVar(&scoreGold, "gold", 0, "gold allocation %")
	_ = scoreCmd.MarkFlagRequired("scenario")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	preds := scoring.PredictionSet{
		Above15Pct: scoreP15,
		Above10Pct: scoreP10,
		Above5Pct:  scoreP5,
		Above0Pct:  scoreP0,
	}
	alloc := scoring.Allocation{
		Stocks: scoreStocks,
		Bonds:  scoreBonds,
		Cash:   scoreCash,
		Gold:   scoreGold,
	}
	if err := preds.Validate(); err != nil {
		return err
	}
	if err := alloc.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	db, err := connectDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	scn, err := scenario.NewRepository(db.Pool).GetByID(ctx, scoreScenarioID)
	if err != nil {
		return err
	}

	engine := scoring.NewEngine(cfg.Scoring)
	result := engine.Score(preds, alloc, scn.ForwardReturns, scn.ForwardMonthlyReturns())

	fmt.Printf("Scenario %d (%s, %s)\n", scn.ID, scn.DisplayLabel, scn.HistoricalContext)
	fmt.Printf("  Brier score:     %.4f (%s)\n", result.BrierScore, result.Interpretation)
	fmt.Printf("  Portfolio:       %+.2f%% (Sharpe %.2f)\n", result.PortfolioReturn*100, result.PortfolioSharpe)
	fmt.Printf("  Benchmark:       %+.2f%% (Sharpe %.2f)\n", result.BenchmarkReturn*100, result.BenchmarkSharpe)
	fmt.Printf("  Excess return:   %+.2f%%\n", result.ExcessReturn*100)
	fmt.Printf("  Optimal:         100%% %s for %+.2f%%\n",
		bestAssetName(result.OptimalAllocation), result.OptimalReturn*100)

	return nil
}
