package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hindsightlab/hindsight/internal/game"
	"github.com/hindsightlab/hindsight/internal/scenario"
	"github.com/hindsightlab/hindsight/internal/scoring"
	"github.com/hindsightlab/hindsight/pkg/config"
	"github.com/hindsightlab/hindsight/pkg/database"
	"github.com/hindsightlab/hindsight/pkg/logger"
	"github.com/hindsightlab/hindsight/pkg/redis"
)

// gameCmd represents the game command
var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Play game sessions from the terminal",
	Long: `Start and reveal game sessions against stored scenarios.

Subcommands:
  start       - create a session with predictions and an allocation
  reveal      - disclose the scenario and show every score
  leaderboard - show the best completed sessions

Example:
  go run ./cmd/hindsight game start --scenario 1 --p15 0.2 --p10 0.4 --p5 0.7 --p0 0.9 --stocks 60 --bonds 40
  go run ./cmd/hindsight game reveal <token>`,
}

var (
	gameStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Create a game session",
		RunE:  runGameStart,
	}

	gameRevealCmd = &cobra.Command{
		Use:   "reveal [token]",
		Short: "Reveal a session's results",
		Args:  cobra.ExactArgs(1),
		RunE:  runGameReveal,
	}

	gameLeaderboardCmd = &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the leaderboard",
		RunE:  runGameLeaderboard,
	}
)

var (
	gameScenarioID int64
	gameP15        float64
	gameP10        float64
	gameP5         float64
	gameP0         float64
	gameStocks     int
	gameBonds      int
	gameCash       int
	gameGold       int
	gameRationale  string
	gameTopN       int
)

func init() {
	rootCmd.AddCommand(gameCmd)
	gameCmd.AddCommand(gameStartCmd)
	gameCmd.AddCommand(gameRevealCmd)
	gameCmd.AddCommand(gameLeaderboardCmd)

	gameStartCmd.Flags().Int64Var(&gameScenarioID, "scenario", 0, "scenario id")
	gameStartCmd.Flags().Float64Var(&gameP15, "p15", 0.5, "P(stock return > 15%)")
	gameStartCmd.Flags().Float64Var(&gameP10, "p10", 0.5, "P(stock return > 10%)")
	gameStartCmd.Flags().Float64Var(&gameP5, "p5", 0.5, "P(stock return > 5%)")
	gameStartCmd.Flags().Float64Var(&gameP0, "p0", 0.5, "P(stock return > 0%)")
	gameStartCmd.Flags().IntVar(&gameStocks, "stocks", 0, "stock allocation %")
	gameStartCmd.Flags().IntVar(&gameBonds, "bonds", 0, "bond allocation %")
	gameStartCmd.Flags().IntVar(&gameCash, "cash", 0, "cash allocation %")
	gameStartCmd.Flags().IntVar(&gameGold, "gold", 0, "gold allocation %")
	gameStartCmd.Flags().StringVar(&gameRationale, "rationale", "", "written rationale")
	_ = gameStartCmd.MarkFlagRequired("scenario")

	gameLeaderboardCmd.Flags().IntVar(&gameTopN, "top", 20, "number of entries")
}

// buildGameService wires the service with its repositories and the
// optional reveal cache.
func buildGameService(cfg *config.Config, db *database.DB, log *logger.Logger) *game.Service {
	var cache *redis.Cache
	if client, err := redis.New(cfg); err != nil {
		log.WithError(err).Warn("redis unavailable, reveal cache disabled")
	} else {
		cache = redis.NewCache(client, "hindsight")
	}

	return game.NewService(cfg,
		game.NewRepository(db.Pool),
		scenario.NewRepository(db.Pool),
		cache, log)
}

func runGameStart(cmd *cobra.Command, args []string) error {
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

	svc := buildGameService(cfg, db, log)

	session, err := svc.Start(ctx, gameScenarioID,
		scoring.PredictionSet{
			Above15Pct: gameP15,
			Above10Pct: gameP10,
			Above5Pct:  gameP5,
			Above0Pct:  gameP0,
		},
		scoring.Allocation{
			Stocks: gameStocks,
			Bonds:  gameBonds,
			Cash:   gameCash,
			Gold:   gameGold,
		},
		gameRationale)
	if err != nil {
		return err
	}

	fmt.Printf("Session created\n")
	fmt.Printf("  Token: %s\n", session.Token)
	fmt.Printf("\nReveal with:\n  go run ./cmd/hindsight game reveal %s\n", session.Token)
	return nil
}

func runGameReveal(cmd *cobra.Command, args []string) error {
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

	svc := buildGameService(cfg, db, log)

	reveal, err := svc.Reveal(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("=== The scenario was: %s ===\n", reveal.ActualPeriod)
	if reveal.HistoricalContext != "" {
		fmt.Printf("%s\n", reveal.HistoricalContext)
	}
	if reveal.HistoricalDescription != "" {
		fmt.Printf("\n%s\n", reveal.HistoricalDescription)
	}

	fmt.Printf("\nPredictions (Brier score %.4f, %s)\n", reveal.BrierScore, reveal.Interpretation)
	for _, p := range reveal.Predictions {
		mark := "✗"
		if p.Correct {
			mark = "✓"
		}
		fmt.Printf("  %s %-5s you said %s (%.0f%%), outcome %v, contribution %.4f\n",
			mark, p.Threshold, p.Prediction, p.Confidence*100, p.ActualOutcome, p.BrierContribution)
	}

	fmt.Printf("\nAsset returns (real, 12 months)\n")
	fmt.Printf("  stocks %+.2f%%  bonds %+.2f%%  cash %+.2f%%  gold %+.2f%%\n",
		reveal.AssetReturns.Stocks*100,
		reveal.AssetReturns.Bonds*100,
		reveal.AssetReturns.Cash*100,
		reveal.AssetReturns.Gold*100)

	fmt.Printf("\nPortfolio\n")
	fmt.Printf("  Your return:      %+.2f%% (Sharpe %.2f)\n", reveal.PortfolioReturn*100, reveal.PortfolioSharpe)
	fmt.Printf("  Benchmark 60/40:  %+.2f%% (Sharpe %.2f)\n", reveal.BenchmarkReturn*100, reveal.BenchmarkSharpe)
	fmt.Printf("  Excess:           %+.2f%%\n", reveal.ExcessReturn*100)
	fmt.Printf("  Hindsight best:   100%% %s for %+.2f%%\n",
		bestAssetName(reveal.OptimalAllocation), reveal.OptimalReturn*100)

	return nil
}

func bestAssetName(alloc scoring.Allocation) string {
	for _, a := range scoring.Assets() {
		if alloc.Weight(a) == 100 {
			return a.String()
		}
	}
	return "?"
}

func runGameLeaderboard(cmd *cobra.Command, args []string) error {
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

	entries, err := game.NewRepository(db.Pool).Leaderboard(ctx, gameTopN)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("Leaderboard is empty")
		return nil
	}

	fmt.Printf("%-4s %-20s %10s %12s %12s\n", "#", "Username", "Brier", "Return", "vs 60/40")
	for i, e := range entries {
		fmt.Printf("%-4d %-20s %10.4f %+11.2f%% %+11.2f%%\n",
			i+1, e.Username, e.BrierScore, e.PortfolioReturn*100, e.ExcessReturn*100)
	}

	return nil
}
