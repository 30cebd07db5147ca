package scoring

import (
	"math"

	"github.com/hindsightlab/hindsight/pkg/config"
)

// threshold pairs a return cutoff with its display label, highest first.
var thresholds = []struct {
	Cutoff float64
	Label  string
}{
	{0.15, ">15%"},
	{0.10, ">10%"},
	{0.05, ">5%"},
	{0.00, ">0%"},
}

// Engine computes game scores: Brier score, portfolio metrics, and
// benchmark/optimal comparisons. Stateless; every method is pure and
// reentrant.
type Engine struct {
	benchmark Allocation
}

// NewEngine creates a scoring engine with the configured benchmark
// allocation.
func NewEngine(cfg config.ScoringConfig) *Engine {
	return &Engine{
		benchmark: Allocation{
			Stocks: cfg.BenchmarkStocks,
			Bonds:  cfg.BenchmarkBonds,
			Cash:   cfg.BenchmarkCash,
			Gold:   cfg.BenchmarkGold,
		},
	}
}

// Benchmark returns the engine's benchmark allocation.
func (e *Engine) Benchmark() Allocation {
	return e.benchmark
}

// BrierScore scores the four threshold probabilities against the
// realized 12-month real return. Outcome is 1 when the return strictly
// exceeds the threshold. Returns the mean squared error (rounded to 4
// decimals) and a per-threshold breakdown.
func (e *Engine) BrierScore(preds PredictionSet, actualReturn float64) (float64, []PredictionResult) {
	probs := []float64{preds.Above15Pct, preds.Above10Pct, preds.Above5Pct, preds.Above0Pct}

	results := make([]PredictionResult, 0, len(thresholds))
	total := 0.0

	for i, th := range thresholds {
		prob := probs[i]
		outcome := actualReturn > th.Cutoff
		outcomeValue := 0.0
		if outcome {
			outcomeValue = 1.0
		}

		contribution := (prob - outcomeValue) * (prob - outcomeValue)
		total += contribution

		// A probability of at least 0.5 reads as a "Yes" call
		prediction := "No"
		confidence := 1.0 - prob
		if prob >= 0.5 {
			prediction = "Yes"
			confidence = prob
		}

		results = append(results, PredictionResult{
			Threshold:         th.Label,
			Prediction:        prediction,
			Confidence:        round3(confidence),
			ActualOutcome:     outcome,
			Correct:           (prediction == "Yes") == outcome,
			BrierContribution: round4(contribution),
		})
	}

	return round4(total / float64(len(thresholds))), results
}

// PortfolioReturn computes the allocation-weighted forward return,
// rounded to 4 decimals.
func (e *Engine) PortfolioReturn(alloc Allocation, returns AssetValues) float64 {
	total := 0.0
	for _, a := range Assets() {
		weight := float64(alloc.Weight(a)) / 100.0
		total += weight * returns.Value(a)
	}
	return round4(total)
}

// PortfolioSharpe reconstructs the monthly portfolio returns from the
// per-asset forward monthly returns, compounds them into an annualized
// return, and divides the excess over the risk-free return by the
// annualized volatility. Zero volatility (e.g. 100% cash) yields 0.0.
func (e *Engine) PortfolioSharpe(alloc Allocation, monthly MonthlySeries, riskFreeReturn float64) float64 {
	months := len(monthly.Stocks)
	if months == 0 {
		return 0.0
	}

	portfolioMonthly := make([]float64, 0, months)
	for i := 0; i < months; i++ {
		monthReturn := 0.0
		for _, a := range Assets() {
			series := monthly.Series(a)
			if i >= len(series) {
				continue
			}
			weight := float64(alloc.Weight(a)) / 100.0
			monthReturn += weight * series[i]
		}
		portfolioMonthly = append(portfolioMonthly, monthReturn)
	}

	// Annualized return via compounding
	cumulative := 1.0
	for _, r := range portfolioMonthly {
		cumulative *= 1 + r
	}
	annualizedReturn := cumulative - 1

	annualizedStd := AnnualizedVolatility(portfolioMonthly)
	if annualizedStd == 0 {
		return 0.0
	}

	return round4((annualizedReturn - riskFreeReturn) / annualizedStd)
}

// BenchmarkMetrics applies the portfolio routines to the benchmark
// allocation.
func (e *Engine) BenchmarkMetrics(returns AssetValues, monthly MonthlySeries, riskFreeReturn float64) (float64, float64) {
	benchReturn := e.PortfolioReturn(e.benchmark, returns)
	benchSharpe := e.PortfolioSharpe(e.benchmark, monthly, riskFreeReturn)
	return benchReturn, benchSharpe
}

// OptimalAllocation returns the hindsight-optimal allocation: 100% in
// the single best-performing asset. Exact ties break by the fixed asset
// precedence (stocks > bonds > cash > gold).
func (e *Engine) OptimalAllocation(returns AssetValues) Allocation {
	best := AssetStocks
	for _, a := range Assets() {
		if returns.Value(a) > returns.Value(best) {
			best = a
		}
	}

	var alloc Allocation
	switch best {
	case AssetStocks:
		alloc.Stocks = 100
	case AssetBonds:
		alloc.Bonds = 100
	case AssetCash:
		alloc.Cash = 100
	case AssetGold:
		alloc.Gold = 100
	}
	return alloc
}

// Interpretation returns the descriptive calibration band for a Brier
// score. 0.25 is equivalent to random 50/50 guessing.
func (e *Engine) Interpretation(score float64) string {
	switch {
	case score < 0.10:
		return "Excellent calibration"
	case score < 0.15:
		return "Good calibration"
	case score < 0.20:
		return "Decent calibration"
	case score < 0.25:
		return "Poor calibration (near random)"
	default:
		return "Worse than random guessing"
	}
}

// Score computes the full result bundle for one revealed session. The
// realized stock return is the outcome the threshold predictions are
// scored against; the cash forward return is the risk-free rate.
func (e *Engine) Score(preds PredictionSet, alloc Allocation, returns AssetValues, monthly MonthlySeries) ScoreResult {
	riskFree := returns.Cash

	brier, breakdown := e.BrierScore(preds, returns.Stocks)
	portfolioReturn := e.PortfolioReturn(alloc, returns)
	portfolioSharpe := e.PortfolioSharpe(alloc, monthly, riskFree)
	benchReturn, benchSharpe := e.BenchmarkMetrics(returns, monthly, riskFree)

	optimal := e.OptimalAllocation(returns)

	return ScoreResult{
		BrierScore:     brier,
		Predictions:    breakdown,
		Interpretation: e.Interpretation(brier),

		PortfolioReturn: portfolioReturn,
		PortfolioSharpe: portfolioSharpe,

		BenchmarkReturn: benchReturn,
		BenchmarkSharpe: benchSharpe,
		ExcessReturn:    portfolioReturn - benchReturn,
		ExcessSharpe:    portfolioSharpe - benchSharpe,

		OptimalAllocation: optimal,
		OptimalReturn:     e.PortfolioReturn(optimal, returns),
		OptimalSharpe:     e.PortfolioSharpe(optimal, monthly, riskFree),
	}
}

// AnnualizedVolatility is the population standard deviation of monthly
// returns scaled by sqrt(12). Fewer than 2 observations yield 0.0.
func AnnualizedVolatility(monthly []float64) float64 {
	if len(monthly) < 2 {
		return 0.0
	}

	mean := 0.0
	for _, r := range monthly {
		mean += r
	}
	mean /= float64(len(monthly))

	variance := 0.0
	for _, r := range monthly {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(monthly))

	return math.Sqrt(variance) * math.Sqrt(12)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
