package scoring

import "fmt"

// Asset identifies one of the four investable assets. The declaration
// order is the fixed precedence used wherever ties must break
// deterministically (stocks > bonds > cash > gold).
type Asset int

const (
	AssetStocks Asset = iota
	AssetBonds
	AssetCash
	AssetGold
)

// Assets returns all assets in precedence order.
func Assets() [4]Asset {
	return [4]Asset{AssetStocks, AssetBonds, AssetCash, AssetGold}
}

// String returns the asset name
func (a Asset) String() string {
	switch a {
	case AssetStocks:
		return "stocks"
	case AssetBonds:
		return "bonds"
	case AssetCash:
		return "cash"
	case AssetGold:
		return "gold"
	default:
		return "unknown"
	}
}

// AssetValues holds one float64 per asset, e.g. forward 12-month real
// returns.
type AssetValues struct {
	Stocks float64 `json:"stocks"`
	Bonds  float64 `json:"bonds"`
	Cash   float64 `json:"cash"`
	Gold   float64 `json:"gold"`
}

// Value returns the value for an asset
func (v AssetValues) Value(a Asset) float64 {
	switch a {
	case AssetStocks:
		return v.Stocks
	case AssetBonds:
		return v.Bonds
	case AssetCash:
		return v.Cash
	case AssetGold:
		return v.Gold
	default:
		return 0
	}
}

// MonthlySeries holds one monthly return series per asset.
type MonthlySeries struct {
	Stocks []float64 `json:"stocks"`
	Bonds  []float64 `json:"bonds"`
	Cash   []float64 `json:"cash"`
	Gold   []float64 `json:"gold"`
}

// Series returns the monthly returns for an asset
func (m MonthlySeries) Series(a Asset) []float64 {
	switch a {
	case AssetStocks:
		return m.Stocks
	case AssetBonds:
		return m.Bonds
	case AssetCash:
		return m.Cash
	case AssetGold:
		return m.Gold
	default:
		return nil
	}
}

// Allocation is a four-asset portfolio weighting in whole percent,
// summing to exactly 100.
type Allocation struct {
	Stocks int `json:"stocks"`
	Bonds  int `json:"bonds"`
	Cash   int `json:"cash"`
	Gold   int `json:"gold"`
}

// Weight returns the percent weight for an asset
func (al Allocation) Weight(a Asset) int {
	switch a {
	case AssetStocks:
		return al.Stocks
	case AssetBonds:
		return al.Bonds
	case AssetCash:
		return al.Cash
	case AssetGold:
		return al.Gold
	default:
		return 0
	}
}

// Sum returns the total weight
func (al Allocation) Sum() int {
	return al.Stocks + al.Bonds + al.Cash + al.Gold
}

// Validate checks the allocation invariants. Called at the input
// boundary; the engine itself assumes a valid allocation.
func (al Allocation) Validate() error {
	for _, a := range Assets() {
		w := al.Weight(a)
		if w < 0 || w > 100 {
			return fmt.Errorf("allocation for %s must be in [0,100], got %d", a, w)
		}
	}
	if al.Sum() != 100 {
		return fmt.Errorf("allocation must sum to 100, got %d", al.Sum())
	}
	return nil
}

// PredictionSet holds the player's four threshold probabilities: the
// stated probability that the 12-month real return exceeds each
// threshold.
type PredictionSet struct {
	Above15Pct float64 `json:"above_15pct"`
	Above10Pct float64 `json:"above_10pct"`
	Above5Pct  float64 `json:"above_5pct"`
	Above0Pct  float64 `json:"above_0pct"`
}

// Validate checks range and monotonicity: a higher threshold can never
// be more likely than a lower one.
func (p PredictionSet) Validate() error {
	probs := []float64{p.Above15Pct, p.Above10Pct, p.Above5Pct, p.Above0Pct}
	for _, v := range probs {
		if v < 0 || v > 1 {
			return fmt.Errorf("probability %v out of range [0,1]", v)
		}
	}
	if !(p.Above15Pct <= p.Above10Pct && p.Above10Pct <= p.Above5Pct && p.Above5Pct <= p.Above0Pct) {
		return fmt.Errorf("predictions must satisfy P(>15%%) <= P(>10%%) <= P(>5%%) <= P(>0%%)")
	}
	return nil
}

// PredictionResult is the per-threshold breakdown of the Brier score.
type PredictionResult struct {
	Threshold         string  `json:"threshold"`       // e.g. ">15%"
	Prediction        string  `json:"prediction"`      // "Yes" or "No"
	Confidence        float64 `json:"confidence"`      // 0.5-1.0
	ActualOutcome     bool    `json:"actual_outcome"`  //
	Correct           bool    `json:"correct"`         //
	BrierContribution float64 `json:"brier_contribution"`
}

// ScoreResult is the full output bundle for a revealed game session.
// Computing it twice from the same inputs yields identical results.
type ScoreResult struct {
	BrierScore     float64            `json:"brier_score"`
	Predictions    []PredictionResult `json:"predictions"`
	Interpretation string             `json:"interpretation"`

	PortfolioReturn float64 `json:"portfolio_return"`
	PortfolioSharpe float64 `json:"portfolio_sharpe"`

	BenchmarkReturn float64 `json:"benchmark_return"`
	BenchmarkSharpe float64 `json:"benchmark_sharpe"`
	ExcessReturn    float64 `json:"excess_return"`
	ExcessSharpe    float64 `json:"excess_sharpe"`

	OptimalAllocation Allocation `json:"optimal_allocation"`
	OptimalReturn     float64    `json:"optimal_return"`
	OptimalSharpe     float64    `json:"optimal_sharpe"`
}
