package scenario

import (
	"fmt"

	"github.com/hindsightlab/hindsight/internal/marketdata"
	"github.com/hindsightlab/hindsight/internal/scoring"
	"github.com/hindsightlab/hindsight/pkg/config"
)

// ForwardMetrics holds the pre-computed outcome of a scenario's forward
// period.
type ForwardMetrics struct {
	Returns        scoring.AssetValues
	MonthlyReturns scoring.MonthlySeries
	Volatility     Volatilities

	BenchmarkReturn float64
	BenchmarkSharpe float64
}

// Calculator computes forward metrics from a scenario window, working
// on the un-rebased real index values.
type Calculator struct {
	lookback  int
	forward   int
	benchmark scoring.Allocation
}

// NewCalculator creates a forward metrics calculator.
func NewCalculator(pipeline config.PipelineConfig, scoringCfg config.ScoringConfig) *Calculator {
	return &Calculator{
		lookback: pipeline.LookbackMonths,
		forward:  pipeline.ForwardMonths,
		benchmark: scoring.Allocation{
			Stocks: scoringCfg.BenchmarkStocks,
			Bonds:  scoringCfg.BenchmarkBonds,
			Cash:   scoringCfg.BenchmarkCash,
			Gold:   scoringCfg.BenchmarkGold,
		},
	}
}

// column extracts one asset's un-rebased real index from a window row.
type column func(marketdata.NormalizedPoint) float64

func stocksCol(p marketdata.NormalizedPoint) float64 { return p.IdxStocksReal }
func bondsCol(p marketdata.NormalizedPoint) float64  { return p.IdxBondsReal }
func cashCol(p marketdata.NormalizedPoint) float64   { return p.IdxCashReal }
func goldCol(p marketdata.NormalizedPoint) float64   { return p.IdxGoldReal }

// Compute splits the window into lookback and forward segments and
// derives the forward returns, volatilities, and benchmark metrics.
// Fails with ErrInsufficientForward when the forward segment is too
// short to produce monthly returns.
func (c *Calculator) Compute(w *Window) (*ForwardMetrics, error) {
	forwardRows := len(w.Rows) - c.lookback
	if forwardRows < c.forward-1 {
		return nil, fmt.Errorf("%w: got %d forward months, need %d",
			ErrInsufficientForward, forwardRows, c.forward)
	}

	m := &ForwardMetrics{
		Returns: scoring.AssetValues{
			Stocks: c.forwardReturn(w, stocksCol),
			Bonds:  c.forwardReturn(w, bondsCol),
			Cash:   c.forwardReturn(w, cashCol),
			Gold:   c.forwardReturn(w, goldCol),
		},
		MonthlyReturns: scoring.MonthlySeries{
			Stocks: c.forwardMonthlyReturns(w, stocksCol),
			Bonds:  c.forwardMonthlyReturns(w, bondsCol),
			Cash:   c.forwardMonthlyReturns(w, cashCol),
			Gold:   c.forwardMonthlyReturns(w, goldCol),
		},
	}

	m.Volatility = Volatilities{
		Stocks: scoring.AnnualizedVolatility(m.MonthlyReturns.Stocks),
		Bonds:  scoring.AnnualizedVolatility(m.MonthlyReturns.Bonds),
		Gold:   scoring.AnnualizedVolatility(m.MonthlyReturns.Gold),
	}

	c.benchmarkMetrics(m)
	return m, nil
}

// forwardReturn computes the forward-period return from the last
// lookback month to the window's end. A zero or missing base value
// yields 0.0 by policy, not a failure.
func (c *Calculator) forwardReturn(w *Window, col column) float64 {
	start := col(w.Rows[c.lookback-1])
	end := col(w.Rows[len(w.Rows)-1])

	if start == 0 || marketdata.IsMissing(start) || marketdata.IsMissing(end) {
		return 0.0
	}
	return end/start - 1
}

// forwardMonthlyReturns computes month-over-month changes across the
// forward segment, using the last lookback month as the base for the
// first delta. Deltas with missing endpoints are dropped.
func (c *Calculator) forwardMonthlyReturns(w *Window, col column) []float64 {
	out := make([]float64, 0, len(w.Rows)-c.lookback)
	for i := c.lookback; i < len(w.Rows); i++ {
		prev := col(w.Rows[i-1])
		cur := col(w.Rows[i])
		if prev == 0 || marketdata.IsMissing(prev) || marketdata.IsMissing(cur) {
			continue
		}
		out = append(out, cur/prev-1)
	}
	return out
}

// benchmarkMetrics fills in the fixed-allocation benchmark return and
// Sharpe ratio. Cash's forward return is the risk-free rate; zero
// benchmark volatility yields a 0.0 Sharpe.
func (c *Calculator) benchmarkMetrics(m *ForwardMetrics) {
	weights := map[scoring.Asset]float64{}
	for _, a := range scoring.Assets() {
		weights[a] = float64(c.benchmark.Weight(a)) / 100.0
	}

	benchReturn := 0.0
	for _, a := range scoring.Assets() {
		benchReturn += weights[a] * m.Returns.Value(a)
	}

	// Weighted monthly series for volatility
	months := len(m.MonthlyReturns.Stocks)
	benchMonthly := make([]float64, 0, months)
	for i := 0; i < months; i++ {
		r := 0.0
		for _, a := range scoring.Assets() {
			series := m.MonthlyReturns.Series(a)
			if i >= len(series) {
				continue
			}
			r += weights[a] * series[i]
		}
		benchMonthly = append(benchMonthly, r)
	}

	benchVol := scoring.AnnualizedVolatility(benchMonthly)
	riskFree := m.Returns.Cash

	m.BenchmarkReturn = benchReturn
	m.BenchmarkSharpe = 0.0
	if benchVol > 0 {
		m.BenchmarkSharpe = (benchReturn - riskFree) / benchVol
	}
}
