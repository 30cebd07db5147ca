package scenario

import (
	"errors"
	"time"

	"github.com/hindsightlab/hindsight/internal/scoring"
)

// Pipeline-level failures. These skip the candidate scenario and are
// logged; the batch continues.
var (
	// ErrInsufficientData means the window has too few months.
	ErrInsufficientData = errors.New("insufficient data for scenario window")

	// ErrDegenerateBase means an asset series starts the window at zero
	// or a missing value and cannot be rebased.
	ErrDegenerateBase = errors.New("window starts at zero or missing index value")

	// ErrInsufficientForward means the forward segment has too few
	// monthly return observations.
	ErrInsufficientForward = errors.New("insufficient forward observations")
)

// MonthlyDataPoint is one scenario-relative month. Asset indices are
// rebased to 100 at month 1; macro fields are actual values, nil when
// the underlying observation is missing.
type MonthlyDataPoint struct {
	MonthIndex int  `json:"month_index"` // 1-based
	IsForward  bool `json:"is_forward"`  // months after the anchor

	IdxStocks float64 `json:"idx_stocks"`
	IdxBonds  float64 `json:"idx_bonds"`
	IdxCash   float64 `json:"idx_cash"`
	IdxGold   float64 `json:"idx_gold"`

	GDPGrowthYoY      *float64 `json:"gdp_growth_yoy,omitempty"`
	UnemploymentRate  *float64 `json:"unemployment_rate,omitempty"`
	InflationRateYoY  *float64 `json:"inflation_rate_yoy,omitempty"`
	FedFundsRate      *float64 `json:"fed_funds_rate,omitempty"`
	IndustrialProdYoY *float64 `json:"industrial_prod_yoy,omitempty"`
}

// Volatilities holds annualized forward volatility per asset. Cash is
// treated as risk-free and carries no volatility.
type Volatilities struct {
	Stocks float64 `json:"stocks"`
	Bonds  float64 `json:"bonds"`
	Gold   float64 `json:"gold"`
}

// Scenario is a pre-computed game scenario: a hidden anchor date, the
// forward outcome metrics, and the full 36-month chart series.
// Immutable after creation.
type Scenario struct {
	ID                int64     `json:"id"`
	AnchorDate        time.Time `json:"anchor_date"` // hidden from the player
	DisplayLabel      string    `json:"display_label"`
	HistoricalContext string    `json:"historical_context,omitempty"`

	ForwardReturns    scoring.AssetValues `json:"forward_returns"`
	ForwardVolatility Volatilities        `json:"forward_volatility"`

	BenchmarkReturn float64 `json:"benchmark_return"`
	BenchmarkSharpe float64 `json:"benchmark_sharpe"`

	Months []MonthlyDataPoint `json:"months"`

	CreatedAt time.Time `json:"created_at"`
}

// ForwardMonthlyReturns derives the 12 forward monthly returns per
// asset from the stored (rebased) monthly points: month-over-month
// changes across the forward segment, using the last historical month
// as the base for the first delta. Rebasing is a constant-factor
// rescale, so these match returns computed from the un-rebased index.
func (s *Scenario) ForwardMonthlyReturns() scoring.MonthlySeries {
	var series scoring.MonthlySeries

	var prev *MonthlyDataPoint
	for i := range s.Months {
		m := &s.Months[i]
		if !m.IsForward {
			if i+1 < len(s.Months) && s.Months[i+1].IsForward {
				prev = m
			}
			continue
		}
		if prev == nil {
			prev = m
			continue
		}
		series.Stocks = append(series.Stocks, m.IdxStocks/prev.IdxStocks-1)
		series.Bonds = append(series.Bonds, m.IdxBonds/prev.IdxBonds-1)
		series.Cash = append(series.Cash, m.IdxCash/prev.IdxCash-1)
		series.Gold = append(series.Gold, m.IdxGold/prev.IdxGold-1)
		prev = m
	}

	return series
}

// WindowStart returns the first calendar month of the scenario window.
func (s *Scenario) WindowStart(lookbackMonths int) time.Time {
	return s.AnchorDate.AddDate(0, -lookbackMonths, 0)
}

// WindowEnd returns the last calendar month of the scenario window.
func (s *Scenario) WindowEnd(forwardMonths int) time.Time {
	return s.AnchorDate.AddDate(0, forwardMonths-1, 0)
}
