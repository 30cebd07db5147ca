package marketdata

import (
	"math"
	"sort"
	"time"
)

// Missing marks an absent observation inside the in-memory tables.
// Values are carried through as NaN rather than invented.
var Missing = math.NaN()

// IsMissing reports whether a value is an absent observation.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// RawPoint is one calendar month of raw observations handed over by the
// ingestion job. Immutable once captured.
type RawPoint struct {
	Date                time.Time `json:"date"`
	BondYield10Y        float64   `json:"bond_yield_10y"`
	TBill3M             float64   `json:"tbill_3m"`
	CPI                 float64   `json:"cpi"`
	GDPGrowth           float64   `json:"gdp_growth"`
	Unemployment        float64   `json:"unemployment"`
	FedFunds            float64   `json:"fed_funds"`
	IndustrialProd      float64   `json:"industrial_prod"`
	Gold                float64   `json:"gold"`
	StockTotalReturnIdx float64   `json:"stock_total_return_index"`
}

// RawTable is a dated monthly series of raw observations, ordered by date.
type RawTable struct {
	Points []RawPoint
}

// Len returns the number of rows
func (t *RawTable) Len() int {
	return len(t.Points)
}

// Sort orders rows by date ascending.
func (t *RawTable) Sort() {
	sort.SliceStable(t.Points, func(i, j int) bool {
		return t.Points[i].Date.Before(t.Points[j].Date)
	})
}

// Dedupe removes duplicate dates, keeping the last observation.
func (t *RawTable) Dedupe() {
	seen := make(map[time.Time]int, len(t.Points))
	out := make([]RawPoint, 0, len(t.Points))
	for _, p := range t.Points {
		if idx, ok := seen[p.Date]; ok {
			out[idx] = p
			continue
		}
		seen[p.Date] = len(out)
		out = append(out, p)
	}
	t.Points = out
}

// NormalizedPoint is one calendar month of inflation-adjusted return
// indices and macro indicators. Derived, one-to-one with RawPoint where
// available.
type NormalizedPoint struct {
	Date time.Time `json:"date"`

	// Real (inflation-adjusted) total return indices
	IdxStocksReal float64 `json:"idx_stocks_real"`
	IdxBondsReal  float64 `json:"idx_bonds_real"`
	IdxCashReal   float64 `json:"idx_cash_real"`
	IdxGoldReal   float64 `json:"idx_gold_real"`

	// Macro indicators (YoY or level)
	GDPGrowthYoY      float64 `json:"gdp_growth_yoy"`
	UnemploymentRate  float64 `json:"unemployment_rate"`
	InflationRateYoY  float64 `json:"inflation_rate_yoy"`
	FedFundsRate      float64 `json:"fed_funds_rate"`
	IndustrialProdYoY float64 `json:"industrial_prod_yoy"`

	// Retained raw values for reference
	CPI     float64 `json:"cpi"`
	TBill3M float64 `json:"tbill_3m"`
}

// missingCount counts absent values across all columns of the row.
func (p *NormalizedPoint) missingCount() int {
	cols := []float64{
		p.IdxStocksReal, p.IdxBondsReal, p.IdxCashReal, p.IdxGoldReal,
		p.GDPGrowthYoY, p.UnemploymentRate, p.InflationRateYoY,
		p.FedFundsRate, p.IndustrialProdYoY,
		p.CPI, p.TBill3M,
	}
	n := 0
	for _, v := range cols {
		if IsMissing(v) {
			n++
		}
	}
	return n
}

// NormalizedTable is a dated monthly series of normalized rows, ordered
// by date.
type NormalizedTable struct {
	Points []NormalizedPoint
}

// Len returns the number of rows
func (t *NormalizedTable) Len() int {
	return len(t.Points)
}

// DropSparse removes rows missing more than maxMissing columns.
func (t *NormalizedTable) DropSparse(maxMissing int) {
	out := make([]NormalizedPoint, 0, len(t.Points))
	for _, p := range t.Points {
		if p.missingCount() > maxMissing {
			continue
		}
		out = append(out, p)
	}
	t.Points = out
}

// Slice returns the rows whose dates fall in [from, to] inclusive.
func (t *NormalizedTable) Slice(from, to time.Time) []NormalizedPoint {
	out := make([]NormalizedPoint, 0)
	for _, p := range t.Points {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// MonthStart truncates a date to the first day of its month in UTC.
// All table dates are keyed this way.
func MonthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}
