package normalize

import (
	"fmt"

	"github.com/hindsightlab/hindsight/internal/marketdata"
	"github.com/hindsightlab/hindsight/pkg/config"
	"github.com/hindsightlab/hindsight/pkg/logger"
)

// bondDuration approximates the duration of a 10-year Treasury note for
// the yield-to-price-return conversion.
const bondDuration = 7.0

// yoyLagMonths is the positional lag for year-over-year indicators.
const yoyLagMonths = 12

// Normalizer converts raw monthly series into inflation-adjusted real
// return indices plus macro indicators. Pure function of the raw table.
type Normalizer struct {
	cfg config.PipelineConfig
	log *logger.Logger
}

// New creates a new Normalizer
func New(cfg config.PipelineConfig, log *logger.Logger) *Normalizer {
	return &Normalizer{cfg: cfg, log: log}
}

// Normalize runs the full normalization pipeline over a raw table.
func (n *Normalizer) Normalize(raw *marketdata.RawTable) (*marketdata.NormalizedTable, error) {
	if raw.Len() == 0 {
		return nil, fmt.Errorf("raw table is empty")
	}

	// Duplicate dates keep the last observation
	raw.Dedupe()
	raw.Sort()

	rows := raw.Points
	count := len(rows)

	// Nominal total return indices
	stocksNominal := make([]float64, count)
	for i, p := range rows {
		stocksNominal[i] = p.StockTotalReturnIdx
	}
	bondsNominal := bondReturnIndex(rows)
	cashNominal := cashReturnIndex(rows)
	goldNominal := goldPriceIndex(rows)

	// Normalize each nominal index to first valid value = 100
	rescaleTo100(stocksNominal)
	rescaleTo100(bondsNominal)
	rescaleTo100(cashNominal)
	rescaleTo100(goldNominal)

	// Deflate by CPI normalized to 1 at the first available month
	cpi := make([]float64, count)
	for i, p := range rows {
		cpi[i] = p.CPI
	}
	stocksReal := deflate(stocksNominal, cpi)
	bondsReal := deflate(bondsNominal, cpi)
	cashReal := deflate(cashNominal, cpi)
	goldReal := deflate(goldNominal, cpi)

	// Macro indicators
	gdp := make([]float64, count)
	unemployment := make([]float64, count)
	fedFunds := make([]float64, count)
	indProd := make([]float64, count)
	tbill := make([]float64, count)
	for i, p := range rows {
		gdp[i] = p.GDPGrowth
		unemployment[i] = p.Unemployment
		fedFunds[i] = p.FedFunds
		indProd[i] = p.IndustrialProd
		tbill[i] = p.TBill3M
	}
	// GDP growth arrives quarterly and already year-over-year
	forwardFill(gdp)
	inflationYoY := yoyChange(cpi)
	indProdYoY := yoyChange(indProd)

	table := &marketdata.NormalizedTable{
		Points: make([]marketdata.NormalizedPoint, count),
	}
	for i, p := range rows {
		table.Points[i] = marketdata.NormalizedPoint{
			Date:              p.Date,
			IdxStocksReal:     stocksReal[i],
			IdxBondsReal:      bondsReal[i],
			IdxCashReal:       cashReal[i],
			IdxGoldReal:       goldReal[i],
			GDPGrowthYoY:      gdp[i],
			UnemploymentRate:  unemployment[i],
			InflationRateYoY:  inflationYoY[i],
			FedFundsRate:      fedFunds[i],
			IndustrialProdYoY: indProdYoY[i],
			CPI:               cpi[i],
			TBill3M:           tbill[i],
		}
	}

	dropped := table.Len()
	table.DropSparse(n.cfg.MaxMissingColumns)
	dropped -= table.Len()

	if n.log != nil {
		n.log.WithFields(map[string]interface{}{
			"rows":    table.Len(),
			"dropped": dropped,
		}).Info("Normalization complete")
	}

	return table, nil
}

// bondReturnIndex converts 10-year yields to an approximate total
// return index using a constant-duration model:
//
//	monthly_return = yield/12 - duration * yield_change
//
// Months without a computable return hold the index at 100.
func bondReturnIndex(rows []marketdata.RawPoint) []float64 {
	idx := make([]float64, len(rows))
	cum := 1.0
	for i, p := range rows {
		y := p.BondYield10Y / 100
		if i == 0 || marketdata.IsMissing(p.BondYield10Y) ||
			marketdata.IsMissing(rows[i-1].BondYield10Y) {
			idx[i] = 100
			continue
		}
		prev := rows[i-1].BondYield10Y / 100
		monthlyReturn := y/12 - bondDuration*(y-prev)
		cum *= 1 + monthlyReturn
		idx[i] = cum * 100
	}
	return idx
}

// cashReturnIndex compounds the annualized 3-month T-bill rate into a
// total return index. Months without a rate hold the index at 100.
func cashReturnIndex(rows []marketdata.RawPoint) []float64 {
	idx := make([]float64, len(rows))
	cum := 1.0
	for i, p := range rows {
		if marketdata.IsMissing(p.TBill3M) {
			idx[i] = 100
			continue
		}
		monthlyRate := p.TBill3M / 100 / 12
		cum *= 1 + monthlyRate
		idx[i] = cum * 100
	}
	return idx
}

// goldPriceIndex rescales the gold price so its first valid value is 100.
// Gold has no income component, so the price is the index.
func goldPriceIndex(rows []marketdata.RawPoint) []float64 {
	idx := make([]float64, len(rows))
	base := marketdata.Missing
	for _, p := range rows {
		if !marketdata.IsMissing(p.Gold) {
			base = p.Gold
			break
		}
	}
	for i, p := range rows {
		if marketdata.IsMissing(p.Gold) || marketdata.IsMissing(base) || base == 0 {
			idx[i] = marketdata.Missing
			continue
		}
		idx[i] = p.Gold / base * 100
	}
	return idx
}

// rescaleTo100 rescales a series in place so its first valid value is 100.
func rescaleTo100(series []float64) {
	base := marketdata.Missing
	for _, v := range series {
		if !marketdata.IsMissing(v) {
			base = v
			break
		}
	}
	if marketdata.IsMissing(base) || base == 0 {
		return
	}
	for i, v := range series {
		if marketdata.IsMissing(v) {
			continue
		}
		series[i] = v / base * 100
	}
}

// deflate divides a nominal index by CPI normalized to 1 at the first
// available month, producing a real index.
func deflate(nominal, cpi []float64) []float64 {
	base := marketdata.Missing
	for _, v := range cpi {
		if !marketdata.IsMissing(v) {
			base = v
			break
		}
	}
	real := make([]float64, len(nominal))
	for i := range nominal {
		if marketdata.IsMissing(nominal[i]) || marketdata.IsMissing(cpi[i]) ||
			marketdata.IsMissing(base) || cpi[i] == 0 {
			real[i] = marketdata.Missing
			continue
		}
		real[i] = nominal[i] / (cpi[i] / base)
	}
	return real
}

// forwardFill replaces missing values in place with the last seen value.
func forwardFill(series []float64) {
	last := marketdata.Missing
	for i, v := range series {
		if marketdata.IsMissing(v) {
			series[i] = last
			continue
		}
		last = v
	}
}

// yoyChange computes the year-over-year percentage change via a
// 12-month positional lag.
func yoyChange(series []float64) []float64 {
	out := make([]float64, len(series))
	for i := range series {
		if i < yoyLagMonths {
			out[i] = marketdata.Missing
			continue
		}
		cur, prev := series[i], series[i-yoyLagMonths]
		if marketdata.IsMissing(cur) || marketdata.IsMissing(prev) || prev == 0 {
			out[i] = marketdata.Missing
			continue
		}
		out[i] = (cur/prev - 1) * 100
	}
	return out
}
