package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hindsightlab/hindsight/internal/marketdata"
	"github.com/hindsightlab/hindsight/pkg/config"
)

func testPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		LookbackMonths:    24,
		ForwardMonths:     12,
		MaxMissingColumns: 3,
	}
}

// makeRawTable builds n months of deterministic raw data starting at
// 1970-01: flat 6% bond yield, 12% bill rate, CPI growing 0.2%/month,
// gold at 100+i, stocks at 50*(1.01)^i.
func makeRawTable(n int) *marketdata.RawTable {
	table := &marketdata.RawTable{}
	cpi := 40.0
	stock := 50.0
	for i := 0; i < n; i++ {
		table.Points = append(table.Points, marketdata.RawPoint{
			Date:                time.Date(1970, time.Month(1), 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0),
			BondYield10Y:        6.0,
			TBill3M:             12.0,
			CPI:                 cpi,
			GDPGrowth:           2.5,
			Unemployment:        5.5,
			FedFunds:            4.0,
			IndustrialProd:      float64(100 + i),
			Gold:                float64(100 + i),
			StockTotalReturnIdx: stock,
		})
		cpi *= 1.002
		stock *= 1.01
	}
	return table
}

func TestBondReturnIndexConstantYield(t *testing.T) {
	rows := makeRawTable(3).Points
	idx := bondReturnIndex(rows)

	// First month has no prior yield, index defaults to 100
	assert.Equal(t, 100.0, idx[0])

	// Constant 6% yield: no price change, coupon only = 0.06/12 per month
	assert.InDelta(t, 100*1.005, idx[1], 1e-9)
	assert.InDelta(t, 100*1.005*1.005, idx[2], 1e-9)
}

func TestBondReturnIndexYieldShock(t *testing.T) {
	rows := makeRawTable(2).Points
	rows[1].BondYield10Y = 7.0 // +1pp in one month

	idx := bondReturnIndex(rows)

	// monthly_return = 0.07/12 - 7.0*0.01
	want := 100 * (1 + 0.07/12 - 7.0*0.01)
	assert.InDelta(t, want, idx[1], 1e-9)
}

func TestBondReturnIndexMissingYield(t *testing.T) {
	rows := makeRawTable(4).Points
	rows[2].BondYield10Y = marketdata.Missing

	idx := bondReturnIndex(rows)

	// No computable return: running index defaults to 100 for that month,
	// and the month after (its prior value is missing too).
	assert.Equal(t, 100.0, idx[2])
	assert.Equal(t, 100.0, idx[3])
	// Compounding resumes from the running product, not from 100
	assert.InDelta(t, 100*1.005, idx[1], 1e-9)
}

func TestCashReturnIndex(t *testing.T) {
	rows := makeRawTable(3).Points
	idx := cashReturnIndex(rows)

	// 12% annualized bill rate = 1% per month, compounded from the start
	assert.InDelta(t, 101.0, idx[0], 1e-9)
	assert.InDelta(t, 101.0*1.01, idx[1], 1e-9)
}

func TestGoldPriceIndex(t *testing.T) {
	rows := makeRawTable(3).Points
	idx := goldPriceIndex(rows)

	assert.InDelta(t, 100.0, idx[0], 1e-9)
	assert.InDelta(t, 101.0/100*100, idx[1], 1e-9)
	assert.InDelta(t, 102.0, idx[2], 1e-9)
}

func TestDeflate(t *testing.T) {
	nominal := []float64{100, 110, 121}

	// Flat CPI leaves the index unchanged
	flat := deflate(nominal, []float64{50, 50, 50})
	assert.InDelta(t, 100.0, flat[0], 1e-9)
	assert.InDelta(t, 110.0, flat[1], 1e-9)

	// CPI doubling halves the real index
	doubling := deflate(nominal, []float64{50, 50, 100})
	assert.InDelta(t, 121.0/2, doubling[2], 1e-9)

	// Missing CPI propagates as missing
	gaps := deflate(nominal, []float64{50, marketdata.Missing, 50})
	assert.True(t, marketdata.IsMissing(gaps[1]))
}

func TestForwardFill(t *testing.T) {
	series := []float64{marketdata.Missing, 2.0, marketdata.Missing, marketdata.Missing, 3.0}
	forwardFill(series)

	assert.True(t, marketdata.IsMissing(series[0]), "nothing to fill from")
	assert.Equal(t, 2.0, series[1])
	assert.Equal(t, 2.0, series[2])
	assert.Equal(t, 2.0, series[3])
	assert.Equal(t, 3.0, series[4])
}

func TestYoYChange(t *testing.T) {
	series := make([]float64, 14)
	for i := range series {
		series[i] = 100 + float64(i)
	}

	out := yoyChange(series)

	for i := 0; i < 12; i++ {
		assert.True(t, marketdata.IsMissing(out[i]), "no 12-month lag available at %d", i)
	}
	assert.InDelta(t, (112.0/100-1)*100, out[12], 1e-9)
	assert.InDelta(t, (113.0/101-1)*100, out[13], 1e-9)
}

func TestNormalize(t *testing.T) {
	raw := makeRawTable(48)
	normalizer := New(testPipelineConfig(), nil)

	table, err := normalizer.Normalize(raw)
	require.NoError(t, err)
	require.Equal(t, 48, table.Len())

	first := table.Points[0]

	// All four real indices rebased so the first month is 100 in nominal
	// terms; with CPI normalized to 1 at the same month, real = nominal.
	assert.InDelta(t, 100.0, first.IdxStocksReal, 1e-9)
	assert.InDelta(t, 100.0, first.IdxBondsReal, 1e-9)
	assert.InDelta(t, 100.0, first.IdxGoldReal, 1e-9)

	// Level pass-throughs
	assert.InDelta(t, 5.5, first.UnemploymentRate, 1e-9)
	assert.InDelta(t, 4.0, first.FedFundsRate, 1e-9)
	assert.InDelta(t, 2.5, first.GDPGrowthYoY, 1e-9)

	// YoY indicators need a 12-month lag
	assert.True(t, marketdata.IsMissing(first.InflationRateYoY))
	last := table.Points[table.Len()-1]
	assert.False(t, marketdata.IsMissing(last.InflationRateYoY))

	// CPI grows 0.2%/month: YoY inflation ~= 1.002^12 - 1
	wantInflation := (pow(1.002, 12) - 1) * 100
	assert.InDelta(t, wantInflation, last.InflationRateYoY, 1e-6)

	// Real stock index: nominal grows 1%/month, deflated by 0.2%/month CPI
	wantStocks := 100 * pow(1.01, 47) / pow(1.002, 47)
	assert.InDelta(t, wantStocks, last.IdxStocksReal, 1e-6)

	// Ordering is preserved
	for i := 1; i < table.Len(); i++ {
		assert.True(t, table.Points[i].Date.After(table.Points[i-1].Date))
	}
}

func TestNormalizeDropsSparseRows(t *testing.T) {
	raw := makeRawTable(30)

	// Knock out most of one row
	p := &raw.Points[20]
	p.BondYield10Y = marketdata.Missing
	p.TBill3M = marketdata.Missing
	p.CPI = marketdata.Missing
	p.GDPGrowth = marketdata.Missing
	p.Unemployment = marketdata.Missing
	p.FedFunds = marketdata.Missing
	p.Gold = marketdata.Missing

	normalizer := New(testPipelineConfig(), nil)
	table, err := normalizer.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, 29, table.Len())
	for _, row := range table.Points {
		assert.NotEqual(t, raw.Points[20].Date, row.Date)
	}
}

func TestNormalizeEmptyTable(t *testing.T) {
	normalizer := New(testPipelineConfig(), nil)
	_, err := normalizer.Normalize(&marketdata.RawTable{})
	require.Error(t, err)
}

// pow avoids pulling math into the test imports for two call sites.
func pow(base float64, n int) float64 {
	out := 1.0
	for i := 0; i < n; i++ {
		out *= base
	}
	return out
}
