package marketdata

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `date,bond_yield_10y,tbill_3m,cpi,gdp_growth,unemployment,fed_funds,industrial_prod,gold,stock_total_return_index
1971-01-01,6.24,4.49,39.8,2.1,5.9,4.14,38.1,37.87,100.0
1971-02-01,6.11,3.77,39.9,,5.9,3.72,38.0,38.74,101.2
1971-02-01,6.11,3.77,39.9,2.3,5.9,3.72,38.0,38.74,101.3
1971-03-01,5.70,3.32,40.0,2.3,6.0,3.71,38.2,38.87,103.5
`

func TestReadRawCSV(t *testing.T) {
	table, err := ReadRawCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	// Duplicate 1971-02 kept the last observation
	require.Equal(t, 3, table.Len())

	first := table.Points[0]
	assert.Equal(t, time.Date(1971, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.InDelta(t, 6.24, first.BondYield10Y, 1e-9)
	assert.InDelta(t, 37.87, first.Gold, 1e-9)

	second := table.Points[1]
	assert.InDelta(t, 101.3, second.StockTotalReturnIdx, 1e-9, "dedupe should keep last")
	assert.InDelta(t, 2.3, second.GDPGrowth, 1e-9)
}

func TestReadRawCSVMissingCells(t *testing.T) {
	csvData := `date,bond_yield_10y,tbill_3m,cpi,gdp_growth,unemployment,fed_funds,industrial_prod,gold,stock_total_return_index
1971-01-01,,4.49,39.8,,5.9,4.14,38.1,,100.0
`
	table, err := ReadRawCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	p := table.Points[0]
	assert.True(t, IsMissing(p.BondYield10Y))
	assert.True(t, IsMissing(p.GDPGrowth))
	assert.True(t, IsMissing(p.Gold))
	assert.False(t, IsMissing(p.TBill3M))
}

func TestReadRawCSVInvalidDate(t *testing.T) {
	csvData := `date,bond_yield_10y
not-a-date,6.24
`
	_, err := ReadRawCSV(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestReadRawCSVMissingDateColumn(t *testing.T) {
	csvData := `bond_yield_10y,tbill_3m
6.24,4.49
`
	_, err := ReadRawCSV(strings.NewReader(csvData))
	require.Error(t, err)
}

func TestRawTableSortAndDedupe(t *testing.T) {
	table := &RawTable{Points: []RawPoint{
		{Date: time.Date(1980, 3, 1, 0, 0, 0, 0, time.UTC), Gold: 2},
		{Date: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), Gold: 1},
		{Date: time.Date(1980, 3, 1, 0, 0, 0, 0, time.UTC), Gold: 3},
	}}

	table.Dedupe()
	table.Sort()

	require.Equal(t, 2, table.Len())
	assert.Equal(t, 1.0, table.Points[0].Gold)
	assert.Equal(t, 3.0, table.Points[1].Gold, "last observation wins")
}

func TestNormalizedTableDropSparse(t *testing.T) {
	dense := NormalizedPoint{
		Date:          time.Date(1975, 1, 1, 0, 0, 0, 0, time.UTC),
		IdxStocksReal: 100, IdxBondsReal: 100, IdxCashReal: 100, IdxGoldReal: 100,
		GDPGrowthYoY: 2.0, UnemploymentRate: 5.0, InflationRateYoY: 3.0,
		FedFundsRate: 4.0, IndustrialProdYoY: 1.0, CPI: 50, TBill3M: 4.0,
	}
	sparse := dense
	sparse.GDPGrowthYoY = Missing
	sparse.InflationRateYoY = Missing
	sparse.IndustrialProdYoY = Missing
	sparse.FedFundsRate = Missing

	table := &NormalizedTable{Points: []NormalizedPoint{dense, sparse}}
	table.DropSparse(3)

	require.Equal(t, 1, table.Len())
	assert.Equal(t, dense.Date, table.Points[0].Date)
}

func TestSlice(t *testing.T) {
	table := &NormalizedTable{}
	for m := 1; m <= 12; m++ {
		table.Points = append(table.Points, NormalizedPoint{
			Date: time.Date(1990, time.Month(m), 1, 0, 0, 0, 0, time.UTC),
		})
	}

	rows := table.Slice(
		time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC),
	)
	require.Len(t, rows, 4)
	assert.Equal(t, time.March, rows[0].Date.Month())
	assert.Equal(t, time.June, rows[3].Date.Month())
}
