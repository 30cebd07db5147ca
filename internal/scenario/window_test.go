package scenario

import (
	"math"
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

// makeTable builds a normalized table of deterministic geometric growth
// starting at `start`: stocks 1%/mo, bonds 0.5%, cash 0.2%, gold 0.3%.
func makeTable(start time.Time, months int) *marketdata.NormalizedTable {
	table := &marketdata.NormalizedTable{}
	for i := 0; i < months; i++ {
		table.Points = append(table.Points, marketdata.NormalizedPoint{
			Date:          start.AddDate(0, i, 0),
			IdxStocksReal: 100 * math.Pow(1.010, float64(i)),
			IdxBondsReal:  100 * math.Pow(1.005, float64(i)),
			IdxCashReal:   100 * math.Pow(1.002, float64(i)),
			IdxGoldReal:   100 * math.Pow(1.003, float64(i)),

			GDPGrowthYoY:      2.5,
			UnemploymentRate:  5.0,
			InflationRateYoY:  3.0,
			FedFundsRate:      4.0,
			IndustrialProdYoY: 1.5,
		})
	}
	return table
}

func jan(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func TestExtractFullWindow(t *testing.T) {
	table := makeTable(jan(1995), 120)
	ext := NewExtractor(testPipelineConfig())

	w, err := ext.Extract(table, jan(2000))
	require.NoError(t, err)

	assert.Len(t, w.Rows, 36)
	assert.Equal(t, jan(2000).AddDate(0, -24, 0), w.Rows[0].Date)
	assert.Equal(t, jan(2000).AddDate(0, 11, 0), w.Rows[35].Date)
}

func TestExtractAnchorNotMonthStart(t *testing.T) {
	table := makeTable(jan(1995), 120)
	ext := NewExtractor(testPipelineConfig())

	mid := time.Date(2000, time.January, 17, 9, 30, 0, 0, time.UTC)
	w, err := ext.Extract(table, mid)
	require.NoError(t, err)
	assert.Equal(t, jan(2000), w.AnchorDate)
	assert.Len(t, w.Rows, 36)
}

func TestExtractToleratesOneMissingMonth(t *testing.T) {
	table := makeTable(jan(1995), 120)
	// Drop one month inside the window
	gap := jan(2000).AddDate(0, -10, 0)
	kept := table.Points[:0]
	for _, p := range table.Points {
		if p.Date.Equal(gap) {
			continue
		}
		kept = append(kept, p)
	}
	table.Points = kept

	ext := NewExtractor(testPipelineConfig())
	w, err := ext.Extract(table, jan(2000))
	require.NoError(t, err)
	assert.Len(t, w.Rows, 35)
}

func TestExtractInsufficientData(t *testing.T) {
	ext := NewExtractor(testPipelineConfig())

	// Anchor too close to the table's start: lookback not covered
	table := makeTable(jan(1995), 120)
	_, err := ext.Extract(table, jan(1996))
	assert.ErrorIs(t, err, ErrInsufficientData)

	// Anchor beyond the table entirely
	_, err = ext.Extract(table, jan(2020))
	assert.ErrorIs(t, err, ErrInsufficientData)

	// Two missing months exceed the tolerance
	table = makeTable(jan(1995), 120)
	gone := map[time.Time]bool{
		jan(2000).AddDate(0, -10, 0): true,
		jan(2000).AddDate(0, 3, 0):   true,
	}
	kept := table.Points[:0]
	for _, p := range table.Points {
		if gone[p.Date] {
			continue
		}
		kept = append(kept, p)
	}
	table.Points = kept

	_, err = ext.Extract(table, jan(2000))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestMonthlyPointsShape(t *testing.T) {
	table := makeTable(jan(1995), 120)
	ext := NewExtractor(testPipelineConfig())

	w, err := ext.Extract(table, jan(2000))
	require.NoError(t, err)

	points, err := w.MonthlyPoints()
	require.NoError(t, err)
	require.Len(t, points, 36)

	for i, p := range points {
		assert.Equal(t, i+1, p.MonthIndex)
		assert.Equal(t, p.MonthIndex > 24, p.IsForward, "month %d", p.MonthIndex)
	}
}

func TestMonthlyPointsRebase(t *testing.T) {
	table := makeTable(jan(1995), 120)
	ext := NewExtractor(testPipelineConfig())

	w, err := ext.Extract(table, jan(2000))
	require.NoError(t, err)

	points, err := w.MonthlyPoints()
	require.NoError(t, err)

	// Every series starts at exactly 100
	first := points[0]
	assert.Equal(t, 100.0, first.IdxStocks)
	assert.Equal(t, 100.0, first.IdxBonds)
	assert.Equal(t, 100.0, first.IdxCash)
	assert.Equal(t, 100.0, first.IdxGold)

	// Rebased value preserves the growth ratio
	assert.InDelta(t, 100*math.Pow(1.010, 35), points[35].IdxStocks, 1e-9)

	// Macro values pass through unindexed
	require.NotNil(t, points[10].UnemploymentRate)
	assert.Equal(t, 5.0, *points[10].UnemploymentRate)
}

func TestMonthlyPointsMissingMacroIsNil(t *testing.T) {
	table := makeTable(jan(1995), 120)
	for i := range table.Points {
		table.Points[i].GDPGrowthYoY = marketdata.Missing
	}
	ext := NewExtractor(testPipelineConfig())

	w, err := ext.Extract(table, jan(2000))
	require.NoError(t, err)

	points, err := w.MonthlyPoints()
	require.NoError(t, err)
	assert.Nil(t, points[0].GDPGrowthYoY)
	assert.NotNil(t, points[0].FedFundsRate)
}

func TestMonthlyPointsDegenerateBase(t *testing.T) {
	table := makeTable(jan(1995), 120)
	ext := NewExtractor(testPipelineConfig())

	w, err := ext.Extract(table, jan(2000))
	require.NoError(t, err)

	w.Rows[0].IdxGoldReal = 0
	_, err = w.MonthlyPoints()
	assert.ErrorIs(t, err, ErrDegenerateBase)

	w.Rows[0].IdxGoldReal = marketdata.Missing
	_, err = w.MonthlyPoints()
	assert.ErrorIs(t, err, ErrDegenerateBase)
}
