package scenario

import (
	"fmt"
	"time"

	"github.com/hindsightlab/hindsight/internal/marketdata"
	"github.com/hindsightlab/hindsight/pkg/config"
)

// Window is a contiguous slice of normalized months around an anchor
// date. Rows keep the un-rebased real index values; rebasing happens
// only when the display points are built.
type Window struct {
	AnchorDate time.Time
	Lookback   int
	Forward    int
	Rows       []marketdata.NormalizedPoint
}

// Extractor slices fixed-length scenario windows out of a normalized
// table.
type Extractor struct {
	lookback int
	forward  int
}

// NewExtractor creates a window extractor with the configured lookback
// and forward lengths.
func NewExtractor(cfg config.PipelineConfig) *Extractor {
	return &Extractor{
		lookback: cfg.LookbackMonths,
		forward:  cfg.ForwardMonths,
	}
}

// Extract slices the window [anchor - lookback, anchor + forward - 1]
// inclusive. A single missing month is tolerated for gaps at dataset
// boundaries; anything worse returns ErrInsufficientData.
func (e *Extractor) Extract(table *marketdata.NormalizedTable, anchor time.Time) (*Window, error) {
	anchor = marketdata.MonthStart(anchor)
	start := anchor.AddDate(0, -e.lookback, 0)
	end := anchor.AddDate(0, e.forward-1, 0)

	rows := table.Slice(start, end)

	expected := e.lookback + e.forward
	if len(rows) < expected-1 {
		return nil, fmt.Errorf("%w: got %d months, need %d around %s",
			ErrInsufficientData, len(rows), expected, anchor.Format("2006-01-02"))
	}

	return &Window{
		AnchorDate: anchor,
		Lookback:   e.lookback,
		Forward:    e.forward,
		Rows:       rows,
	}, nil
}

// MonthlyPoints rebases the four asset series to 100 at the window's
// first month and builds the scenario-relative data points. A zero or
// missing first value cannot be rebased and returns ErrDegenerateBase.
func (w *Window) MonthlyPoints() ([]MonthlyDataPoint, error) {
	if len(w.Rows) == 0 {
		return nil, ErrInsufficientData
	}

	first := w.Rows[0]
	bases := []struct {
		name string
		val  float64
	}{
		{"stocks", first.IdxStocksReal},
		{"bonds", first.IdxBondsReal},
		{"cash", first.IdxCashReal},
		{"gold", first.IdxGoldReal},
	}
	for _, b := range bases {
		if b.val == 0 || marketdata.IsMissing(b.val) {
			return nil, fmt.Errorf("%w: %s at %s",
				ErrDegenerateBase, b.name, first.Date.Format("2006-01-02"))
		}
	}

	points := make([]MonthlyDataPoint, 0, len(w.Rows))
	for i, row := range w.Rows {
		monthIndex := i + 1
		points = append(points, MonthlyDataPoint{
			MonthIndex: monthIndex,
			IsForward:  monthIndex > w.Lookback,

			IdxStocks: row.IdxStocksReal / first.IdxStocksReal * 100,
			IdxBonds:  row.IdxBondsReal / first.IdxBondsReal * 100,
			IdxCash:   row.IdxCashReal / first.IdxCashReal * 100,
			IdxGold:   row.IdxGoldReal / first.IdxGoldReal * 100,

			GDPGrowthYoY:      nullable(row.GDPGrowthYoY),
			UnemploymentRate:  nullable(row.UnemploymentRate),
			InflationRateYoY:  nullable(row.InflationRateYoY),
			FedFundsRate:      nullable(row.FedFundsRate),
			IndustrialProdYoY: nullable(row.IndustrialProdYoY),
		})
	}

	return points, nil
}

// nullable converts a missing observation to nil instead of NaN.
func nullable(v float64) *float64 {
	if marketdata.IsMissing(v) {
		return nil
	}
	return &v
}
