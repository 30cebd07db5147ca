package jobs

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hindsightlab/hindsight/internal/scenario"
	"github.com/hindsightlab/hindsight/pkg/config"
	"github.com/hindsightlab/hindsight/pkg/logger"
)

type recordingStore struct {
	cleared  bool
	inserted []*scenario.Scenario

	// when set, ClearAll blocks until released
	entered  chan struct{}
	released chan struct{}
}

func (s *recordingStore) ClearAll(ctx context.Context) error {
	s.cleared = true
	if s.entered != nil {
		close(s.entered)
		<-s.released
	}
	return nil
}

func (s *recordingStore) Insert(ctx context.Context, scn *scenario.Scenario) error {
	s.inserted = append(s.inserted, scn)
	return nil
}

// writeRawCSV writes a synthetic 120-month dataset starting 1995-01.
func writeRawCSV(t *testing.T) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("date,bond_yield_10y,tbill_3m,cpi,gdp_growth,unemployment,fed_funds,industrial_prod,gold,stock_total_return_index\n")

	start := time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		d := start.AddDate(0, i, 0)
		month := float64(i)
		fmt.Fprintf(&b, "%s,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f\n",
			d.Format("2006-01-02"),
			5.0,             // bond yield, flat
			4.0,             // tbill
			150.0+month*0.2, // cpi, steady inflation
			2.5,
			5.0,
			4.5,
			95.0+month*0.1,
			400.0+month,
			1000.0*math.Pow(1.008, month), // stock total return index, rising
		)
	}

	path := filepath.Join(t.TempDir(), "raw_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func refreshConfig(rawPath string) *config.Config {
	return &config.Config{
		Env: "development",
		Pipeline: config.PipelineConfig{
			LookbackMonths:    24,
			ForwardMonths:     12,
			MaxMissingColumns: 3,
			RawDataPath:       rawPath,
			RefreshCron:       "0 3 1 * *",
		},
		Scoring: config.ScoringConfig{
			BenchmarkStocks: 60,
			BenchmarkBonds:  40,
		},
		LogLevel:  "error",
		LogFormat: "json",
	}
}

func TestRefreshJobRun(t *testing.T) {
	cfg := refreshConfig(writeRawCSV(t))
	store := &recordingStore{}
	job := NewRefreshJob(cfg, store, logger.New(cfg))

	assert.Equal(t, "dataset_refresh", job.Name())
	assert.Equal(t, "0 3 1 * *", job.Schedule())

	require.NoError(t, job.Run(context.Background()))

	assert.True(t, store.cleared, "refresh must clear old scenarios")

	// The dataset spans 1995-2004: only the anchors inside it survive
	require.NotEmpty(t, store.inserted)
	for _, s := range store.inserted {
		assert.False(t, s.AnchorDate.Before(time.Date(1997, 1, 1, 0, 0, 0, 0, time.UTC)))
		assert.False(t, s.AnchorDate.After(time.Date(2004, 1, 1, 0, 0, 0, 0, time.UTC)))
		assert.NotEmpty(t, s.Months)
	}
}

func TestRefreshJobMissingFile(t *testing.T) {
	cfg := refreshConfig(filepath.Join(t.TempDir(), "nope.csv"))
	job := NewRefreshJob(cfg, &recordingStore{}, logger.New(cfg))

	assert.Error(t, job.Run(context.Background()))
}

func TestRefreshJobIsExclusive(t *testing.T) {
	cfg := refreshConfig(writeRawCSV(t))
	store := &recordingStore{
		entered:  make(chan struct{}),
		released: make(chan struct{}),
	}
	job := NewRefreshJob(cfg, store, logger.New(cfg))

	done := make(chan error, 1)
	go func() {
		done <- job.Run(context.Background())
	}()

	<-store.entered
	assert.ErrorIs(t, job.Run(context.Background()), ErrRefreshRunning)

	close(store.released)
	require.NoError(t, <-done)
}
