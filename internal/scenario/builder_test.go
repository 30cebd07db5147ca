package scenario

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hindsightlab/hindsight/pkg/config"
	"github.com/hindsightlab/hindsight/pkg/logger"
)

type fakeStore struct {
	cleared  bool
	inserted []*Scenario
}

func (f *fakeStore) ClearAll(ctx context.Context) error {
	f.cleared = true
	return nil
}

func (f *fakeStore) Insert(ctx context.Context, s *Scenario) error {
	s.ID = int64(len(f.inserted) + 1)
	f.inserted = append(f.inserted, s)
	return nil
}

func testBuilderConfig() *config.Config {
	return &config.Config{
		Env:       "development",
		Pipeline:  testPipelineConfig(),
		Scoring:   testScoringConfig(),
		LogLevel:  "error",
		LogFormat: "json",
	}
}

func newTestBuilder(store Store) *Builder {
	cfg := testBuilderConfig()
	return NewBuilder(cfg, store, logger.New(cfg))
}

func TestBuildScenario(t *testing.T) {
	table := makeTable(jan(1995), 120)
	b := newTestBuilder(&fakeStore{})

	spec := AnchorSpec{Date: jan(2000), Context: "Dot-com Peak"}
	s, err := b.Build(table, spec, "Scenario A")
	require.NoError(t, err)

	assert.Equal(t, jan(2000), s.AnchorDate)
	assert.Equal(t, "Scenario A", s.DisplayLabel)
	assert.Equal(t, "Dot-com Peak", s.HistoricalContext)
	assert.Len(t, s.Months, 36)
	assert.Greater(t, s.ForwardReturns.Stocks, 0.0)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestGenerateStoresAndSkips(t *testing.T) {
	table := makeTable(jan(1995), 120)
	store := &fakeStore{}
	b := newTestBuilder(store)

	specs := []AnchorSpec{
		{Date: jan(1973), Context: "Oil Crisis & Stagflation"}, // before the table
		{Date: jan(2000), Context: "Dot-com Peak"},
		{Date: jan(2002), Context: "Post Dot-com Recovery"},
		{Date: jan(2020), Context: "Pre-COVID Peak"}, // after the table
	}

	stored, err := b.Generate(context.Background(), table, specs, false)
	require.NoError(t, err)

	assert.Equal(t, 2, stored)
	require.Len(t, store.inserted, 2)

	// Labels follow the anchor's list position, skipped candidates included
	assert.Equal(t, "Scenario B", store.inserted[0].DisplayLabel)
	assert.Equal(t, "Scenario C", store.inserted[1].DisplayLabel)
	assert.False(t, store.cleared)
}

func TestGenerateClearExisting(t *testing.T) {
	table := makeTable(jan(1995), 120)
	store := &fakeStore{}
	b := newTestBuilder(store)

	stored, err := b.Generate(context.Background(), table,
		[]AnchorSpec{{Date: jan(2000)}}, true)
	require.NoError(t, err)

	assert.True(t, store.cleared)
	assert.Equal(t, 1, stored)
}

func TestDefaultAnchors(t *testing.T) {
	anchors := DefaultAnchors()
	require.Len(t, anchors, 16)

	for i, a := range anchors {
		assert.Equal(t, 1, a.Date.Day(), "anchor %d must be a month start", i)
		assert.Equal(t, time.UTC, a.Date.Location())
		assert.NotEmpty(t, a.Context)
		if i > 0 {
			assert.True(t, anchors[i-1].Date.Before(a.Date), "anchors must be ordered")
		}
	}
}

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "Scenario A", displayLabel(0))
	assert.Equal(t, "Scenario P", displayLabel(15))
	assert.Equal(t, "Scenario Z", displayLabel(25))
	assert.Equal(t, "Scenario AA", displayLabel(26))
	assert.Equal(t, "Scenario AB", displayLabel(27))
}

func TestForwardMonthlyReturnsFromStoredPoints(t *testing.T) {
	table := makeTable(jan(1995), 120)
	b := newTestBuilder(&fakeStore{})

	s, err := b.Build(table, AnchorSpec{Date: jan(2000)}, "Scenario A")
	require.NoError(t, err)

	series := s.ForwardMonthlyReturns()
	require.Len(t, series.Stocks, 12)
	for _, r := range series.Stocks {
		assert.InDelta(t, 0.010, r, 1e-9)
	}
	for _, r := range series.Cash {
		assert.InDelta(t, 0.002, r, 1e-9)
	}
}
