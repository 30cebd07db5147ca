package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hindsightlab/hindsight/internal/marketdata"
	"github.com/hindsightlab/hindsight/pkg/config"
	"github.com/hindsightlab/hindsight/pkg/logger"
)

// Store is the persistence surface the builder needs.
type Store interface {
	ClearAll(ctx context.Context) error
	Insert(ctx context.Context, s *Scenario) error
}

// Builder turns anchor dates into persisted scenarios: extract the
// window, rebase the chart series, compute forward metrics, store.
type Builder struct {
	extractor *Extractor
	calc      *Calculator
	store     Store
	log       *logger.Logger
}

// NewBuilder creates a scenario builder.
func NewBuilder(cfg *config.Config, store Store, log *logger.Logger) *Builder {
	return &Builder{
		extractor: NewExtractor(cfg.Pipeline),
		calc:      NewCalculator(cfg.Pipeline, cfg.Scoring),
		store:     store,
		log:       log,
	}
}

// Build assembles a single scenario around one anchor date. It does
// not persist; callers batch through Generate.
func (b *Builder) Build(table *marketdata.NormalizedTable, spec AnchorSpec, label string) (*Scenario, error) {
	window, err := b.extractor.Extract(table, spec.Date)
	if err != nil {
		return nil, err
	}

	points, err := window.MonthlyPoints()
	if err != nil {
		return nil, err
	}

	metrics, err := b.calc.Compute(window)
	if err != nil {
		return nil, err
	}

	return &Scenario{
		AnchorDate:        window.AnchorDate,
		DisplayLabel:      label,
		HistoricalContext: spec.Context,

		ForwardReturns:    metrics.Returns,
		ForwardVolatility: metrics.Volatility,

		BenchmarkReturn: metrics.BenchmarkReturn,
		BenchmarkSharpe: metrics.BenchmarkSharpe,

		Months:    points,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Generate builds and persists scenarios for all anchor specs.
// Candidates that fail with a pipeline sentinel error are skipped and
// logged; any other failure aborts the batch. Returns the number of
// scenarios stored.
func (b *Builder) Generate(ctx context.Context, table *marketdata.NormalizedTable, specs []AnchorSpec, clearExisting bool) (int, error) {
	if clearExisting {
		if err := b.store.ClearAll(ctx); err != nil {
			return 0, fmt.Errorf("clear existing scenarios: %w", err)
		}
		b.log.Info("cleared existing scenarios")
	}

	stored := 0
	for i, spec := range specs {
		label := displayLabel(i)
		log := b.log.WithFields(map[string]interface{}{
			"anchor": spec.Date.Format("2006-01-02"),
			"label":  label,
		})

		s, err := b.Build(table, spec, label)
		if err != nil {
			if isSkippable(err) {
				log.WithError(err).Warn("skipping scenario candidate")
				continue
			}
			return stored, fmt.Errorf("build scenario %s: %w", label, err)
		}

		if err := b.store.Insert(ctx, s); err != nil {
			return stored, fmt.Errorf("insert scenario %s: %w", label, err)
		}

		log.WithField("context", spec.Context).Info("scenario stored")
		stored++
	}

	return stored, nil
}

// isSkippable reports whether a build failure is a data-coverage
// problem for this one candidate rather than a batch-level fault.
func isSkippable(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDegenerateBase) ||
		errors.Is(err, ErrInsufficientForward)
}

// displayLabel maps an anchor index to a neutral label that hides the
// anchor date: "Scenario A", "Scenario B", ...
func displayLabel(i int) string {
	if i < 26 {
		return fmt.Sprintf("Scenario %c", 'A'+i)
	}
	return fmt.Sprintf("Scenario %c%c", 'A'+i/26-1, 'A'+i%26)
}
