package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hindsightlab/hindsight/internal/marketdata"
	"github.com/hindsightlab/hindsight/internal/normalize"
	"github.com/hindsightlab/hindsight/internal/scenario"
	"github.com/hindsightlab/hindsight/pkg/config"
	"github.com/hindsightlab/hindsight/pkg/logger"
)

// ErrRefreshRunning means a refresh was triggered while the previous
// one is still in flight.
var ErrRefreshRunning = errors.New("dataset refresh already running")

// RefreshJob re-runs the whole pipeline when the ingestion job drops a
// new raw dataset: normalize, then regenerate every scenario. Runs are
// mutually exclusive; an overlapping trigger fails fast instead of
// stacking.
type RefreshJob struct {
	cfg   *config.Config
	store scenario.Store
	log   *logger.Logger

	running sync.Mutex
}

// NewRefreshJob creates the dataset refresh job.
func NewRefreshJob(cfg *config.Config, store scenario.Store, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		cfg:   cfg,
		store: store,
		log:   log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "dataset_refresh"
}

// Schedule returns the configured cron expression
func (j *RefreshJob) Schedule() string {
	return j.cfg.Pipeline.RefreshCron
}

// Run executes one full refresh: load raw CSV, normalize, clear and
// regenerate all scenarios.
func (j *RefreshJob) Run(ctx context.Context) error {
	if !j.running.TryLock() {
		return ErrRefreshRunning
	}
	defer j.running.Unlock()

	raw, err := marketdata.LoadRawCSV(j.cfg.Pipeline.RawDataPath)
	if err != nil {
		return fmt.Errorf("load raw data: %w", err)
	}
	j.log.WithField("rows", raw.Len()).Info("raw dataset loaded")

	normalized, err := normalize.New(j.cfg.Pipeline, j.log).Normalize(raw)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	j.log.WithField("rows", normalized.Len()).Info("dataset normalized")

	builder := scenario.NewBuilder(j.cfg, j.store, j.log)
	stored, err := builder.Generate(ctx, normalized, scenario.DefaultAnchors(), true)
	if err != nil {
		return fmt.Errorf("generate scenarios: %w", err)
	}

	j.log.WithField("scenarios", stored).Info("dataset refresh finished")
	return nil
}
