// Package batch runs the aggregation loop: fetch one indicator series per
// entity, summarize each, and collect summary and long-format tables.
package batch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/credi-research/econ-cli/internal/model"
	"github.com/credi-research/econ-cli/internal/series"
	"github.com/credi-research/econ-cli/pkg/worldbank"
)

// ErrInvalidConfig marks a batch configuration problem detected before any
// entity is processed.
var ErrInvalidConfig = eris.New("batch: invalid configuration")

// SeriesFetcher loads one entity's indicator series.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, entity model.Entity, indicator model.Indicator, r model.PeriodRange) (model.Series, error)
}

// ProgressFunc is called after each entity finishes, with the number of
// completed entities and the total. completed/total is monotonically
// non-decreasing and reaches exactly total once.
type ProgressFunc func(completed, total int)

// Options tunes a Runner.
type Options struct {
	// MaxConcurrent bounds concurrent fetches. Values <= 1 run entities
	// sequentially in configuration order.
	MaxConcurrent int

	// OnProgress, when non-nil, receives progress updates.
	OnProgress ProgressFunc
}

// Runner executes batch aggregations.
type Runner struct {
	fetcher SeriesFetcher
	opts    Options
}

// NewRunner creates a Runner over the given fetcher.
func NewRunner(fetcher SeriesFetcher, opts Options) *Runner {
	return &Runner{fetcher: fetcher, opts: opts}
}

// entityOutcome is the per-entity fetch result. Exactly one of summary or
// skip reason is set.
type entityOutcome struct {
	summary *model.Summary
	rows    []model.SeriesRow
	skip    model.SkipReason
}

// Run fetches and summarizes every entity. One entity's failure never aborts
// the batch; failed entities are reported in the result's Skipped list.
// Configuration problems fail immediately with ErrInvalidConfig.
func (r *Runner) Run(ctx context.Context, entities []model.Entity, indicator model.Indicator, periodRange model.PeriodRange) (*model.BatchResult, error) {
	if len(entities) == 0 {
		return nil, eris.Wrap(ErrInvalidConfig, "entity list is empty")
	}
	if indicator.Code == "" {
		return nil, eris.Wrap(ErrInvalidConfig, "indicator code is required")
	}
	if err := periodRange.Validate(); err != nil {
		return nil, eris.Wrapf(ErrInvalidConfig, "%v", err)
	}

	log := zap.L().With(
		zap.String("indicator", indicator.Code),
		zap.Int("start", periodRange.Start),
		zap.Int("end", periodRange.End),
	)
	log.Info("starting batch", zap.Int("entities", len(entities)))

	result := &model.BatchResult{
		Indicator: indicator,
		Range:     periodRange,
		StartedAt: time.Now().UTC(),
	}

	outcomes, err := r.collect(ctx, entities, indicator, periodRange)
	if err != nil {
		return nil, err
	}

	// Assemble tables in configuration order regardless of fetch order.
	for i, entity := range entities {
		o := outcomes[i]
		if o.skip != "" {
			result.Skipped = append(result.Skipped, model.SkippedEntity{
				Entity: entity.Name,
				Reason: o.skip,
			})
			continue
		}
		result.Summaries = append(result.Summaries, *o.summary)
		result.Rows = append(result.Rows, o.rows...)
	}
	result.FinishedAt = time.Now().UTC()

	log.Info("batch complete",
		zap.Int("summarized", len(result.Summaries)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// collect fetches all entities, sequentially or with a bounded worker pool.
func (r *Runner) collect(ctx context.Context, entities []model.Entity, indicator model.Indicator, periodRange model.PeriodRange) ([]entityOutcome, error) {
	outcomes := make([]entityOutcome, len(entities))
	total := len(entities)

	var mu sync.Mutex
	completed := 0
	reportProgress := func() {
		if r.opts.OnProgress == nil {
			return
		}
		mu.Lock()
		completed++
		done := completed
		mu.Unlock()
		r.opts.OnProgress(done, total)
	}

	if r.opts.MaxConcurrent <= 1 {
		for i, entity := range entities {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = r.processEntity(ctx, entity, indicator, periodRange)
			reportProgress()
		}
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.MaxConcurrent)
	for i, entity := range entities {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.processEntity(gctx, entity, indicator, periodRange)
			reportProgress()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// processEntity fetches and summarizes one entity. Fetch failures and empty
// series become skip outcomes, never errors.
func (r *Runner) processEntity(ctx context.Context, entity model.Entity, indicator model.Indicator, periodRange model.PeriodRange) entityOutcome {
	log := zap.L().With(zap.String("entity", entity.Name))

	s, err := r.fetcher.FetchSeries(ctx, entity, indicator, periodRange)
	if err != nil {
		if !errors.Is(err, worldbank.ErrSourceUnavailable) {
			log.Warn("unexpected fetch error, skipping entity", zap.Error(err))
		} else {
			log.Warn("source unavailable, skipping entity", zap.Error(err))
		}
		return entityOutcome{skip: model.SkipSourceUnavailable}
	}

	sum := series.Summarize(entity.Name, s)
	if sum == nil {
		log.Info("no observations in range, skipping entity")
		return entityOutcome{skip: model.SkipNoObservations}
	}

	rows := make([]model.SeriesRow, 0, len(s))
	for _, obs := range s {
		rows = append(rows, model.SeriesRow{
			Entity: entity.Name,
			Period: obs.Period,
			Value:  obs.Value,
		})
	}

	return entityOutcome{summary: sum, rows: rows}
}
