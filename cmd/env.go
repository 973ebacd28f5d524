package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/credi-research/econ-cli/internal/batch"
	"github.com/credi-research/econ-cli/internal/cache"
	"github.com/credi-research/econ-cli/internal/config"
	"github.com/credi-research/econ-cli/internal/model"
	"github.com/credi-research/econ-cli/internal/store"
	"github.com/credi-research/econ-cli/pkg/worldbank"
)

// initStore opens the configured run-history backend and migrates it.
func initStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	var err error

	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		st, err = store.NewSQLite(cfg.Store.Path)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// newFetcher builds the cached World Bank fetcher from config.
func newFetcher() *batch.WorldBankFetcher {
	client := worldbank.NewClient(
		worldbank.WithBaseURL(cfg.WorldBank.BaseURL),
		worldbank.WithTimeout(time.Duration(cfg.WorldBank.TimeoutSecs)*time.Second),
		worldbank.WithRateLimit(cfg.WorldBank.RateLimit),
		worldbank.WithMaxRetries(cfg.WorldBank.MaxRetries),
	)
	seriesCache := cache.New(time.Duration(cfg.Cache.TTLSecs)*time.Second, cfg.Cache.MaxEntries)
	return batch.NewWorldBankFetcher(client, seriesCache)
}

// batchParams resolves the indicator and period range for a batch run,
// preferring explicit flag values over config defaults.
func batchParams(cat config.Catalog, indicatorCode string, start, end int) (model.Indicator, model.PeriodRange) {
	if indicatorCode == "" {
		indicatorCode = cfg.Batch.Indicator
	}
	if start == 0 {
		start = cfg.Batch.StartYear
	}
	if end == 0 {
		end = cfg.Batch.EndYear
	}

	indicator, ok := cat.Indicator(indicatorCode)
	if !ok {
		// Allow codes outside the catalog; the API decides whether they
		// exist.
		indicator = model.Indicator{Name: indicatorCode, Code: indicatorCode}
	}

	return indicator, model.PeriodRange{Start: start, End: end}
}
