package batch

import (
	"context"
	"fmt"

	"github.com/credi-research/econ-cli/internal/cache"
	"github.com/credi-research/econ-cli/internal/model"
	"github.com/credi-research/econ-cli/pkg/worldbank"
)

// WorldBankFetcher adapts the World Bank client to the SeriesFetcher
// interface, reading through the series cache when one is configured.
type WorldBankFetcher struct {
	client worldbank.Client
	cache  *cache.SeriesCache
}

// NewWorldBankFetcher creates a fetcher. cache may be nil to disable caching.
func NewWorldBankFetcher(client worldbank.Client, c *cache.SeriesCache) *WorldBankFetcher {
	return &WorldBankFetcher{client: client, cache: c}
}

func (f *WorldBankFetcher) FetchSeries(ctx context.Context, entity model.Entity, indicator model.Indicator, r model.PeriodRange) (model.Series, error) {
	fetch := func(ctx context.Context) (model.Series, error) {
		obs, err := f.client.FetchSeries(ctx, entity.ISO2, indicator.Code, r.Start, r.End)
		if err != nil {
			return nil, err
		}
		s := make(model.Series, 0, len(obs))
		for _, o := range obs {
			s = append(s, model.Observation{Period: o.Year, Value: o.Value})
		}
		return s, nil
	}

	if f.cache == nil {
		return fetch(ctx)
	}
	return f.cache.GetOrFetch(ctx, seriesKey(entity, indicator, r), fetch)
}

// seriesKey identifies one cached series by entity, indicator, and range.
func seriesKey(entity model.Entity, indicator model.Indicator, r model.PeriodRange) string {
	return fmt.Sprintf("%s|%s|%d-%d", entity.ISO2, indicator.Code, r.Start, r.End)
}
