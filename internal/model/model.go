// Package model defines the core domain types shared across the CLI:
// entities (countries), indicators, time series, summaries, and batch results.
package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// Entity is a country tracked by the batch aggregator.
type Entity struct {
	Name string `json:"name" yaml:"name"`
	ISO2 string `json:"iso2" yaml:"iso2"`
	ISO3 string `json:"iso3" yaml:"iso3"`
}

// Indicator is a World Bank indicator series definition.
type Indicator struct {
	Name string `json:"name" yaml:"name"`
	Code string `json:"code" yaml:"code"`
}

// PeriodRange is an inclusive year range [Start, End].
type PeriodRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Validate checks that the range is well-formed.
func (r PeriodRange) Validate() error {
	if r.Start <= 0 || r.End <= 0 {
		return eris.Errorf("period range must use positive years, got [%d, %d]", r.Start, r.End)
	}
	if r.Start > r.End {
		return eris.Errorf("period range start %d is after end %d", r.Start, r.End)
	}
	return nil
}

// Contains reports whether the year falls inside the inclusive range.
func (r PeriodRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// Observation is a single (period, value) point in a series. Absent source
// values are dropped before a series is constructed, so Value is always set.
type Observation struct {
	Period int     `json:"period"`
	Value  float64 `json:"value"`
}

// Series is an indicator time series for one entity, sorted ascending by
// period. An empty series is a valid result, distinct from a fetch failure.
type Series []Observation

// Summary holds descriptive statistics for one entity's series.
type Summary struct {
	Entity       string  `json:"entity"`
	Mean         float64 `json:"mean"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Latest       float64 `json:"latest"`
	LatestPeriod int     `json:"latest_period"`
}

// SeriesRow is one long-format row of the aggregate series table.
type SeriesRow struct {
	Entity string  `json:"entity"`
	Period int     `json:"period"`
	Value  float64 `json:"value"`
}

// SkipReason explains why an entity was excluded from a batch result.
type SkipReason string

const (
	// SkipSourceUnavailable marks an entity whose fetch failed at the
	// transport or parse level.
	SkipSourceUnavailable SkipReason = "source unavailable"
	// SkipNoObservations marks an entity whose series had no observations
	// inside the requested period range.
	SkipNoObservations SkipReason = "no observations in range"
)

// SkippedEntity records one excluded entity and the reason.
type SkippedEntity struct {
	Entity string     `json:"entity"`
	Reason SkipReason `json:"reason"`
}

// BatchResult is the full output of one batch aggregation run.
type BatchResult struct {
	Indicator  Indicator       `json:"indicator"`
	Range      PeriodRange     `json:"range"`
	Summaries  []Summary       `json:"summaries"`
	Rows       []SeriesRow     `json:"rows"`
	Skipped    []SkippedEntity `json:"skipped"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

// Run is a persisted batch run.
type Run struct {
	ID        string      `json:"id"`
	Result    BatchResult `json:"result"`
	CreatedAt time.Time   `json:"created_at"`
}
