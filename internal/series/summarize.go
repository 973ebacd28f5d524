// Package series computes descriptive statistics over indicator time series.
package series

import (
	"github.com/credi-research/econ-cli/internal/model"
)

// Summarize computes mean, min, max, and the latest observation of a series.
// It returns nil for an empty series; callers exclude such entities rather
// than report zero-filled statistics.
func Summarize(entityName string, s model.Series) *model.Summary {
	if len(s) == 0 {
		return nil
	}

	sum := model.Summary{
		Entity:       entityName,
		Min:          s[0].Value,
		Max:          s[0].Value,
		Latest:       s[0].Value,
		LatestPeriod: s[0].Period,
	}

	var total float64
	for _, obs := range s {
		total += obs.Value
		if obs.Value < sum.Min {
			sum.Min = obs.Value
		}
		if obs.Value > sum.Max {
			sum.Max = obs.Value
		}
		if obs.Period > sum.LatestPeriod {
			sum.LatestPeriod = obs.Period
			sum.Latest = obs.Value
		}
	}
	sum.Mean = total / float64(len(s))

	return &sum
}
