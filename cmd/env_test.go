package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credi-research/econ-cli/internal/config"
)

func setTestConfig(t *testing.T) {
	t.Helper()
	prev := cfg
	cfg = &config.Config{
		Batch: config.BatchConfig{
			Indicator: "NY.GDP.MKTP.CD",
			StartYear: 2010,
			EndYear:   2023,
		},
	}
	t.Cleanup(func() { cfg = prev })
}

func TestBatchParams_Defaults(t *testing.T) {
	setTestConfig(t)
	cat := config.DefaultCatalog()

	indicator, periodRange := batchParams(cat, "", 0, 0)

	assert.Equal(t, "NY.GDP.MKTP.CD", indicator.Code)
	assert.Equal(t, "GDP (current US$)", indicator.Name)
	assert.Equal(t, 2010, periodRange.Start)
	assert.Equal(t, 2023, periodRange.End)
}

func TestBatchParams_FlagsOverrideConfig(t *testing.T) {
	setTestConfig(t)
	cat := config.DefaultCatalog()

	indicator, periodRange := batchParams(cat, "FP.CPI.TOTL.ZG", 2015, 2020)

	assert.Equal(t, "FP.CPI.TOTL.ZG", indicator.Code)
	assert.Equal(t, 2015, periodRange.Start)
	assert.Equal(t, 2020, periodRange.End)
}

func TestBatchParams_UnknownIndicatorPassesThrough(t *testing.T) {
	setTestConfig(t)
	cat := config.DefaultCatalog()

	indicator, _ := batchParams(cat, "AG.LND.FRST.ZS", 0, 0)

	assert.Equal(t, "AG.LND.FRST.ZS", indicator.Code)
	assert.Equal(t, "AG.LND.FRST.ZS", indicator.Name)
}

func TestFindEntity(t *testing.T) {
	cat := config.DefaultCatalog()

	tests := []struct {
		query string
		want  string
	}{
		{"Albania", "Albania"},
		{"albania", "Albania"},
		{"AL", "Albania"},
		{"alb", "Albania"},
		{"xk", "Kosovo"},
		{"North Macedonia", "North Macedonia"},
	}
	for _, tt := range tests {
		e, ok := findEntity(cat, tt.query)
		require.True(t, ok, "query %q", tt.query)
		assert.Equal(t, tt.want, e.Name)
	}

	_, ok := findEntity(cat, "Atlantis")
	assert.False(t, ok)
}
