package report

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/credi-research/econ-cli/internal/model"
)

func testResult() *model.BatchResult {
	return &model.BatchResult{
		Indicator: model.Indicator{Name: "GDP (current US$)", Code: "NY.GDP.MKTP.CD"},
		Range:     model.PeriodRange{Start: 2016, End: 2023},
		Summaries: []model.Summary{
			{Entity: "Albania", Mean: 15000000.5, Min: 10000000, Max: 20000000, Latest: 20000000, LatestPeriod: 2021},
			{Entity: "Serbia", Mean: 50.25, Min: 40, Max: 60, Latest: 55.5, LatestPeriod: 2023},
		},
		Rows: []model.SeriesRow{
			{Entity: "Albania", Period: 2019, Value: 10000000},
			{Entity: "Albania", Period: 2021, Value: 20000000},
			{Entity: "Serbia", Period: 2023, Value: 55.5},
		},
		Skipped: []model.SkippedEntity{
			{Entity: "Kosovo", Reason: model.SkipNoObservations},
			{Entity: "Montenegro", Reason: model.SkipSourceUnavailable},
		},
		StartedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC),
	}
}

func TestFormatMarkdown(t *testing.T) {
	md := FormatMarkdown(testResult())

	assert.Contains(t, md, "# Indicator Report: GDP (current US$)")
	assert.Contains(t, md, "`NY.GDP.MKTP.CD`, period 2016-2023")
	assert.Contains(t, md, "2 of 4 entities summarized")
	assert.Contains(t, md, "| Albania |")
	// Large values are grouped, years are not.
	assert.Contains(t, md, "15,000,000.50")
	assert.Contains(t, md, "| 2021 |")
	assert.Contains(t, md, "- Kosovo: no observations in range")
	assert.Contains(t, md, "- Montenegro: source unavailable")
	assert.Contains(t, md, "Generated 2024-03-01")
}

func TestFormatMarkdown_NoSummaries(t *testing.T) {
	result := testResult()
	result.Summaries = nil
	result.Rows = nil

	md := FormatMarkdown(result)
	assert.Contains(t, md, "No entities produced observations")
}

func TestFormatMarkdown_NoSkipped(t *testing.T) {
	result := testResult()
	result.Skipped = nil

	md := FormatMarkdown(result)
	assert.NotContains(t, md, "## Skipped")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(testResult(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)

	summary := f.Sheets[0]
	assert.Equal(t, "Summary", summary.Name)
	require.Len(t, summary.Rows, 3) // header + 2 entities
	assert.Equal(t, "Entity", summary.Rows[0].Cells[0].String())
	assert.Equal(t, "Albania", summary.Rows[1].Cells[0].String())

	mean, err := summary.Rows[1].Cells[1].Float()
	require.NoError(t, err)
	assert.InDelta(t, 15000000.5, mean, 1e-6)

	series := f.Sheets[1]
	assert.Equal(t, "Series", series.Name)
	require.Len(t, series.Rows, 4) // header + 3 rows
	period, err := series.Rows[1].Cells[1].Int()
	require.NoError(t, err)
	assert.Equal(t, 2019, period)
}

func TestWriteSeriesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(testResult(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, []string{"entity", "period", "value"}, records[0])
	assert.Equal(t, []string{"Albania", "2019", "10000000"}, records[1])
	assert.Equal(t, []string{"Serbia", "2023", "55.5"}, records[3])
}
