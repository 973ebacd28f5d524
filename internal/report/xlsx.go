package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/credi-research/econ-cli/internal/model"
)

// WriteXLSX writes a batch result as a two-sheet workbook: Summary holds the
// per-entity statistics, Series the long-format observation rows.
func WriteXLSX(result *model.BatchResult, path string) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	header := summary.AddRow()
	for _, h := range []string{"Entity", "Mean", "Min", "Max", "Latest", "Latest Period"} {
		header.AddCell().SetString(h)
	}
	for _, s := range result.Summaries {
		row := summary.AddRow()
		row.AddCell().SetString(s.Entity)
		row.AddCell().SetFloat(s.Mean)
		row.AddCell().SetFloat(s.Min)
		row.AddCell().SetFloat(s.Max)
		row.AddCell().SetFloat(s.Latest)
		row.AddCell().SetInt(s.LatestPeriod)
	}

	series, err := f.AddSheet("Series")
	if err != nil {
		return eris.Wrap(err, "report: add series sheet")
	}

	header = series.AddRow()
	for _, h := range []string{"Entity", "Period", "Value"} {
		header.AddCell().SetString(h)
	}
	for _, r := range result.Rows {
		row := series.AddRow()
		row.AddCell().SetString(r.Entity)
		row.AddCell().SetInt(r.Period)
		row.AddCell().SetFloat(r.Value)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}
