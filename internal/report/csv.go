package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/credi-research/econ-cli/internal/model"
)

// WriteSeriesCSV writes the long-format series table as CSV.
func WriteSeriesCSV(result *model.BatchResult, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"entity", "period", "value"}); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, r := range result.Rows {
		record := []string{
			r.Entity,
			strconv.Itoa(r.Period),
			strconv.FormatFloat(r.Value, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}
