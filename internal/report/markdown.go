// Package report renders batch results as Markdown, XLSX workbooks, and CSV.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/credi-research/econ-cli/internal/model"
)

// FormatMarkdown renders a batch result as a Markdown report with a summary
// table and the skipped-entity list.
func FormatMarkdown(result *model.BatchResult) string {
	var b strings.Builder
	p := message.NewPrinter(language.English)

	fmt.Fprintf(&b, "# Indicator Report: %s\n\n", result.Indicator.Name)
	fmt.Fprintf(&b, "Indicator `%s`, period %d-%d. %d of %d entities summarized.\n\n",
		result.Indicator.Code, result.Range.Start, result.Range.End,
		len(result.Summaries), len(result.Summaries)+len(result.Skipped))

	b.WriteString("## Summary\n\n")
	if len(result.Summaries) == 0 {
		b.WriteString("No entities produced observations in the requested range.\n\n")
	} else {
		b.WriteString("| Entity | Mean | Min | Max | Latest | Latest Period |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, s := range result.Summaries {
			// Years stay unformatted; the grouped-digit printer only
			// applies to values.
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %d |\n",
				s.Entity,
				p.Sprintf("%.2f", s.Mean),
				p.Sprintf("%.2f", s.Min),
				p.Sprintf("%.2f", s.Max),
				p.Sprintf("%.2f", s.Latest),
				s.LatestPeriod)
		}
		b.WriteString("\n")
	}

	if len(result.Skipped) > 0 {
		b.WriteString("## Skipped\n\n")
		for _, sk := range result.Skipped {
			fmt.Fprintf(&b, "- %s: %s\n", sk.Entity, sk.Reason)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Generated %s.\n", result.FinishedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	return b.String()
}
