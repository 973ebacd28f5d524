package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/credi-research/econ-cli/internal/config"
	"github.com/credi-research/econ-cli/internal/model"
	"github.com/credi-research/econ-cli/internal/series"
)

var (
	runEntity    string
	runIndicator string
	runStartYear int
	runEndYear   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch and summarize one country's indicator series",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		entity, ok := findEntity(catalog, runEntity)
		if !ok {
			return eris.Errorf("unknown country %q (use a catalog name or ISO code)", runEntity)
		}

		indicator, periodRange := batchParams(catalog, runIndicator, runStartYear, runEndYear)
		if err := periodRange.Validate(); err != nil {
			return err
		}

		s, err := newFetcher().FetchSeries(ctx, entity, indicator, periodRange)
		if err != nil {
			return eris.Wrapf(err, "fetch %s", entity.Name)
		}

		sum := series.Summarize(entity.Name, s)
		if sum == nil {
			zap.L().Warn("no observations in range",
				zap.String("entity", entity.Name),
				zap.String("indicator", indicator.Code),
			)
		}

		out := struct {
			Entity    model.Entity      `json:"entity"`
			Indicator model.Indicator   `json:"indicator"`
			Range     model.PeriodRange `json:"range"`
			Summary   *model.Summary    `json:"summary"`
			Series    model.Series      `json:"series"`
		}{entity, indicator, periodRange, sum, s}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

// findEntity matches by name, ISO2, or ISO3, case-insensitively.
func findEntity(cat config.Catalog, query string) (model.Entity, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, e := range cat.Entities {
		if strings.ToLower(e.Name) == q ||
			strings.ToLower(e.ISO2) == q ||
			strings.ToLower(e.ISO3) == q {
			return e, true
		}
	}
	return model.Entity{}, false
}

func init() {
	runCmd.Flags().StringVar(&runEntity, "country", "", "country name or ISO code (required)")
	runCmd.Flags().StringVar(&runIndicator, "indicator", "", "indicator code (default from config)")
	runCmd.Flags().IntVar(&runStartYear, "start", 0, "first year of the period range (default from config)")
	runCmd.Flags().IntVar(&runEndYear, "end", 0, "last year of the period range (default from config)")
	_ = runCmd.MarkFlagRequired("country")
	rootCmd.AddCommand(runCmd)
}
