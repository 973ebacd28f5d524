package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/credi-research/econ-cli/internal/batch"
	"github.com/credi-research/econ-cli/internal/report"
)

var (
	batchIndicator   string
	batchStartYear   int
	batchEndYear     int
	batchConcurrency int
	batchNoSave      bool
	batchXLSXOut     string
	batchCSVOut      string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Fetch and summarize the indicator for every configured country",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		indicator, periodRange := batchParams(catalog, batchIndicator, batchStartYear, batchEndYear)

		concurrency := batchConcurrency
		if concurrency == 0 {
			concurrency = cfg.Batch.MaxConcurrent
		}

		runner := batch.NewRunner(newFetcher(), batch.Options{
			MaxConcurrent: concurrency,
			OnProgress: func(completed, total int) {
				fmt.Fprintf(os.Stderr, "\rprocessed %d/%d countries", completed, total)
				if completed == total {
					fmt.Fprintln(os.Stderr)
				}
			},
		})

		result, err := runner.Run(ctx, catalog.Entities, indicator, periodRange)
		if err != nil {
			return eris.Wrap(err, "batch run")
		}

		if !batchNoSave {
			run, err := st.SaveRun(ctx, *result)
			if err != nil {
				return eris.Wrap(err, "save run")
			}
			zap.L().Info("run saved", zap.String("run_id", run.ID))
		}

		if batchXLSXOut != "" {
			if err := report.WriteXLSX(result, batchXLSXOut); err != nil {
				return err
			}
		}
		if batchCSVOut != "" {
			f, err := os.Create(batchCSVOut)
			if err != nil {
				return eris.Wrapf(err, "create %s", batchCSVOut)
			}
			defer f.Close()
			if err := report.WriteSeriesCSV(result, f); err != nil {
				return err
			}
		}

		fmt.Print(report.FormatMarkdown(result))
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchIndicator, "indicator", "", "indicator code (default from config)")
	batchCmd.Flags().IntVar(&batchStartYear, "start", 0, "first year of the period range (default from config)")
	batchCmd.Flags().IntVar(&batchEndYear, "end", 0, "last year of the period range (default from config)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max concurrent fetches (default from config)")
	batchCmd.Flags().BoolVar(&batchNoSave, "no-save", false, "skip persisting the run")
	batchCmd.Flags().StringVar(&batchXLSXOut, "xlsx", "", "write an XLSX report to this path")
	batchCmd.Flags().StringVar(&batchCSVOut, "csv", "", "write the long-format series as CSV to this path")
	rootCmd.AddCommand(batchCmd)
}
