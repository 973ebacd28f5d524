package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/credi-research/econ-cli/internal/model"
	"github.com/credi-research/econ-cli/internal/report"
)

var (
	reportRunID  string
	reportFormat string
	reportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a stored batch run as Markdown, XLSX, or CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		var run *model.Run
		if reportRunID != "" {
			run, err = st.GetRun(ctx, reportRunID)
		} else {
			run, err = st.LatestRun(ctx)
		}
		if err != nil {
			return eris.Wrap(err, "load run")
		}

		switch reportFormat {
		case "md", "markdown":
			md := report.FormatMarkdown(&run.Result)
			if reportOut == "" {
				fmt.Print(md)
				return nil
			}
			if err := os.WriteFile(reportOut, []byte(md), 0o644); err != nil {
				return eris.Wrapf(err, "write %s", reportOut)
			}
		case "xlsx":
			out := reportOut
			if out == "" {
				out = filepath.Join(cfg.Report.Dir, fmt.Sprintf("run-%s.xlsx", run.ID))
				if err := os.MkdirAll(cfg.Report.Dir, 0o755); err != nil {
					return eris.Wrapf(err, "create %s", cfg.Report.Dir)
				}
			}
			if err := report.WriteXLSX(&run.Result, out); err != nil {
				return err
			}
			zap.L().Info("report written", zap.String("path", out))
		case "csv":
			w := os.Stdout
			if reportOut != "" {
				f, err := os.Create(reportOut)
				if err != nil {
					return eris.Wrapf(err, "create %s", reportOut)
				}
				defer f.Close()
				w = f
			}
			if err := report.WriteSeriesCSV(&run.Result, w); err != nil {
				return err
			}
		default:
			return eris.Errorf("unknown format %q (want md, xlsx, or csv)", reportFormat)
		}

		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportRunID, "run", "", "run ID (default: latest run)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "output format: md, xlsx, or csv")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output path (default: stdout, or reports dir for xlsx)")
	rootCmd.AddCommand(reportCmd)
}
