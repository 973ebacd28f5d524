package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/credi-research/econ-cli/internal/config"
)

// cfg and catalog are loaded once before any subcommand runs. The catalog is
// static for the life of the process.
var (
	cfg     *config.Config
	catalog config.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "econ-cli",
	Short: "Batch economic indicator summarizer",
	Long:  "Fetches World Bank indicator series for a configured country list, computes per-country statistics, and aggregates them into summary and long-format tables.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		cat, err := config.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			return eris.Wrap(err, "load catalog")
		}
		catalog = cat

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
