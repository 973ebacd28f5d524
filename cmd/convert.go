package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/credi-research/econ-cli/pkg/frankfurter"
)

var convertCmd = &cobra.Command{
	Use:   "convert <amount> <from> <to>",
	Short: "Convert an amount between currencies at the latest rate",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return eris.Wrapf(err, "parse amount %q", args[0])
		}

		client := frankfurter.NewClient(
			frankfurter.WithBaseURL(cfg.Frankfurter.BaseURL),
			frankfurter.WithTimeout(time.Duration(cfg.Frankfurter.TimeoutSecs)*time.Second),
		)

		conv, err := client.Latest(cmd.Context(), args[1], args[2], amount)
		if err != nil {
			return err
		}

		fmt.Printf("%.2f %s = %.2f %s (rate %.6f, as of %s)\n",
			conv.Amount, conv.From, conv.Converted, conv.To, conv.Rate, conv.Date)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
