package main

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/credi-research/econ-cli/internal/textstats"
)

var (
	analyzeFile       string
	analyzeMinWordLen int
	analyzeTopN       int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run text analytics over headlines (one per line)",
	Long:  "Tokenizes the input, filters stopwords, counts unigrams and bigrams, and scores per-line sentiment. Reads from --file or stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = os.Stdin
		if analyzeFile != "" {
			f, err := os.Open(analyzeFile)
			if err != nil {
				return eris.Wrapf(err, "open %s", analyzeFile)
			}
			defer f.Close()
			r = f
		}

		lines, err := readLines(r)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return eris.New("no input lines to analyze")
		}

		analysis := textstats.Analyze(lines, analyzeMinWordLen, analyzeTopN)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	},
}

// readLines collects non-empty trimmed lines from r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "read input")
	}
	return lines, nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "input file (default: stdin)")
	analyzeCmd.Flags().IntVar(&analyzeMinWordLen, "min-word-len", textstats.DefaultMinWordLength, "minimum token length kept after filtering")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top", 10, "number of top terms and bigrams to report")
	rootCmd.AddCommand(analyzeCmd)
}
