package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/selimozcann/seoaudit/internal/history"
	"github.com/selimozcann/seoaudit/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history [url]",
	Short: "Show recorded audit runs and their trend",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := cfg.HistoryRoot()
		if err != nil {
			return err
		}
		idx, err := history.Load(dir)
		if err != nil {
			return err
		}
		entries := idx.Entries
		if len(args) == 1 {
			target, err := normalizeURL(args[0])
			if err != nil {
				return err
			}
			entries = idx.For(target)
		}

		w := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(w, "No audits recorded.")
			return nil
		}
		fmt.Fprintf(w, "%-22s %-9s %7s %7s %9s  %s\n", "Timestamp", "Trend", "Score", "Issues", "Warnings", "URL")
		last := map[string]int{}
		for _, e := range entries {
			prev, ok := last[e.URL]
			if !ok {
				prev = -1
			}
			tr := history.Compute(prev, e.Overall)
			last[e.URL] = e.Overall
			fmt.Fprintf(w, "%-22s %-9s %s %7d %9d  %s\n",
				e.TimestampUTC, tr.Label, pad(output.FormatScore(e.Overall), e.Overall, 7), e.Issues, e.Warnings, e.URL)
		}
		return nil
	},
}

// pad right-aligns a coloured score using its plain width.
func pad(colored string, v, width int) string {
	plain := fmt.Sprint(v)
	for i := len(plain); i < width; i++ {
		colored = " " + colored
	}
	return colored
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
