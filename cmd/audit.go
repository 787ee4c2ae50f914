package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/selimozcann/seoaudit/internal/audit"
	"github.com/selimozcann/seoaudit/internal/history"
	"github.com/selimozcann/seoaudit/internal/logging"
	"github.com/selimozcann/seoaudit/internal/model"
	"github.com/selimozcann/seoaudit/internal/output"
)

type auditOptions struct {
	client clientFlags
	format string
	ai     bool
	save   string
	html   string
	record bool
}

var auditOpts auditOptions

var auditCmd = &cobra.Command{
	Use:   "audit <url>",
	Short: "Audit a single URL for SEO issues",
	Example: `  seoaudit audit https://example.com
  seoaudit audit example.com --ai -v
  seoaudit audit https://example.com -o json -s results.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAudit(cmd, args[0], auditOpts)
	},
}

func runAudit(cmd *cobra.Command, rawURL string, opts auditOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	target, err := normalizeURL(rawURL)
	if err != nil {
		return err
	}
	t, err := opts.client.resolveTier([]string{target})
	if err != nil {
		return err
	}
	runOpts := audit.Options{IncludeNarrative: opts.ai}
	if t != nil {
		runOpts = t.Apply(runOpts)
		if opts.ai && !runOpts.IncludeNarrative {
			logging.Warnf("tier", "%s does not include AI insights", t.DisplayName)
		}
	}

	ctx := cmd.Context()
	auditor, closeFn, err := newAuditor(ctx, &opts.client, runOpts.IncludeNarrative)
	if err != nil {
		return err
	}
	defer closeFn()

	if opts.format == "text" {
		printBanner()
	}
	fmt.Fprintf(os.Stderr, "Auditing %s...\n", target)
	res := auditor.Audit(ctx, target, runOpts)

	out := cmd.OutOrStdout()
	if opts.format == "json" && opts.save == "" {
		if err := output.WriteJSON(out, res); err != nil {
			return err
		}
	} else if opts.format == "text" {
		output.PrintResult(out, res, verbose)
	}
	if opts.save != "" {
		if err := writeJSONFile(opts.save, res); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Results saved to %s\n", opts.save)
	}
	if opts.html != "" {
		page := output.PageData{
			Title:       "SEO Audit Report",
			GeneratedAt: time.Now().UTC(),
			Params:      map[string]string{"target": target, "ai": fmt.Sprint(runOpts.IncludeNarrative)},
			Summary:     output.BuildSummary([]model.AuditResult{res}),
			Results:     []output.ResultView{output.BuildResultView(0, res)},
		}
		if err := writeHTMLFile(opts.html, page); err != nil {
			return err
		}
	}
	if opts.record || t != nil {
		if err := recordHistory(res); err != nil {
			return err
		}
	}

	if res.IssuesFound > 0 {
		return errIssuesFound
	}
	return nil
}

func recordHistory(res model.AuditResult) error {
	dir, err := cfg.HistoryRoot()
	if err != nil {
		return err
	}
	tr, err := history.Record(dir, res)
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	if tr.Previous < 0 {
		fmt.Fprintf(os.Stderr, "[history] %s: %s (score %d)\n", res.URL, tr.Label, tr.Current)
	} else {
		fmt.Fprintf(os.Stderr, "[history] %s: %s (%d -> %d, %+d)\n", res.URL, tr.Label, tr.Previous, tr.Current, tr.Delta)
	}
	return nil
}

func init() {
	auditOpts.client.register(auditCmd)
	auditCmd.Flags().StringVarP(&auditOpts.format, "output", "o", "text", "Output format (text, json)")
	auditCmd.Flags().BoolVar(&auditOpts.ai, "ai", false, "Include AI-powered insights")
	auditCmd.Flags().StringVarP(&auditOpts.save, "save", "s", "", "Save JSON results to file")
	auditCmd.Flags().StringVar(&auditOpts.html, "html", "", "HTML report output file")
	auditCmd.Flags().BoolVar(&auditOpts.record, "history", false, "Record the run in the history index")
	rootCmd.AddCommand(auditCmd)
}
