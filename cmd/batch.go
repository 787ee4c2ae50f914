package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/selimozcann/seoaudit/internal/audit"
	"github.com/selimozcann/seoaudit/internal/model"
	"github.com/selimozcann/seoaudit/internal/output"
	"github.com/selimozcann/seoaudit/internal/runner"
)

type batchOptions struct {
	client      clientFlags
	file        string
	threads     int
	rateLimit   int
	ai          bool
	silent      bool
	outputJSONL string
	outputHTML  string
	record      bool
}

var batchOpts batchOptions

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Audit every URL listed in a file concurrently",
	Example: `  seoaudit batch -f urls.txt -t 10 -o results.jsonl --html report.html
  seoaudit batch -f urls.txt --tier starter`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, batchOpts)
	},
}

func runBatch(cmd *cobra.Command, opts batchOptions) error {
	if opts.file == "" {
		return errors.New("-f (URL list) is required")
	}
	if opts.threads < 0 {
		return fmt.Errorf("-t must be >= 0 (got %d)", opts.threads)
	}
	if opts.rateLimit < 0 {
		return fmt.Errorf("--rl must be >= 0 (got %d)", opts.rateLimit)
	}

	targets, err := loadTargets(opts.file)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.New("no targets in URL list")
	}

	threads := opts.threads
	if threads == 0 {
		threads = cfg.Concurrency
	}
	runOpts := audit.Options{IncludeNarrative: opts.ai}
	t, err := opts.client.resolveTier(targets)
	if err != nil {
		return err
	}
	if t != nil {
		runOpts = t.Apply(runOpts)
		threads = min(threads, t.Concurrency())
	}

	ctx := cmd.Context()
	auditor, closeFn, err := newAuditor(ctx, &opts.client, runOpts.IncludeNarrative)
	if err != nil {
		return err
	}
	defer closeFn()

	printBanner()
	fmt.Fprintf(os.Stderr, "[config] targets=%d threads=%d rate-limit=%d\n", len(targets), threads, opts.rateLimit)

	var jsonl *output.JSONLWriter
	if opts.outputJSONL != "" {
		if err := ensureDir(opts.outputJSONL); err != nil {
			return fmt.Errorf("create JSONL directory: %w", err)
		}
		f, err := os.Create(opts.outputJSONL)
		if err != nil {
			return fmt.Errorf("create JSONL file: %w", err)
		}
		defer f.Close()
		jsonl = output.NewJSONLWriter(f)
	}

	out := cmd.OutOrStdout()
	var (
		mu       sync.Mutex
		writeErr error
	)
	r := runner.New(runner.Config{
		Threads:   threads,
		RateLimit: opts.rateLimit,
		Options:   runOpts,
		OnResult: func(_ int, res model.AuditResult) {
			mu.Lock()
			defer mu.Unlock()
			if !opts.silent {
				output.PrintSummaryLine(out, res)
			}
			if jsonl != nil {
				if err := jsonl.Write(res); err != nil && writeErr == nil {
					writeErr = err
				}
			}
		},
	}, auditor)
	results := r.Run(ctx, targets)
	if jsonl != nil {
		if err := jsonl.Close(); err != nil {
			return fmt.Errorf("write JSONL: %w", err)
		}
		if writeErr != nil {
			return fmt.Errorf("write JSONL: %w", writeErr)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	summary := output.BuildSummary(results)
	fmt.Fprintf(os.Stderr, "[done] %d targets, average score %d, %d with issues, %d fetch errors\n",
		summary.TotalTargets, summary.AverageScore, summary.WithIssues, summary.Errors)

	if opts.outputHTML != "" {
		views := make([]output.ResultView, len(results))
		for i, res := range results {
			views[i] = output.BuildResultView(i, res)
		}
		page := output.PageData{
			Title:       "SEO Batch Audit Report",
			GeneratedAt: time.Now().UTC(),
			Params: map[string]string{
				"input":      opts.file,
				"threads":    strconv.Itoa(threads),
				"rate_limit": strconv.Itoa(opts.rateLimit),
				"ai":         strconv.FormatBool(runOpts.IncludeNarrative),
				"targets":    strconv.Itoa(len(targets)),
			},
			Summary: summary,
			Results: views,
		}
		if t != nil {
			page.Params["tier"] = t.Name
		}
		if err := writeHTMLFile(opts.outputHTML, page); err != nil {
			return err
		}
	}
	if opts.record || t != nil {
		for _, res := range results {
			if err := recordHistory(res); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	batchOpts.client.register(batchCmd)
	batchCmd.Flags().StringVarP(&batchOpts.file, "file", "f", "", "File with one URL per line")
	batchCmd.Flags().IntVarP(&batchOpts.threads, "threads", "t", 0, "Concurrent audits (default from config)")
	batchCmd.Flags().IntVar(&batchOpts.rateLimit, "rl", 0, "Audits started per second, 0 = unlimited")
	batchCmd.Flags().BoolVar(&batchOpts.ai, "ai", false, "Include AI-powered insights")
	batchCmd.Flags().BoolVar(&batchOpts.silent, "silent", false, "Suppress per-target lines")
	batchCmd.Flags().StringVarP(&batchOpts.outputJSONL, "output", "o", "", "JSONL output file")
	batchCmd.Flags().StringVar(&batchOpts.outputHTML, "html", "", "HTML report output file")
	batchCmd.Flags().BoolVar(&batchOpts.record, "history", false, "Record every run in the history index")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
