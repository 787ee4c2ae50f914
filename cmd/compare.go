package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/selimozcann/seoaudit/internal/audit"
	"github.com/selimozcann/seoaudit/internal/model"
	"github.com/selimozcann/seoaudit/internal/output"
)

type compareOptions struct {
	client clientFlags
	format string
}

var compareOpts compareOptions

var compareCmd = &cobra.Command{
	Use:     "compare <url1> <url2>",
	Short:   "Compare SEO scores between two URLs",
	Example: "  seoaudit compare https://example.com https://competitor.com",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd, args[0], args[1], compareOpts)
	},
}

func runCompare(cmd *cobra.Command, raw1, raw2 string, opts compareOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	url1, err := normalizeURL(raw1)
	if err != nil {
		return err
	}
	url2, err := normalizeURL(raw2)
	if err != nil {
		return err
	}
	t, err := opts.client.resolveTier([]string{url1, url2})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	auditor, closeFn, err := newAuditor(ctx, &opts.client, false)
	if err != nil {
		return err
	}
	defer closeFn()

	if opts.format == "text" {
		printBanner()
	}
	fmt.Fprintf(os.Stderr, "Comparing %s vs %s...\n", url1, url2)

	var res1, res2 model.AuditResult
	var g errgroup.Group
	g.Go(func() error {
		res1 = auditor.Audit(ctx, url1, audit.Options{})
		return nil
	})
	g.Go(func() error {
		res2 = auditor.Audit(ctx, url2, audit.Options{})
		return nil
	})
	_ = g.Wait()

	if t != nil {
		for _, res := range []model.AuditResult{res1, res2} {
			if err := recordHistory(res); err != nil {
				return err
			}
		}
	}

	c := output.Compare(res1, res2)
	if opts.format == "json" {
		return output.WriteJSON(cmd.OutOrStdout(), c)
	}
	output.PrintComparison(cmd.OutOrStdout(), c)
	return nil
}

func init() {
	compareOpts.client.register(compareCmd)
	compareCmd.Flags().StringVarP(&compareOpts.format, "output", "o", "text", "Output format (text, json)")
	rootCmd.AddCommand(compareCmd)
}
