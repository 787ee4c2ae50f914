package cmd

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/selimozcann/seoaudit/internal/tier"
)

var (
	tiersDir  string
	tiersPaid bool
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List available service tiers and their features",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := tiersDir
		if dir == "" {
			dir = cfg.TiersDir
		}
		m, err := tier.Load(dir)
		if err != nil {
			return err
		}
		all := m.All()
		if tiersPaid {
			all = m.Paid()
		}
		if len(all) == 0 {
			return fmt.Errorf("no tiers found in %s", dir)
		}

		w := cmd.OutOrStdout()
		bold := color.New(color.Bold)
		fmt.Fprintln(w)
		bold.Fprintln(w, "Available Tiers:")
		fmt.Fprintln(w)
		for _, t := range all {
			bold.Fprintf(w, "%s (%s)\n", t.DisplayName, t.Price())
			fmt.Fprintf(w, "  %s\n", t.Description)
			fmt.Fprintln(w, "  Features:")
			fmt.Fprintf(w, "    AI Insights:     %s\n", yesNo(t.Features.AIInsights))
			fmt.Fprintf(w, "    Lighthouse:      %s\n", yesNo(t.Features.LighthouseIntegration))
			fmt.Fprintf(w, "    Full Site Crawl: %s\n", yesNo(t.Features.FullSiteCrawl))
			fmt.Fprintf(w, "    API Access:      %s\n", yesNo(t.Features.APIAccess))
			fmt.Fprintf(w, "    White Label:     %s\n", yesNo(t.Features.WhiteLabel))
			fmt.Fprintln(w, "  Limits:")
			fmt.Fprintf(w, "    Audits/Day:      %s\n", limit(t.RateLimits.AuditsPerDay))
			fmt.Fprintf(w, "    Keywords:        %s\n", limit(t.RateLimits.KeywordsTracked))
			fmt.Fprintf(w, "    Websites:        %s\n", limit(t.RateLimits.Websites))
			if t.AllowedDomains != nil {
				fmt.Fprintf(w, "    Domains:         %v\n", t.AllowedDomains)
			}
			fmt.Fprintln(w)
		}
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func limit(v *int) string {
	if v == nil || *v == 0 {
		return "Unlimited"
	}
	return strconv.Itoa(*v)
}

func init() {
	tiersCmd.Flags().StringVar(&tiersDir, "dir", "", "Tiers directory (default from config)")
	tiersCmd.Flags().BoolVar(&tiersPaid, "paid", false, "Only list paid tiers")
	rootCmd.AddCommand(tiersCmd)
}
