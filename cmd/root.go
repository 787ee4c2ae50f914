package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/selimozcann/seoaudit/internal/config"
	"github.com/selimozcann/seoaudit/internal/logging"
)

// Version is stamped at build time with -ldflags.
var Version = "1.0.0"

var (
	configPath string
	verbose    bool
	debugMode  bool
	noBanner   bool

	cfg *config.Config
)

// errIssuesFound makes the process exit 1 without printing an error.
var errIssuesFound = errors.New("issues found")

var rootCmd = &cobra.Command{
	Use:     "seoaudit",
	Short:   "Audit web pages for SEO issues",
	Long:    "seoaudit fetches a page, runs a fixed battery of configuration, meta, content and performance checks, and scores the result.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Verbose = verbose || debugMode
		logging.DebugEnabled = debugMode
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		cfg = c
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errIssuesFound) {
			fmt.Fprintf(os.Stderr, "[-] Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.seoaudit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output and detailed check listings")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noBanner, "no-banner", false, "Do not print the banner")
}
