package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/selimozcann/seoaudit/internal/config"
	"github.com/selimozcann/seoaudit/internal/insight"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (providers, models, keys)",
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Set the API key for a provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		key, _ := cmd.Flags().GetString("key")
		provider = strings.ToLower(provider)

		if provider == "" || key == "" {
			return fmt.Errorf("--provider and --key are required")
		}
		if !slices.Contains(insight.Providers, provider) {
			return fmt.Errorf("unknown provider %q (want one of %s)", provider, strings.Join(insight.Providers, ", "))
		}

		cfg.SetAPIKey(provider, key)
		if err := config.Save(configPath, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API key saved for provider: %s\n", provider)
		return nil
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model",
	Short: "Set the active provider and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")
		provider = strings.ToLower(provider)

		if provider != "" {
			if !slices.Contains(insight.Providers, provider) {
				return fmt.Errorf("unknown provider %q (want one of %s)", provider, strings.Join(insight.Providers, ", "))
			}
			if provider != cfg.SelectedProvider && model == "" {
				cfg.SelectedModel = ""
			}
			cfg.SelectedProvider = provider
		}
		if model != "" {
			cfg.SelectedModel = model
		}

		if err := config.Save(configPath, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active configuration updated: Provider=%s, Model=%s\n", cfg.SelectedProvider, cfg.SelectedModel)
		return nil
	},
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List available models from the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := cfg.SelectedProvider
		apiKey := cfg.APIKey(provider)
		if apiKey == "" {
			return fmt.Errorf("no API key found for %s", provider)
		}

		ctx := cmd.Context()
		p, err := insight.NewProvider(ctx, provider, apiKey, "")
		if err != nil {
			return fmt.Errorf("initializing provider: %w", err)
		}
		if c, ok := p.(interface{ Close() error }); ok {
			defer c.Close()
		}
		lister, ok := p.(insight.ModelLister)
		if !ok {
			return fmt.Errorf("provider %s cannot list models", provider)
		}
		models, err := lister.ListModels(ctx)
		if err != nil {
			return fmt.Errorf("fetching models: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Available Models (%s):\n", provider)
		for _, m := range models {
			mark := " "
			if m == cfg.SelectedModel {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %s\n", mark, m)
		}
		return nil
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with keys masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "provider:    %s\n", cfg.SelectedProvider)
		fmt.Fprintf(w, "model:       %s\n", cfg.SelectedModel)
		for _, p := range insight.Providers {
			fmt.Fprintf(w, "%-12s %s\n", p+" key:", mask(cfg.APIKey(p)))
		}
		fmt.Fprintf(w, "timeout:     %s\n", cfg.HTTP.Timeout)
		fmt.Fprintf(w, "user agent:  %s\n", cfg.HTTP.UserAgent)
		fmt.Fprintf(w, "retries:     %d\n", cfg.HTTP.Retries)
		fmt.Fprintf(w, "concurrency: %d\n", cfg.Concurrency)
		fmt.Fprintf(w, "tiers dir:   %s\n", cfg.TiersDir)
		if dir, err := cfg.HistoryRoot(); err == nil {
			fmt.Fprintf(w, "history dir: %s\n", dir)
		}
		return nil
	},
}

func mask(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 8:
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func init() {
	setKeyCmd.Flags().StringP("provider", "p", "", "Provider (anthropic, gemini)")
	setKeyCmd.Flags().StringP("key", "k", "", "API Key")

	setModelCmd.Flags().StringP("provider", "p", "", "Provider (anthropic, gemini)")
	setModelCmd.Flags().StringP("model", "m", "", "Model name")

	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(setModelCmd)
	configCmd.AddCommand(listModelsCmd)
	configCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(configCmd)
}
