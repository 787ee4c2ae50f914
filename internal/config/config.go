// Package config reads and writes the seoaudit YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/selimozcann/seoaudit/internal/httpclient"
	"github.com/selimozcann/seoaudit/internal/insight"
)

const (
	dirName  = ".seoaudit"
	fileName = "config.yaml"

	DefaultConcurrency = 5
	DefaultUserAgent   = "seoaudit/1.0"
)

// EnvKeys maps a provider to the environment variable that supplies its key
// when the file has none.
var EnvKeys = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GOOGLE_API_KEY",
}

type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
}

type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Retries   int           `yaml:"retries"`
	Insecure  bool          `yaml:"insecure"`
}

type Config struct {
	SelectedProvider string                    `yaml:"selected_provider"`
	SelectedModel    string                    `yaml:"selected_model"`
	Providers        map[string]ProviderConfig `yaml:"providers"`
	HTTP             HTTPConfig                `yaml:"http"`
	Concurrency      int                       `yaml:"concurrency"`
	TiersDir         string                    `yaml:"tiers_dir"`
	HistoryDir       string                    `yaml:"history_dir"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		SelectedProvider: "anthropic",
		SelectedModel:    insight.DefaultAnthropicModel,
		Providers:        make(map[string]ProviderConfig),
		HTTP: HTTPConfig{
			Timeout:   httpclient.DefaultTimeout,
			UserAgent: DefaultUserAgent,
		},
		Concurrency: DefaultConcurrency,
		TiersDir:    "tiers",
	}
}

// Dir returns ~/.seoaudit.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath returns ~/.seoaudit/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads path, or the default path when empty. A missing file yields
// Default(). Zero values in the file fall back to the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes cfg to path, or the default path when empty. The file holds
// API keys, so it is created 0600 inside a 0700 directory.
func Save(path string, cfg *Config) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.SelectedProvider == "" {
		c.SelectedProvider = d.SelectedProvider
	}
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = d.HTTP.Timeout
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = d.HTTP.UserAgent
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.TiersDir == "" {
		c.TiersDir = d.TiersDir
	}
}

// Validate rejects settings no command can work with.
func (c *Config) Validate() error {
	if _, ok := EnvKeys[c.SelectedProvider]; !ok {
		return fmt.Errorf("unknown provider %q", c.SelectedProvider)
	}
	if c.HTTP.Retries < 0 {
		return fmt.Errorf("http.retries must be >= 0 (got %d)", c.HTTP.Retries)
	}
	return nil
}

func (c *Config) SetAPIKey(provider, key string) {
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	p := c.Providers[provider]
	p.APIKey = key
	c.Providers[provider] = p
}

// APIKey returns the stored key for provider, falling back to its
// environment variable.
func (c *Config) APIKey(provider string) string {
	if k := c.Providers[provider].APIKey; k != "" {
		return k
	}
	if env, ok := EnvKeys[provider]; ok {
		return os.Getenv(env)
	}
	return ""
}

// HistoryRoot returns the directory that holds history/index.json.
func (c *Config) HistoryRoot() (string, error) {
	if c.HistoryDir != "" {
		return c.HistoryDir, nil
	}
	return Dir()
}

// HTTPClient converts the http section into a client configuration.
func (c *Config) HTTPClient() httpclient.Config {
	return httpclient.Config{
		Timeout:         c.HTTP.Timeout,
		UserAgent:       c.HTTP.UserAgent,
		Retries:         c.HTTP.Retries,
		Insecure:        c.HTTP.Insecure,
		FollowRedirects: true,
	}
}
