package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/selimozcann/seoaudit/internal/audit"
	"github.com/selimozcann/seoaudit/internal/banner"
	"github.com/selimozcann/seoaudit/internal/history"
	"github.com/selimozcann/seoaudit/internal/httpclient"
	"github.com/selimozcann/seoaudit/internal/insight"
	"github.com/selimozcann/seoaudit/internal/logging"
	"github.com/selimozcann/seoaudit/internal/output"
	"github.com/selimozcann/seoaudit/internal/tier"
)

// clientFlags are the HTTP settings shared by every auditing command.
type clientFlags struct {
	headers   []string
	cookie    string
	proxy     string
	userAgent string
	timeout   time.Duration
	retries   int
	insecure  bool
	tierName  string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, "Extra HTTP header (repeatable)")
	cmd.Flags().StringVar(&f.cookie, "cookie", "", "Cookie header")
	cmd.Flags().StringVar(&f.proxy, "proxy", "", "HTTP(S) proxy URL")
	cmd.Flags().StringVar(&f.userAgent, "user-agent", "", "User-Agent header (default from config)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Per-request timeout (default from config, 30s)")
	cmd.Flags().IntVar(&f.retries, "retries", -1, "Retry count (default from config)")
	cmd.Flags().BoolVar(&f.insecure, "insecure", false, "Skip TLS verification")
	cmd.Flags().StringVar(&f.tierName, "tier", "", "Apply the limits of a service tier")
}

// httpConfig merges the flags over the config file.
func (f *clientFlags) httpConfig() (httpclient.Config, error) {
	hc := cfg.HTTPClient()
	if f.timeout < 0 {
		return hc, fmt.Errorf("--timeout must be > 0 (got %s)", f.timeout)
	}
	if f.timeout > 0 {
		hc.Timeout = f.timeout
	}
	if f.retries >= 0 {
		hc.Retries = f.retries
	}
	if f.userAgent != "" {
		hc.UserAgent = f.userAgent
	}
	if f.insecure {
		hc.Insecure = true
	}
	hc.Cookie = f.cookie

	hdr, err := toHeader(f.headers)
	if err != nil {
		return hc, err
	}
	hc.Headers = hdr

	if f.proxy != "" {
		proxyURL, perr := url.Parse(f.proxy)
		if perr != nil {
			return hc, fmt.Errorf("invalid proxy URL: %w", perr)
		}
		hc.Proxy = http.ProxyURL(proxyURL)
	}
	return hc, nil
}

// newAuditor builds the auditor and, when a narrative is wanted, the insight
// generator. The returned close func releases the provider client.
func newAuditor(ctx context.Context, f *clientFlags, narrative bool) (*audit.Auditor, func(), error) {
	hc, err := f.httpConfig()
	if err != nil {
		return nil, nil, err
	}
	opts := []audit.Option{audit.WithFetcher(httpclient.NewFetcher(hc))}
	closer := func() {}

	if narrative {
		provider, err := insight.NewProvider(ctx, cfg.SelectedProvider, cfg.APIKey(cfg.SelectedProvider), modelFor(cfg.SelectedProvider))
		if err != nil {
			return nil, nil, err
		}
		if provider == nil {
			logging.Warnf("config", "no API key for %s, AI insights disabled", cfg.SelectedProvider)
		}
		gen := insight.New(provider)
		closer = func() { _ = gen.Close() }
		opts = append(opts, audit.WithInsight(gen))
	}
	logging.Infof("config", "timeout=%s retries=%d provider=%s narrative=%t", hc.Timeout, hc.Retries, cfg.SelectedProvider, narrative)
	return audit.New(opts...), closer, nil
}

// modelFor returns the configured model when it belongs to provider.
func modelFor(provider string) string {
	m := cfg.SelectedModel
	switch provider {
	case "gemini":
		if strings.HasPrefix(m, "gemini") {
			return m
		}
	case "anthropic":
		if strings.HasPrefix(m, "claude") {
			return m
		}
	}
	return ""
}

// resolveTier loads --tier, if set, and checks that it may audit targets
// within its rate limits.
func (f *clientFlags) resolveTier(targets []string) (*tier.Tier, error) {
	if f.tierName == "" {
		return nil, nil
	}
	m, err := tier.Load(cfg.TiersDir)
	if err != nil {
		return nil, err
	}
	t, ok := m.Get(f.tierName)
	if !ok {
		return nil, fmt.Errorf("unknown tier %q", f.tierName)
	}
	for _, target := range targets {
		u, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("invalid URL %q: %w", target, err)
		}
		if !t.CanAuditDomain(u.Hostname()) {
			return nil, fmt.Errorf("tier %s may not audit %s", t.Name, u.Hostname())
		}
	}
	if err := checkQuota(t, len(targets), time.Now().UTC()); err != nil {
		return nil, err
	}
	return t, nil
}

// checkQuota refuses a run of n audits that would exceed the tier's rate
// limits. Usage comes from the history index, which tier runs always record to.
func checkQuota(t *tier.Tier, n int, now time.Time) error {
	dir, err := cfg.HistoryRoot()
	if err != nil {
		return err
	}
	idx, err := history.Load(dir)
	if err != nil {
		return err
	}
	day, hour := idx.Usage(now)
	if !t.CheckRateLimit(day+n-1, hour+n-1) {
		return fmt.Errorf("tier %s rate limit reached (%d audits in the last 24h, %d in the last hour, %d requested)", t.Name, day, hour, n)
	}
	return nil
}

// normalizeURL prepends https:// when the scheme is missing.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty URL")
	}
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return raw, nil
}

func toHeader(headers []string) (http.Header, error) {
	hdr := make(http.Header)
	for _, h := range headers {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid header %q (expected Key: Value)", h)
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			return nil, fmt.Errorf("invalid header %q (empty key)", h)
		}
		hdr.Add(key, value)
	}
	return hdr, nil
}

// loadTargets reads one URL per line, skipping blanks and # comments.
func loadTargets(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list %q: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	var targets []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		target, err := normalizeURL(line)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("URL list read error: %w", err)
	}
	return targets, nil
}

func printBanner() {
	if noBanner {
		return
	}
	banner.Print(os.Stderr, Version)
}

func writeJSONFile(path string, v any) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create JSON directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer f.Close()
	if err := output.WriteJSON(f, v); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	logging.Infof("write", "JSON report -> %s", path)
	return nil
}

func writeHTMLFile(path string, page output.PageData) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create HTML directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create HTML file: %w", err)
	}
	defer f.Close()
	if err := output.RenderHTML(f, page); err != nil {
		return fmt.Errorf("write HTML: %w", err)
	}
	logging.Infof("write", "HTML report -> %s", path)
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func validateFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("--output must be text or json (got %q)", format)
}
