// Package tier loads service tier definitions from YAML and applies their
// limits to audit requests.
package tier

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/selimozcann/seoaudit/internal/audit"
	"github.com/selimozcann/seoaudit/internal/logging"
)

// RateLimits caps usage. A nil limit means unlimited.
type RateLimits struct {
	AuditsPerDay    *int `yaml:"audits_per_day"`
	AuditsPerHour   *int `yaml:"audits_per_hour"`
	KeywordsTracked *int `yaml:"keywords_tracked"`
	Websites        *int `yaml:"websites"`
}

// Features are the switches a tier unlocks.
type Features struct {
	AIInsights            bool `yaml:"ai_insights"`
	LighthouseIntegration bool `yaml:"lighthouse_integration"`
	FullSiteCrawl         bool `yaml:"full_site_crawl"`
	APIAccess             bool `yaml:"api_access"`
	CLIAccess             bool `yaml:"cli_access"`
	PDFReports            bool `yaml:"pdf_reports"`
	WhiteLabel            bool `yaml:"white_label"`
	PrioritySupport       bool `yaml:"priority_support"`
}

type AuditSettings struct {
	MaxPagesPerCrawl   int  `yaml:"max_pages_per_crawl"`
	MaxDepth           int  `yaml:"max_depth"`
	IncludeAIInsights  bool `yaml:"include_ai_insights"`
	ConcurrentRequests int  `yaml:"concurrent_requests"`
}

// Tier is one access level.
type Tier struct {
	Name           string        `yaml:"name"`
	DisplayName    string        `yaml:"display_name"`
	Description    string        `yaml:"description"`
	RateLimits     RateLimits    `yaml:"rate_limits"`
	Features       Features      `yaml:"features"`
	AuditSettings  AuditSettings `yaml:"audit_settings"`
	AllowedDomains []string      `yaml:"allowed_domains"`
	PriceMonthly   *int          `yaml:"price_monthly"`
	PriceAnnually  *int          `yaml:"price_annually"`
}

// CanAuditDomain reports whether host equals or is a subdomain of an allowed
// domain. A tier without allowed_domains accepts every host.
func (t *Tier) CanAuditDomain(host string) bool {
	if t.AllowedDomains == nil {
		return true
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, d := range t.AllowedDomains {
		d = strings.ToLower(d)
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// CheckRateLimit reports whether another audit fits within the limits given
// the usage so far today and in the current hour.
func (t *Tier) CheckRateLimit(usageToday, usageHour int) bool {
	if l := t.RateLimits.AuditsPerDay; l != nil && usageToday >= *l {
		return false
	}
	if l := t.RateLimits.AuditsPerHour; l != nil && usageHour >= *l {
		return false
	}
	return true
}

// Apply filters opts through the tier: narratives are dropped unless the tier
// has the ai_insights feature.
func (t *Tier) Apply(opts audit.Options) audit.Options {
	if !t.Features.AIInsights {
		opts.IncludeNarrative = false
	}
	return opts
}

// Concurrency returns how many audits the tier may run at once.
func (t *Tier) Concurrency() int {
	return max(1, t.AuditSettings.ConcurrentRequests)
}

// Price renders the monthly price for listings.
func (t *Tier) Price() string {
	if t.PriceMonthly == nil || *t.PriceMonthly == 0 {
		return "Free"
	}
	return fmt.Sprintf("$%d/mo", *t.PriceMonthly)
}

// Manager holds every tier loaded from a directory.
type Manager struct {
	tiers map[string]*Tier
}

// Load reads dir/*.yaml and dir/paid/*.yaml. Files that fail to parse or lack
// a name are skipped with a warning.
func Load(dir string) (*Manager, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("tiers directory: %w", err)
	}
	m := &Manager{tiers: make(map[string]*Tier)}
	for _, pattern := range []string{
		filepath.Join(dir, "*.yaml"),
		filepath.Join(dir, "paid", "*.yaml"),
	} {
		files, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
		for _, f := range files {
			t, err := loadFile(f)
			if err != nil {
				logging.Warnf("tiers", "skip %s: %v", f, err)
				continue
			}
			if t == nil {
				continue
			}
			m.tiers[t.Name] = t
		}
	}
	return m, nil
}

func loadFile(path string) (*Tier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t := &Tier{AuditSettings: AuditSettings{MaxPagesPerCrawl: 1, MaxDepth: 1, ConcurrentRequests: 1}}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if t.Name == "" {
		return nil, nil
	}
	if t.DisplayName == "" {
		t.DisplayName = t.Name
	}
	return t, nil
}

// Get returns the named tier.
func (m *Manager) Get(name string) (*Tier, bool) {
	t, ok := m.tiers[name]
	return t, ok
}

// All returns every tier ordered by monthly price, free tiers first, then name.
func (m *Manager) All() []*Tier {
	out := make([]*Tier, 0, len(m.tiers))
	for _, t := range m.tiers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := price(out[i]), price(out[j])
		if pi != pj {
			return pi < pj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Paid returns tiers that carry a monthly price, cheapest first.
func (m *Manager) Paid() []*Tier {
	var out []*Tier
	for _, t := range m.All() {
		if t.PriceMonthly != nil {
			out = append(out, t)
		}
	}
	return out
}

func price(t *Tier) int {
	if t.PriceMonthly == nil {
		return 0
	}
	return *t.PriceMonthly
}
