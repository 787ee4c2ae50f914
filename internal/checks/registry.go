// Package checks holds the fixed, ordered battery of SEO checks. Every check
// is a pure function of a parsed page; adding or removing one means editing
// the battery slice below.
package checks

import (
	"fmt"
	"math"

	"github.com/selimozcann/seoaudit/internal/htmlscan"
	"github.com/selimozcann/seoaudit/internal/model"
)

// Info is the static metadata shown next to a check result.
type Info struct {
	Category    model.Category
	Title       string
	Description string
}

var registry = map[string]Info{
	"https":             {model.CategoryConfiguration, "HTTPS Enabled", "Site should use HTTPS for security and SEO ranking"},
	"robots_txt":        {model.CategoryConfiguration, "Robots.txt Present", "robots.txt file guides search engine crawlers"},
	"sitemap":           {model.CategoryConfiguration, "Sitemap Present", "XML sitemap helps search engines discover pages"},
	"noindex":           {model.CategoryConfiguration, "No Noindex Directive", "Page should not have noindex if it should be indexed"},
	"canonical":         {model.CategoryConfiguration, "Canonical URL Set", "Canonical tag prevents duplicate content issues"},
	"title":             {model.CategoryMeta, "Page Title", "Title should be 30-60 characters for optimal display"},
	"meta_description":  {model.CategoryMeta, "Meta Description", "Description should be 120-160 characters"},
	"og_tags":           {model.CategoryMeta, "Open Graph Tags", "OG tags improve social media sharing appearance"},
	"twitter_tags":      {model.CategoryMeta, "Twitter Card Tags", "Twitter cards improve Twitter sharing appearance"},
	"lang_attribute":    {model.CategoryMeta, "Language Attribute", "HTML lang attribute helps with accessibility and SEO"},
	"viewport":          {model.CategoryMeta, "Viewport Meta Tag", "Viewport tag enables mobile responsiveness"},
	"h1_tag":            {model.CategoryContent, "H1 Tag Present", "Page should have exactly one H1 tag"},
	"heading_structure": {model.CategoryContent, "Heading Hierarchy", "Headings should follow proper hierarchy (H1 > H2 > H3)"},
	"image_alt":         {model.CategoryContent, "Image Alt Attributes", "All images should have descriptive alt text"},
	"content_length":    {model.CategoryContent, "Content Length", "Page should have at least 300 words of content"},
	"ttfb":              {model.CategoryPerformance, "Time to First Byte", "TTFB should be under 600ms for good performance"},
	"page_size":         {model.CategoryPerformance, "Page Size", "Total page size should be under 3MB"},
	"gzip_compression":  {model.CategoryPerformance, "Compression Enabled", "GZIP or Brotli compression should be enabled"},
}

// Lookup returns the metadata registered for name.
func Lookup(name string) (Info, bool) {
	info, ok := registry[name]
	return info, ok
}

// Check binds a registered name to its evaluation function.
type Check struct {
	Name string
	Run  func(*htmlscan.Page) model.CheckResult
}

// battery order is the result order: configuration, meta, content, performance.
var battery = []Check{
	{"https", HTTPS},
	{"robots_txt", RobotsTxt},
	{"sitemap", Sitemap},
	{"noindex", Noindex},
	{"canonical", Canonical},
	{"title", Title},
	{"meta_description", MetaDescription},
	{"og_tags", OpenGraph},
	{"twitter_tags", TwitterCards},
	{"lang_attribute", LangAttribute},
	{"viewport", Viewport},
	{"h1_tag", H1},
	{"heading_structure", HeadingStructure},
	{"image_alt", ImageAlt},
	{"content_length", ContentLength},
	{"ttfb", TTFB},
	{"page_size", PageSize},
	{"gzip_compression", Compression},
}

// Battery returns a copy of the ordered check list.
func Battery() []Check {
	out := make([]Check, len(battery))
	copy(out, battery)
	return out
}

// Run evaluates the whole battery against p in order. A check that panics is
// recorded as failed instead of aborting the run.
func Run(p *htmlscan.Page) []model.CheckResult {
	out := make([]model.CheckResult, 0, len(battery))
	for _, c := range battery {
		out = append(out, runOne(c, p))
	}
	return out
}

func runOne(c Check, p *htmlscan.Page) (res model.CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			res = newResult(c.Name, false, 0, model.SeverityError)
			res.CurrentValue = fmt.Sprintf("check failed: %v", r)
		}
	}()
	return c.Run(p)
}

// newResult fills the registry metadata. Severity is info whenever the check
// passed; failSeverity applies otherwise.
func newResult(name string, passed bool, score int, failSeverity model.Severity) model.CheckResult {
	info := registry[name]
	sev := model.SeverityInfo
	if !passed {
		sev = failSeverity
	}
	return model.CheckResult{
		Name:        name,
		Category:    info.Category,
		Passed:      passed,
		Score:       clamp(score),
		Title:       info.Title,
		Description: info.Description,
		Severity:    sev,
	}
}

// binary is the score of a pass/fail check.
func binary(passed bool) int {
	if passed {
		return 100
	}
	return 0
}

// percent rounds num/den*100 half away from zero.
func percent(num, den float64) int {
	return int(math.Round(num / den * 100))
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
