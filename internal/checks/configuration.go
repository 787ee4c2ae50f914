package checks

import (
	"strings"

	"github.com/selimozcann/seoaudit/internal/htmlscan"
	"github.com/selimozcann/seoaudit/internal/model"
)

// Probe names under which the orchestrator records auxiliary fetches.
const (
	RobotsProbe  = "robots.txt"
	SitemapProbe = "sitemap.xml"
)

// ProbePaths maps each probe name to the origin-relative path it fetches.
var ProbePaths = map[string]string{
	RobotsProbe:  "/robots.txt",
	SitemapProbe: "/sitemap.xml",
}

// HTTPS passes when the audited URL uses the https scheme.
func HTTPS(p *htmlscan.Page) model.CheckResult {
	scheme := strings.ToLower(p.URL().Scheme)
	r := newResult("https", scheme == "https", binary(scheme == "https"), model.SeverityError)
	r.CurrentValue = scheme
	r.ExpectedValue = "https"
	return r
}

// RobotsTxt passes when {origin}/robots.txt answered 200.
func RobotsTxt(p *htmlscan.Page) model.CheckResult {
	return probeCheck("robots_txt", RobotsProbe, p)
}

// Sitemap passes when {origin}/sitemap.xml answered 200.
func Sitemap(p *htmlscan.Page) model.CheckResult {
	return probeCheck("sitemap", SitemapProbe, p)
}

// probeCheck treats a missing or errored probe as a plain failure.
func probeCheck(name, probe string, p *htmlscan.Page) model.CheckResult {
	pr, ok := p.Probe(probe)
	found := ok && pr.Found()
	r := newResult(name, found, binary(found), model.SeverityWarning)
	if found {
		r.CurrentValue = "Found"
	} else {
		r.CurrentValue = "Not found"
	}
	return r
}

// Noindex fails when a robots meta tag or the X-Robots-Tag header carries
// noindex. It is the only check that fails as critical.
func Noindex(p *htmlscan.Page) model.CheckResult {
	_, inMeta := p.FindFirst("meta",
		htmlscan.AttrEquals("name", "robots"),
		htmlscan.AttrContains("content", "noindex"))
	header, _ := p.Header("X-Robots-Tag")
	inHeader := strings.Contains(strings.ToLower(header), "noindex")

	blocked := inMeta || inHeader
	r := newResult("noindex", !blocked, binary(!blocked), model.SeverityCritical)
	if blocked {
		r.CurrentValue = "Found noindex"
	} else {
		r.CurrentValue = "No noindex"
	}
	return r
}

// Canonical passes when a <link rel="canonical"> exists.
func Canonical(p *htmlscan.Page) model.CheckResult {
	link, ok := p.FindFirst("link", htmlscan.AttrHasToken("rel", "canonical"))
	r := newResult("canonical", ok, binary(ok), model.SeverityWarning)
	r.CurrentValue = "Not set"
	if ok {
		href, _ := link.Attr("href")
		r.CurrentValue = href
	}
	return r
}
