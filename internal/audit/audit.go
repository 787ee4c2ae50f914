// Package audit runs one SEO audit: fetch the page, probe the auxiliary
// resources, evaluate the check battery, score it and optionally attach a
// narrative summary.
package audit

import (
	"context"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/selimozcann/seoaudit/internal/checks"
	"github.com/selimozcann/seoaudit/internal/htmlscan"
	"github.com/selimozcann/seoaudit/internal/httpclient"
	"github.com/selimozcann/seoaudit/internal/insight"
	"github.com/selimozcann/seoaudit/internal/logging"
	"github.com/selimozcann/seoaudit/internal/model"
	"github.com/selimozcann/seoaudit/internal/score"
)

// FetchErrorCheck names the synthetic result of a failed primary fetch.
const FetchErrorCheck = "fetch_error"

// Fetcher is the HTTP surface the auditor needs. *httpclient.Fetcher
// satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (*httpclient.Response, error)
	Status(ctx context.Context, target string) (int, error)
}

// Options tune a single audit.
type Options struct {
	IncludeNarrative bool
}

// Auditor is safe for concurrent use; audits share no mutable state.
type Auditor struct {
	fetcher Fetcher
	insight insight.Generator
	now     func() time.Time
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithFetcher replaces the default HTTP fetcher.
func WithFetcher(f Fetcher) Option {
	return func(a *Auditor) { a.fetcher = f }
}

// WithInsight sets the narrative generator used when IncludeNarrative is set.
func WithInsight(g insight.Generator) Option {
	return func(a *Auditor) { a.insight = g }
}

// WithClock replaces time.Now for timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(a *Auditor) { a.now = now }
}

// New returns an Auditor. Without WithFetcher it follows redirects with the
// default 30s timeout.
func New(opts ...Option) *Auditor {
	a := &Auditor{now: time.Now}
	for _, o := range opts {
		o(a)
	}
	if a.fetcher == nil {
		a.fetcher = httpclient.NewFetcher(httpclient.Config{
			Timeout:         httpclient.DefaultTimeout,
			FollowRedirects: true,
		})
	}
	return a
}

// Audit evaluates target. It never fails: a primary fetch error yields a
// result holding the single fetch_error check and a zero score.
func (a *Auditor) Audit(ctx context.Context, target string, opts Options) model.AuditResult {
	start := a.now()
	res := model.AuditResult{URL: target, Timestamp: start.UTC()}

	logging.Infof("fetch", "GET %s", target)
	resp, err := a.fetcher.Fetch(ctx, target)
	if err != nil {
		logging.Debugf("fetch %s failed: %v", target, err)
		res.Checks = []model.CheckResult{fetchError(err)}
		score.Apply(&res)
		res.DurationSeconds = a.now().Sub(start).Seconds()
		return res
	}
	logging.Debugf("fetch %s: status=%d size=%d elapsed=%s", target, resp.StatusCode, resp.Size, resp.Elapsed)

	requested, perr := url.Parse(target)
	if perr != nil {
		requested = resp.URL
	}
	page := htmlscan.FromResponse(requested, resp)
	a.probe(ctx, page)

	res.Checks = checks.Run(page)
	res.Snapshot = &model.Snapshot{Header: resp.Header.Clone(), Body: resp.Body}
	score.Apply(&res)

	if opts.IncludeNarrative && a.insight != nil {
		res.AISummary = a.insight.Generate(ctx, target, res.OverallScore, res.FailedChecks())
	}
	res.DurationSeconds = a.now().Sub(start).Seconds()
	return res
}

// probe fetches the auxiliary resources concurrently and attaches them to page.
// Probe failures are recorded, never returned.
func (a *Auditor) probe(ctx context.Context, page *htmlscan.Page) {
	names := make([]string, 0, len(checks.ProbePaths))
	for name := range checks.ProbePaths {
		names = append(names, name)
	}
	results := make([]htmlscan.Probe, len(names))

	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			target := page.Origin() + checks.ProbePaths[name]
			status, err := a.fetcher.Status(ctx, target)
			if err != nil {
				logging.Debugf("probe %s failed: %v", target, err)
			}
			results[i] = htmlscan.Probe{URL: target, StatusCode: status, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, name := range names {
		page.SetProbe(name, results[i])
	}
}

func fetchError(err error) model.CheckResult {
	return model.CheckResult{
		Name:        FetchErrorCheck,
		Category:    model.CategoryConfiguration,
		Passed:      false,
		Score:       0,
		Title:       "Page Fetch Failed",
		Description: err.Error(),
		Severity:    model.SeverityCritical,
	}
}
