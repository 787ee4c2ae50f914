package runner

import (
	"context"
	"sync"
	"time"

	"github.com/selimozcann/seoaudit/internal/audit"
	"github.com/selimozcann/seoaudit/internal/model"
)

// Auditor is the single-URL engine the runner fans out to.
type Auditor interface {
	Audit(ctx context.Context, target string, opts audit.Options) model.AuditResult
}

// Config holds settings for the runner.
type Config struct {
	Threads   int
	RateLimit int // audits started per second, 0 = unlimited
	Options   audit.Options
	// OnResult, when set, is called once per finished audit from the worker
	// that ran it.
	OnResult func(idx int, res model.AuditResult)
}

// Runner coordinates concurrent audits.
type Runner struct {
	cfg     Config
	auditor Auditor
}

// New creates a new Runner.
func New(cfg Config, a Auditor) *Runner {
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	return &Runner{cfg: cfg, auditor: a}
}

// Run audits targets and returns results in input order. Targets not started
// before ctx is cancelled are left as zero values.
func (r *Runner) Run(ctx context.Context, targets []string) []model.AuditResult {
	out := make([]model.AuditResult, len(targets))
	var (
		rateCh <-chan time.Time
		ticker *time.Ticker
	)
	if r.cfg.RateLimit > 0 {
		ticker = time.NewTicker(time.Second / time.Duration(r.cfg.RateLimit))
		rateCh = ticker.C
		defer ticker.Stop()
	}

	type job struct {
		idx    int
		target string
	}

	jobs := make(chan job)
	wg := sync.WaitGroup{}
	for i := 0; i < r.cfg.Threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jb := range jobs {
				if rateCh != nil {
					select {
					case <-ctx.Done():
						continue
					case <-rateCh:
					}
				}
				if ctx.Err() != nil {
					continue
				}
				res := r.auditor.Audit(ctx, jb.target, r.cfg.Options)
				out[jb.idx] = res
				if r.cfg.OnResult != nil {
					r.cfg.OnResult(jb.idx, res)
				}
			}
		}()
	}

	for i, t := range targets {
		if ctx.Err() != nil {
			break
		}
		jobs <- job{idx: i, target: t}
	}
	close(jobs)

	wg.Wait()
	return out
}
