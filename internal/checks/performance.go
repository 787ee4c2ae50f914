package checks

import (
	"fmt"
	"strings"

	"github.com/selimozcann/seoaudit/internal/htmlscan"
	"github.com/selimozcann/seoaudit/internal/model"
)

const (
	ttfbLimitMs = 600.0
	pageSizeMB  = 3.0
	bytesPerMB  = 1024 * 1024
	decayCutoff = 2.0
)

// TTFB approximates time-to-first-byte with the full response time. The
// score decays linearly to 0 at the limit and is pinned to 0 from twice the
// limit on.
func TTFB(p *htmlscan.Page) model.CheckResult {
	ms := p.ElapsedMs()
	r := newResult("ttfb", ms < ttfbLimitMs, decay(ms, ttfbLimitMs), model.SeverityWarning)
	r.CurrentValue = fmt.Sprintf("%dms", int(ms))
	r.ExpectedValue = "< 600ms"
	return r
}

// PageSize applies the same two-tier decay to the body size in MB.
func PageSize(p *htmlscan.Page) model.CheckResult {
	mb := float64(p.BodySizeBytes()) / bytesPerMB
	r := newResult("page_size", mb < pageSizeMB, decay(mb, pageSizeMB), model.SeverityWarning)
	r.CurrentValue = fmt.Sprintf("%.2f MB", mb)
	r.ExpectedValue = "< 3 MB"
	return r
}

func decay(v, limit float64) int {
	if v >= limit*decayCutoff {
		return 0
	}
	return max(0, 100-percent(v, limit))
}

// Compression passes when Content-Encoding names gzip or br.
func Compression(p *htmlscan.Page) model.CheckResult {
	enc, _ := p.Header("Content-Encoding")
	lower := strings.ToLower(enc)
	ok := strings.Contains(lower, "gzip") || strings.Contains(lower, "br")
	r := newResult("gzip_compression", ok, binary(ok), model.SeverityWarning)
	r.CurrentValue = "None"
	if enc != "" {
		r.CurrentValue = enc
	}
	r.ExpectedValue = "gzip or br"
	return r
}
