package checks

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/selimozcann/seoaudit/internal/htmlscan"
	"github.com/selimozcann/seoaudit/internal/model"
)

type pageOpts struct {
	rawURL  string
	header  http.Header
	elapsed time.Duration
	size    int64
}

func page(t *testing.T, body string, opts pageOpts) *htmlscan.Page {
	t.Helper()
	if opts.rawURL == "" {
		opts.rawURL = "https://example.com/"
	}
	u, err := url.Parse(opts.rawURL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	return htmlscan.Parse(u, []byte(body), htmlscan.Meta{
		StatusCode: 200,
		Header:     opts.header,
		Elapsed:    opts.elapsed,
		Size:       opts.size,
	})
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestBatteryMatchesRegistry(t *testing.T) {
	b := Battery()
	if len(b) != len(registry) {
		t.Fatalf("battery has %d checks, registry %d", len(b), len(registry))
	}
	order := map[model.Category]int{}
	for i, c := range model.Categories {
		order[c] = i
	}
	last := 0
	seen := map[string]bool{}
	for _, c := range b {
		info, ok := Lookup(c.Name)
		if !ok {
			t.Fatalf("check %q missing from registry", c.Name)
		}
		if seen[c.Name] {
			t.Fatalf("duplicate check %q", c.Name)
		}
		seen[c.Name] = true
		if order[info.Category] < last {
			t.Fatalf("check %q out of category order", c.Name)
		}
		last = order[info.Category]
	}
}

func TestRunResultShape(t *testing.T) {
	fixtures := []string{
		"",
		"<html><body><h1>a</h1><h1>b</h1><img src=x></body></html>",
		`<html lang="en"><head><title>` + strings.Repeat("t", 45) + `</title><meta name="robots" content="noindex"></head><body>` + words(400) + `</body></html>`,
	}
	for _, f := range fixtures {
		results := Run(page(t, f, pageOpts{elapsed: 2 * time.Second}))
		if len(results) != len(battery) {
			t.Fatalf("expected %d results, got %d", len(battery), len(results))
		}
		for i, r := range results {
			if r.Name != battery[i].Name {
				t.Fatalf("result %d is %q, want %q", i, r.Name, battery[i].Name)
			}
			if r.Score < 0 || r.Score > 100 {
				t.Fatalf("%s score %d out of bounds", r.Name, r.Score)
			}
			if r.Passed && r.Severity != model.SeverityInfo {
				t.Fatalf("%s passed with severity %s", r.Name, r.Severity)
			}
			if !r.Passed && r.Severity == model.SeverityInfo {
				t.Fatalf("%s failed with info severity", r.Name)
			}
			if r.Title == "" || r.Description == "" {
				t.Fatalf("%s missing registry metadata", r.Name)
			}
		}
	}
}

func TestRunRecoversFromPanic(t *testing.T) {
	c := Check{Name: "title", Run: func(*htmlscan.Page) model.CheckResult { panic("boom") }}
	r := runOne(c, page(t, "", pageOpts{}))
	if r.Passed || r.Severity != model.SeverityError || r.Score != 0 {
		t.Fatalf("expected failed error result, got %+v", r)
	}
	if !strings.Contains(r.CurrentValue, "boom") {
		t.Fatalf("expected panic text in current value, got %q", r.CurrentValue)
	}
	if r.Category != model.CategoryMeta {
		t.Fatalf("expected registry category, got %s", r.Category)
	}
}

func TestHTTPS(t *testing.T) {
	if r := HTTPS(page(t, "", pageOpts{rawURL: "http://example.com/"})); r.Passed || r.Severity != model.SeverityError || r.CurrentValue != "http" {
		t.Fatalf("unexpected http result %+v", r)
	}
	if r := HTTPS(page(t, "", pageOpts{})); !r.Passed || r.Score != 100 {
		t.Fatalf("unexpected https result %+v", r)
	}
}

func TestProbeChecks(t *testing.T) {
	p := page(t, "", pageOpts{})
	if r := RobotsTxt(p); r.Passed || r.Severity != model.SeverityWarning {
		t.Fatalf("missing probe should fail, got %+v", r)
	}
	p.SetProbe(RobotsProbe, htmlscan.Probe{StatusCode: 200})
	p.SetProbe(SitemapProbe, htmlscan.Probe{Err: errors.New("connection refused")})
	if r := RobotsTxt(p); !r.Passed || r.CurrentValue != "Found" {
		t.Fatalf("expected robots found, got %+v", r)
	}
	if r := Sitemap(p); r.Passed || r.CurrentValue != "Not found" || r.Score != 0 {
		t.Fatalf("expected sitemap failure, got %+v", r)
	}
}

func TestNoindex(t *testing.T) {
	meta := page(t, `<meta name="robots" content="NOINDEX, follow">`, pageOpts{})
	if r := Noindex(meta); r.Passed || r.Severity != model.SeverityCritical || r.Score != 0 {
		t.Fatalf("expected critical meta noindex, got %+v", r)
	}
	header := page(t, "", pageOpts{header: http.Header{"X-Robots-Tag": []string{"noindex, nofollow"}}})
	if r := Noindex(header); r.Passed || r.Severity != model.SeverityCritical {
		t.Fatalf("expected critical header noindex, got %+v", r)
	}
	repeated := page(t, "", pageOpts{header: http.Header{"X-Robots-Tag": []string{"googlebot: nofollow", "noindex"}}})
	if r := Noindex(repeated); r.Passed || r.Severity != model.SeverityCritical {
		t.Fatalf("expected noindex in second X-Robots-Tag to fail, got %+v", r)
	}
	clean := page(t, `<meta name="robots" content="index">`, pageOpts{})
	if r := Noindex(clean); !r.Passed || r.Score != 100 {
		t.Fatalf("expected pass, got %+v", r)
	}
}

func TestCanonical(t *testing.T) {
	r := Canonical(page(t, `<link rel="canonical" href="https://example.com/a">`, pageOpts{}))
	if !r.Passed || r.CurrentValue != "https://example.com/a" {
		t.Fatalf("unexpected result %+v", r)
	}
	if r := Canonical(page(t, `<link rel="stylesheet" href="a.css">`, pageOpts{})); r.Passed || r.CurrentValue != "Not set" {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestTitle(t *testing.T) {
	cases := []struct {
		name   string
		length int
		passed bool
		score  int
		sev    model.Severity
	}{
		{"missing", 0, false, 0, model.SeverityError},
		{"short", 20, false, 33, model.SeverityWarning},
		{"exact lower bound", 30, true, 50, model.SeverityInfo},
		{"ideal", 45, true, 75, model.SeverityInfo},
		{"upper bound", 60, true, 100, model.SeverityInfo},
		{"long", 90, false, 100, model.SeverityWarning},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := "<title>" + strings.Repeat("a", tc.length) + "</title>"
			r := Title(page(t, body, pageOpts{}))
			if r.Passed != tc.passed || r.Score != tc.score || r.Severity != tc.sev {
				t.Fatalf("want passed=%v score=%d sev=%s, got %+v", tc.passed, tc.score, tc.sev, r)
			}
		})
	}
}

func TestTitlePreview(t *testing.T) {
	r := Title(page(t, "<title>"+strings.Repeat("b", 70)+"</title>", pageOpts{}))
	want := strings.Repeat("b", 50) + "... (70 chars)"
	if r.CurrentValue != want {
		t.Fatalf("want %q, got %q", want, r.CurrentValue)
	}
	if r := Title(page(t, "<head></head>", pageOpts{})); r.CurrentValue != "Missing" {
		t.Fatalf("expected Missing, got %q", r.CurrentValue)
	}
}

func TestMetaDescription(t *testing.T) {
	desc := strings.Repeat("d", 140)
	r := MetaDescription(page(t, `<meta name="description" content="`+desc+`">`, pageOpts{}))
	if !r.Passed || r.Score != 88 {
		t.Fatalf("expected pass with score 88, got %+v", r)
	}
	r = MetaDescription(page(t, `<meta name="description" content="short">`, pageOpts{}))
	if r.Passed || r.Severity != model.SeverityWarning || r.Score != 3 {
		t.Fatalf("expected warning with score 3, got %+v", r)
	}
	r = MetaDescription(page(t, `<meta name="description" content="  ">`, pageOpts{}))
	if r.Severity != model.SeverityError || r.Score != 0 {
		t.Fatalf("expected error for blank description, got %+v", r)
	}
}

func TestOpenGraph(t *testing.T) {
	body := `<meta property="og:title" content="a"><meta property="og:url" content="b">`
	r := OpenGraph(page(t, body, pageOpts{}))
	if r.Passed || r.Score != 50 || r.Severity != model.SeverityWarning {
		t.Fatalf("unexpected result %+v", r)
	}
	if r.Recommendation != "Add missing: og:description, og:image" {
		t.Fatalf("unexpected recommendation %q", r.Recommendation)
	}
	if r.CurrentValue != "Found: og:title, og:url" {
		t.Fatalf("unexpected current value %q", r.CurrentValue)
	}

	full := body + `<meta property="og:description" content="c"><meta property="og:image" content="d">`
	r = OpenGraph(page(t, full, pageOpts{}))
	if !r.Passed || r.Score != 100 || r.Recommendation != "" {
		t.Fatalf("unexpected result %+v", r)
	}
	if r := OpenGraph(page(t, "", pageOpts{})); r.CurrentValue != "None" || r.Score != 0 {
		t.Fatalf("unexpected empty result %+v", r)
	}
}

func TestTwitterLangViewport(t *testing.T) {
	body := `<html lang=" "><head><meta name="twitter:card" content="summary"><meta name="twitter:site" content="@x"></head></html>`
	p := page(t, body, pageOpts{})
	if r := TwitterCards(p); !r.Passed || r.CurrentValue != "2 tags found" {
		t.Fatalf("unexpected twitter result %+v", r)
	}
	if r := LangAttribute(p); r.Passed || r.CurrentValue != "Missing" {
		t.Fatalf("blank lang should fail, got %+v", r)
	}
	if r := Viewport(p); r.Passed || r.Severity != model.SeverityError {
		t.Fatalf("missing viewport should be an error, got %+v", r)
	}

	p = page(t, `<html lang="de"><meta name="viewport" content="width=device-width"></html>`, pageOpts{})
	if r := LangAttribute(p); !r.Passed || r.CurrentValue != "de" {
		t.Fatalf("unexpected lang result %+v", r)
	}
	if r := Viewport(p); !r.Passed || r.CurrentValue != "width=device-width" {
		t.Fatalf("unexpected viewport result %+v", r)
	}
}

func TestH1(t *testing.T) {
	r := H1(page(t, "<h1>a</h1><h1>b</h1><h1>c</h1>", pageOpts{}))
	if r.Passed || r.Score != 50 || r.Severity != model.SeverityWarning {
		t.Fatalf("three h1 tags: unexpected %+v", r)
	}
	r = H1(page(t, "<p>none</p>", pageOpts{}))
	if r.Passed || r.Score != 0 || r.Severity != model.SeverityError {
		t.Fatalf("no h1: unexpected %+v", r)
	}
	r = H1(page(t, "<h1>one</h1>", pageOpts{}))
	if !r.Passed || r.Score != 100 || r.CurrentValue != "1 H1 tag(s) found" {
		t.Fatalf("one h1: unexpected %+v", r)
	}
}

func TestHeadingStructure(t *testing.T) {
	cases := []struct {
		body string
		ok   bool
	}{
		{"", true},
		{"<h1>a</h1><h2>b</h2><h3>c</h3><h2>d</h2>", true},
		{"<h2>a</h2><h3>b</h3>", true},
		{"<h3>a</h3><h1>b</h1><h2>c</h2>", true},
		{"<h1>a</h1><h3>b</h3>", false},
		{"<h1>a</h1><h2>b</h2><h4>c</h4><h2>d</h2>", false},
	}
	for _, tc := range cases {
		r := HeadingStructure(page(t, tc.body, pageOpts{}))
		if r.Passed != tc.ok {
			t.Fatalf("%q: want passed=%v, got %+v", tc.body, tc.ok, r)
		}
		wantScore := 100
		if !tc.ok {
			wantScore = 50
		}
		if r.Score != wantScore {
			t.Fatalf("%q: want score %d, got %d", tc.body, wantScore, r.Score)
		}
		if !tc.ok && r.Recommendation == "" {
			t.Fatalf("%q: expected recommendation", tc.body)
		}
	}
	r := HeadingStructure(page(t, "<h1>a</h1><h2>b</h2><h2>c</h2><h3>d</h3>", pageOpts{}))
	if r.CurrentValue != "H1:1, H2:2, H3:1" {
		t.Fatalf("unexpected current value %q", r.CurrentValue)
	}
}

func TestImageAlt(t *testing.T) {
	r := ImageAlt(page(t, "<p>text only</p>", pageOpts{}))
	if !r.Passed || r.Score != 100 || r.CurrentValue != "No images" {
		t.Fatalf("no images should pass vacuously, got %+v", r)
	}
	r = ImageAlt(page(t, `<img src=a alt="A"><img src=b alt="B"><img src=c alt="">`, pageOpts{}))
	if r.Passed || r.Score != 67 || r.CurrentValue != "2/3 images have alt" {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestContentLength(t *testing.T) {
	body := "<body><nav>" + words(500) + "</nav><p>" + words(150) + "</p><script>" + words(500) + "</script><noscript><img src=\"/pixel.gif\"> " + words(500) + "</noscript></body>"
	r := ContentLength(page(t, body, pageOpts{}))
	if r.Passed || r.Score != 50 || r.CurrentValue != "150 words" {
		t.Fatalf("unexpected result %+v", r)
	}
	r = ContentLength(page(t, "<p>"+words(900)+"</p>", pageOpts{}))
	if !r.Passed || r.Score != 100 {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestTTFB(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		passed  bool
		score   int
	}{
		{0, true, 100},
		{300 * time.Millisecond, true, 50},
		{599 * time.Millisecond, true, 0},
		{900 * time.Millisecond, false, 0},
		{1300 * time.Millisecond, false, 0},
	}
	for _, tc := range cases {
		r := TTFB(page(t, "", pageOpts{elapsed: tc.elapsed}))
		if r.Passed != tc.passed || r.Score != tc.score {
			t.Fatalf("%s: want passed=%v score=%d, got %+v", tc.elapsed, tc.passed, tc.score, r)
		}
	}
	if r := TTFB(page(t, "", pageOpts{elapsed: 300 * time.Millisecond})); r.CurrentValue != "300ms" {
		t.Fatalf("unexpected current value %q", r.CurrentValue)
	}
}

func TestPageSize(t *testing.T) {
	const mb = 1024 * 1024
	cases := []struct {
		size   int64
		passed bool
		score  int
	}{
		{mb * 3 / 2, true, 50},
		{mb * 4, false, 0},
		{mb * 7, false, 0},
	}
	for _, tc := range cases {
		r := PageSize(page(t, "x", pageOpts{size: tc.size}))
		if r.Passed != tc.passed || r.Score != tc.score {
			t.Fatalf("%d bytes: want passed=%v score=%d, got %+v", tc.size, tc.passed, tc.score, r)
		}
	}
	if r := PageSize(page(t, "x", pageOpts{size: mb * 3 / 2})); r.CurrentValue != "1.50 MB" {
		t.Fatalf("unexpected current value %q", r.CurrentValue)
	}
}

func TestCompression(t *testing.T) {
	r := Compression(page(t, "", pageOpts{header: http.Header{"Content-Encoding": []string{"br"}}}))
	if !r.Passed || r.Score != 100 {
		t.Fatalf("br should pass, got %+v", r)
	}
	r = Compression(page(t, "", pageOpts{header: http.Header{"Content-Encoding": []string{"identity", "gzip"}}}))
	if !r.Passed || r.CurrentValue != "identity, gzip" {
		t.Fatalf("split encoding header should pass, got %+v", r)
	}
	r = Compression(page(t, "", pageOpts{}))
	if r.Passed || r.CurrentValue != "None" || r.Severity != model.SeverityWarning {
		t.Fatalf("missing encoding should fail, got %+v", r)
	}
}
