package output

import (
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/selimozcann/seoaudit/internal/audit"
	"github.com/selimozcann/seoaudit/internal/model"
)

// Summary contains counters for the HTML summary section.
type Summary struct {
	TotalTargets int
	AverageScore int
	WithIssues   int
	Errors       int
}

// CategoryView is one category score as rendered.
type CategoryView struct {
	Name      string
	Score     int
	Evaluated bool
}

// ResultView is used by the HTML template with pre-computed fields.
type ResultView struct {
	Index        int
	Timestamp    time.Time
	URL          string
	DurationMs   int64
	OverallScore int
	Categories   []CategoryView
	Issues       int
	Warnings     int
	AISummary    string
	Checks       []model.CheckResult
	Error        string
}

// PageData provides the full context for the HTML report.
type PageData struct {
	Title         string
	GeneratedAt   time.Time
	Params        map[string]string
	OrderedParams []Param
	Summary       Summary
	Results       []ResultView
}

// Param represents a rendered CLI argument/value pair.
type Param struct {
	Key   string
	Value string
}

// CategoryLabels are the display names of each category.
var CategoryLabels = map[model.Category]string{
	model.CategoryConfiguration: "Configuration",
	model.CategoryMeta:          "Meta Tags",
	model.CategoryContent:       "Content",
	model.CategoryPerformance:   "Performance",
}

// BuildResultView converts an audit result into a ResultView for HTML rendering.
func BuildResultView(idx int, res model.AuditResult) ResultView {
	v := ResultView{
		Index:        idx,
		Timestamp:    res.Timestamp,
		URL:          res.URL,
		DurationMs:   int64(res.DurationSeconds * 1000),
		OverallScore: res.OverallScore,
		Issues:       res.IssuesFound,
		Warnings:     res.WarningsFound,
		Checks:       append([]model.CheckResult(nil), res.Checks...),
	}
	if res.AISummary != nil {
		v.AISummary = *res.AISummary
	}
	if c, ok := res.Check(audit.FetchErrorCheck); ok {
		v.Error = c.Description
	}
	for _, c := range model.Categories {
		cv := CategoryView{Name: CategoryLabels[c]}
		if s := res.Scores.Get(c); s != nil {
			cv.Score, cv.Evaluated = *s, true
		}
		v.Categories = append(v.Categories, cv)
	}
	return v
}

// BuildSummary derives high level counters from the results.
func BuildSummary(results []model.AuditResult) Summary {
	sum := Summary{TotalTargets: len(results)}
	total := 0
	for _, res := range results {
		total += res.OverallScore
		if res.IssuesFound > 0 {
			sum.WithIssues++
		}
		if _, ok := res.Check(audit.FetchErrorCheck); ok {
			sum.Errors++
		}
	}
	if len(results) > 0 {
		sum.AverageScore = total / len(results)
	}
	return sum
}

// ScoreClass buckets a score the same way the console colours it.
func ScoreClass(score int) string {
	switch {
	case score >= 80:
		return "good"
	case score >= 60:
		return "fair"
	default:
		return "poor"
	}
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatTime": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"scoreClass": ScoreClass,
	"label":      checkLabel,
	"lower":      strings.ToLower,
}).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root { color-scheme: light dark; }
body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 24px; background:#fafafa; color:#111; }
header { margin-bottom: 24px; }
h1 { font-size: 26px; margin: 0 0 8px; }
.section { border:1px solid #e5e7eb; border-radius:16px; padding:16px 20px; margin-bottom:18px; background:#fff; box-shadow:0 1px 2px rgba(15,23,42,0.08); }
h2 { font-size:20px; margin:0 0 12px; }
h3 { font-size:16px; margin:12px 0 6px; }
dt { font-weight:600; }
dd { margin:0 0 8px 0; }
.summary-grid { display:grid; gap:12px; grid-template-columns: repeat(auto-fit,minmax(180px,1fr)); }
.summary-card { display:block; padding:12px; border-radius:12px; border:1px solid #cbd5f5; text-decoration:none; color:inherit; position:relative; transition:box-shadow .2s ease; background:linear-gradient(180deg,#eef2ff,#fff); }
.summary-card:hover { box-shadow:0 8px 16px rgba(79,70,229,0.2); }
.summary-card[data-active="true"] { border-color:#4f46e5; box-shadow:0 0 0 2px rgba(79,70,229,0.4); }
.summary-card .badge { position:absolute; top:12px; right:12px; padding:2px 10px; border-radius:999px; background:#4f46e5; color:#fff; font-size:12px; }
.meta { color:#6b7280; font-size:12px; }
.result-row { border-top:1px solid #e5e7eb; padding-top:12px; margin-top:12px; }
.result-row:first-of-type { border-top:none; padding-top:0; margin-top:0; }
.badge-inline { display:inline-block; padding:2px 8px; border-radius:999px; background:#e5e7eb; font-size:12px; margin-left:6px; }
.score-good { color:#15803d; } .score-fair { color:#b45309; } .score-poor { color:#b91c1c; }
.status-pass { color:#15803d; font-weight:600; } .status-warn { color:#b45309; font-weight:600; } .status-fail { color:#b91c1c; font-weight:600; }
.table { width:100%; border-collapse:collapse; font-size:14px; }
.table th, .table td { border-bottom:1px solid #e5e7eb; padding:6px 8px; text-align:left; vertical-align:top; }
.table th { background:#f9fafb; }
.mono { font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace; font-size:13px; }
.insight { white-space:pre-wrap; }
.footer { text-align:center; font-size:12px; color:#6b7280; margin-top:24px; }
@media (prefers-color-scheme: dark) {
        body { background:#0f172a; color:#e2e8f0; }
        .section { background:#1e293b; border-color:#334155; box-shadow:none; }
        .summary-card { background:linear-gradient(180deg,#312e81,#1e293b); border-color:#4338ca; color:#e0e7ff; }
        .summary-card .badge { background:#a855f7; }
        .meta { color:#94a3b8; }
        .table th { background:#1e293b; }
        .badge-inline { background:#475569; }
}
</style>
<script>
document.addEventListener('DOMContentLoaded', function() {
  const cards = document.querySelectorAll('[data-filter]');
  const rows = document.querySelectorAll('.result-row');
  const notice = document.getElementById('filterNotice');
  function apply(filter) {
    cards.forEach(c => c.dataset.active = (c.dataset.filter === filter ? 'true' : 'false'));
    let text = 'Showing all targets.';
    if (filter === 'issues') text = 'Filtered to targets with issues.';
    if (filter === 'errors') text = 'Filtered to targets that could not be fetched.';
    rows.forEach(row => {
      let show = true;
      if (filter === 'issues') show = Number(row.dataset.issues) > 0;
      if (filter === 'errors') show = Number(row.dataset.error) > 0;
      row.style.display = show ? '' : 'none';
    });
    if (notice) {
      notice.textContent = text;
    }
  }
  cards.forEach(card => {
    card.addEventListener('click', function (ev) {
      ev.preventDefault();
      apply(card.dataset.filter || 'all');
    });
  });
  apply('all');
});
</script>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <p class="meta">Generated at {{formatTime .GeneratedAt}}</p>
</header>
<section id="summary" class="section">
  <h2>Summary</h2>
  <div class="summary-grid">
    <a class="summary-card" href="#results" data-filter="all"><strong>Total Targets</strong><span class="badge">{{.Summary.TotalTargets}}</span></a>
    <a class="summary-card" href="#results" data-filter="all"><strong>Average Score</strong><span class="badge">{{.Summary.AverageScore}}</span></a>
    <a class="summary-card" href="#results" data-filter="issues"><strong>Targets with Issues</strong><span class="badge">{{.Summary.WithIssues}}</span></a>
    <a class="summary-card" href="#results" data-filter="errors"><strong>Fetch Errors</strong><span class="badge">{{.Summary.Errors}}</span></a>
  </div>
</section>
{{- if .OrderedParams }}
<section id="parameters" class="section">
  <h2>Parameters</h2>
  <dl>
  {{- range .OrderedParams }}
    <dt>{{.Key}}</dt>
    <dd><span class="mono">{{.Value}}</span></dd>
  {{- end }}
  </dl>
</section>
{{- end }}
<section id="results" class="section">
  <h2>Results</h2>
  <p class="meta" id="filterNotice">Showing all targets.</p>
  {{range .Results}}
  <div class="result-row" data-issues="{{.Issues}}" data-error="{{if .Error}}1{{else}}0{{end}}">
    <h3><span class="mono">{{.URL}}</span><span class="badge-inline score-{{scoreClass .OverallScore}}">Score {{.OverallScore}}/100</span></h3>
    {{if .Error}}
      <p class="meta">Error: {{.Error}}</p>
    {{else}}
      <p class="meta">
      {{- range $i, $c := .Categories}}{{if $i}} &middot; {{end}}{{$c.Name}}: {{if $c.Evaluated}}<span class="score-{{scoreClass $c.Score}}">{{$c.Score}}</span>{{else}}n/a{{end}}{{end}}
      </p>
    {{end}}
    <p class="meta">Issues {{.Issues}} &middot; Warnings {{.Warnings}} &middot; Duration {{.DurationMs}}ms &middot; Started {{formatTime .Timestamp}}</p>
    {{if .AISummary}}
      <p><strong>AI Insights</strong></p>
      <p class="insight">{{.AISummary}}</p>
    {{end}}
    <details{{if .Issues}} open{{end}}>
      <summary>{{len .Checks}} checks</summary>
      <table class="table">
        <thead>
          <tr><th>Status</th><th>Check</th><th>Category</th><th>Score</th><th>Current</th><th>Expected</th><th>Recommendation</th></tr>
        </thead>
        <tbody>
        {{range .Checks}}
          {{- $l := label .}}
          <tr>
            <td class="status-{{lower $l}}">{{$l}}</td>
            <td>{{.Title}}</td>
            <td>{{.Category}}</td>
            <td>{{.Score}}</td>
            <td class="mono">{{.CurrentValue}}</td>
            <td>{{.ExpectedValue}}</td>
            <td>{{.Recommendation}}</td>
          </tr>
        {{end}}
        </tbody>
      </table>
    </details>
  </div>
  {{end}}
</section>
<footer class="footer">
  seoaudit report generated at {{formatTime .GeneratedAt}}
</footer>
</body>
</html>
`))

// RenderHTML renders the HTML report using the provided data.
func RenderHTML(w io.Writer, data PageData) error {
	if data.Params != nil {
		keys := make([]string, 0, len(data.Params))
		for k := range data.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make([]Param, 0, len(keys))
		for _, k := range keys {
			ordered = append(ordered, Param{Key: k, Value: data.Params[k]})
		}
		data.OrderedParams = ordered
	}
	return htmlTemplate.Execute(w, data)
}
