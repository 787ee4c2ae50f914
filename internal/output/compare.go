package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/selimozcann/seoaudit/internal/model"
)

// Diff holds url1 minus url2 score differences. A category that was not
// evaluated counts as 0.
type Diff struct {
	OverallScoreDiff  int `json:"overall_score_diff"`
	ConfigurationDiff int `json:"configuration_diff"`
	MetaDiff          int `json:"meta_diff"`
	ContentDiff       int `json:"content_diff"`
	PerformanceDiff   int `json:"performance_diff"`
}

// Comparison is the JSON document emitted by the compare command.
type Comparison struct {
	URL1       model.AuditResult `json:"url1"`
	URL2       model.AuditResult `json:"url2"`
	Comparison Diff              `json:"comparison"`
}

// Compare builds the comparison of a against b.
func Compare(a, b model.AuditResult) Comparison {
	return Comparison{
		URL1: a,
		URL2: b,
		Comparison: Diff{
			OverallScoreDiff:  a.OverallScore - b.OverallScore,
			ConfigurationDiff: orZero(a.Scores.Configuration) - orZero(b.Scores.Configuration),
			MetaDiff:          orZero(a.Scores.Meta) - orZero(b.Scores.Meta),
			ContentDiff:       orZero(a.Scores.Content) - orZero(b.Scores.Content),
			PerformanceDiff:   orZero(a.Scores.Performance) - orZero(b.Scores.Performance),
		},
	}
}

func orZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// FormatDiff renders a signed difference: positive green, negative red.
func FormatDiff(d int) string {
	switch {
	case d > 0:
		return green.Sprintf("+%d", d)
	case d < 0:
		return red.Sprintf("%d", d)
	default:
		return color.New(color.FgWhite).Sprint("0")
	}
}

// PrintComparison writes the comparison table.
func PrintComparison(w io.Writer, c Comparison) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(w)
	blue.Fprintln(w, rule)
	bold.Fprintln(w, "SEO Comparison Results")
	blue.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "URL 1: %s\nURL 2: %s\n\n", c.URL1.URL, c.URL2.URL)

	fmt.Fprintf(w, "%-25s %15s %15s %10s\n", "Metric", "URL 1", "URL 2", "Diff")
	fmt.Fprintln(w, strings.Repeat("-", 70))

	rows := []struct {
		name   string
		s1, s2 int
		diff   int
	}{
		{"Overall Score", c.URL1.OverallScore, c.URL2.OverallScore, c.Comparison.OverallScoreDiff},
		{CategoryLabels[model.CategoryConfiguration], orZero(c.URL1.Scores.Configuration), orZero(c.URL2.Scores.Configuration), c.Comparison.ConfigurationDiff},
		{CategoryLabels[model.CategoryMeta], orZero(c.URL1.Scores.Meta), orZero(c.URL2.Scores.Meta), c.Comparison.MetaDiff},
		{CategoryLabels[model.CategoryContent], orZero(c.URL1.Scores.Content), orZero(c.URL2.Scores.Content), c.Comparison.ContentDiff},
		{CategoryLabels[model.CategoryPerformance], orZero(c.URL1.Scores.Performance), orZero(c.URL2.Scores.Performance), c.Comparison.PerformanceDiff},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-25s %s %s %s\n", r.name,
			pad(FormatScore(r.s1), fmt.Sprint(r.s1), 15),
			pad(FormatScore(r.s2), fmt.Sprint(r.s2), 15),
			pad(FormatDiff(r.diff), signed(r.diff), 10))
	}
	fmt.Fprintln(w)
}

func signed(d int) string {
	if d > 0 {
		return fmt.Sprintf("+%d", d)
	}
	return fmt.Sprint(d)
}

// pad right-aligns coloured text using the width of its plain form.
func pad(colored, plain string, width int) string {
	if n := width - len(plain); n > 0 {
		return strings.Repeat(" ", n) + colored
	}
	return colored
}
