package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/selimozcann/seoaudit/internal/model"
)

var (
	green   = color.New(color.FgGreen)
	yellow  = color.New(color.FgYellow)
	red     = color.New(color.FgRed)
	blue    = color.New(color.FgBlue)
	cyan    = color.New(color.FgCyan, color.Bold)
	bold    = color.New(color.Bold)
	redBold = color.New(color.FgRed, color.Bold)
)

// FormatScore colours a score: green from 80, yellow from 60, red below.
func FormatScore(score int) string {
	s := fmt.Sprintf("%d", score)
	switch ScoreClass(score) {
	case "good":
		return color.New(color.FgGreen, color.Bold).Sprint(s)
	case "fair":
		return color.New(color.FgYellow, color.Bold).Sprint(s)
	default:
		return color.New(color.FgRed, color.Bold).Sprint(s)
	}
}

func formatCategory(s *int) string {
	if s == nil {
		return "n/a"
	}
	return FormatScore(*s) + "/100"
}

func checkLabel(c model.CheckResult) string {
	switch {
	case c.Passed:
		return "PASS"
	case c.Severity == model.SeverityCritical, c.Severity == model.SeverityError:
		return "FAIL"
	case c.Severity == model.SeverityWarning:
		return "WARN"
	default:
		return "INFO"
	}
}

// FormatCheck renders one check as "  [LABEL] Title: value".
func FormatCheck(c model.CheckResult) string {
	label := checkLabel(c)
	var status string
	switch {
	case c.Passed:
		status = green.Sprint(label)
	case c.Severity == model.SeverityCritical:
		status = redBold.Sprint(label)
	case label == "FAIL":
		status = red.Sprint(label)
	case label == "WARN":
		status = yellow.Sprint(label)
	default:
		status = blue.Sprint(label)
	}
	value := c.CurrentValue
	if value == "" {
		value = "N/A"
	}
	return fmt.Sprintf("  [%s] %s: %s", status, c.Title, value)
}

// PrintResult writes the console report of one audit. verbose lists every
// check grouped by category; otherwise only failing checks are shown.
func PrintResult(w io.Writer, res model.AuditResult, verbose bool) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w)
	blue.Fprintln(w, rule)
	bold.Fprintf(w, "SEO Audit Results: %s\n", res.URL)
	blue.Fprintln(w, rule)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Overall Score: %s/100\n\n", FormatScore(res.OverallScore))

	fmt.Fprintln(w, "Category Scores:")
	for _, c := range model.Categories {
		fmt.Fprintf(w, "  %-14s %s\n", CategoryLabels[c]+":", formatCategory(res.Scores.Get(c)))
	}
	fmt.Fprintln(w)

	issues, warnings := green, green
	if res.IssuesFound > 0 {
		issues = red
	}
	if res.WarningsFound > 0 {
		warnings = yellow
	}
	fmt.Fprintf(w, "Issues Found: %s\n", issues.Sprint(res.IssuesFound))
	fmt.Fprintf(w, "Warnings:     %s\n", warnings.Sprint(res.WarningsFound))
	fmt.Fprintf(w, "Duration:     %.2fs\n\n", res.DurationSeconds)

	if verbose {
		bold.Fprintln(w, "Detailed Results:")
		fmt.Fprintln(w)
		for _, c := range model.Categories {
			checks := res.ChecksIn(c)
			if len(checks) == 0 {
				continue
			}
			bold.Fprintf(w, "  %s:\n", CategoryLabels[c])
			for _, ch := range checks {
				fmt.Fprintln(w, FormatCheck(ch))
				if !ch.Passed && ch.Recommendation != "" {
					fmt.Fprintf(w, "      -> %s\n", ch.Recommendation)
				}
			}
			fmt.Fprintln(w)
		}
	} else if failed := res.FailedChecks(); len(failed) > 0 {
		redBold.Fprintln(w, "Failed Checks:")
		for _, ch := range failed {
			fmt.Fprintln(w, FormatCheck(ch))
			if ch.Recommendation != "" {
				fmt.Fprintf(w, "      -> %s\n", ch.Recommendation)
			}
		}
		fmt.Fprintln(w)
	}

	if res.AISummary != nil && *res.AISummary != "" {
		cyan.Fprintln(w, "AI Insights:")
		fmt.Fprintln(w, *res.AISummary)
		fmt.Fprintln(w)
	}
}

// PrintSummaryLine writes a one-line result used by batch runs.
func PrintSummaryLine(w io.Writer, res model.AuditResult) {
	fmt.Fprintf(w, "%s/100  issues=%d warnings=%d  %s\n",
		FormatScore(res.OverallScore), res.IssuesFound, res.WarningsFound, res.URL)
}
