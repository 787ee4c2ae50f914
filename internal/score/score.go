// Package score folds check results into the overall and per-category
// scores of an audit.
package score

import "github.com/selimozcann/seoaudit/internal/model"

// Summary is the aggregate view of a result list.
type Summary struct {
	Overall  int
	Scores   model.Scores
	Issues   int
	Warnings int
}

// Aggregate computes the pass ratio of results as a truncated percentage,
// overall and per category. A category with no results stays nil.
// Issues counts failed error and critical results, Warnings failed warnings.
func Aggregate(results []model.CheckResult) Summary {
	var s Summary
	s.Overall = ratio(results)
	for _, c := range model.Categories {
		var in []model.CheckResult
		for _, r := range results {
			if r.Category == c {
				in = append(in, r)
			}
		}
		if len(in) == 0 {
			continue
		}
		v := ratio(in)
		s.Scores.Set(c, &v)
	}
	for _, r := range results {
		if r.Passed {
			continue
		}
		switch r.Severity {
		case model.SeverityError, model.SeverityCritical:
			s.Issues++
		case model.SeverityWarning:
			s.Warnings++
		}
	}
	return s
}

// Apply stores the aggregate of res.Checks on res.
func Apply(res *model.AuditResult) {
	s := Aggregate(res.Checks)
	res.OverallScore = s.Overall
	res.Scores = s.Scores
	res.IssuesFound = s.Issues
	res.WarningsFound = s.Warnings
}

func ratio(results []model.CheckResult) int {
	if len(results) == 0 {
		return 0
	}
	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}
	return passed * 100 / len(results)
}
