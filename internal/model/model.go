package model

import (
	"encoding/json"
	"net/http"
	"time"
)

// Category groups checks for sub-scoring.
type Category string

const (
	CategoryConfiguration Category = "configuration"
	CategoryMeta          Category = "meta"
	CategoryContent       Category = "content"
	CategoryPerformance   Category = "performance"
)

// Categories lists every category in execution order.
var Categories = []Category{CategoryConfiguration, CategoryMeta, CategoryContent, CategoryPerformance}

// Severity is the failure-priority tier of a check.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// CheckResult is the outcome of one SEO rule evaluation.
// Score and Severity are independent: a failing check may keep a partial score.
type CheckResult struct {
	Name           string   `json:"name"`
	Category       Category `json:"category"`
	Passed         bool     `json:"passed"`
	Score          int      `json:"score"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	CurrentValue   string   `json:"current_value"`
	ExpectedValue  string   `json:"expected_value"`
	Recommendation string   `json:"recommendation"`
	Severity       Severity `json:"severity"`
}

// MarshalJSON writes empty diagnostic strings as null so absent values are
// distinguishable from recorded ones.
func (c CheckResult) MarshalJSON() ([]byte, error) {
	type plain CheckResult
	return json.Marshal(struct {
		plain
		Description    *string `json:"description"`
		CurrentValue   *string `json:"current_value"`
		ExpectedValue  *string `json:"expected_value"`
		Recommendation *string `json:"recommendation"`
	}{
		plain:          plain(c),
		Description:    nullable(c.Description),
		CurrentValue:   nullable(c.CurrentValue),
		ExpectedValue:  nullable(c.ExpectedValue),
		Recommendation: nullable(c.Recommendation),
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Scores holds per-category scores. A nil entry means no check of that
// category ran, which is different from a category that scored 0.
type Scores struct {
	Configuration *int `json:"configuration"`
	Meta          *int `json:"meta"`
	Content       *int `json:"content"`
	Performance   *int `json:"performance"`
}

// Get returns the score of category c.
func (s Scores) Get(c Category) *int {
	switch c {
	case CategoryConfiguration:
		return s.Configuration
	case CategoryMeta:
		return s.Meta
	case CategoryContent:
		return s.Content
	case CategoryPerformance:
		return s.Performance
	}
	return nil
}

// Set stores the score of category c.
func (s *Scores) Set(c Category, v *int) {
	switch c {
	case CategoryConfiguration:
		s.Configuration = v
	case CategoryMeta:
		s.Meta = v
	case CategoryContent:
		s.Content = v
	case CategoryPerformance:
		s.Performance = v
	}
}

// Snapshot keeps the raw response for narrative composition. It is never serialized.
type Snapshot struct {
	Header http.Header
	Body   []byte
}

// AuditResult is the aggregate outcome of one audit run. Its JSON encoding is
// the stable contract consumed by reports, the CLI and downstream callers.
type AuditResult struct {
	URL             string        `json:"url"`
	Timestamp       time.Time     `json:"timestamp"`
	DurationSeconds float64       `json:"duration_seconds"`
	OverallScore    int           `json:"overall_score"`
	Scores          Scores        `json:"scores"`
	IssuesFound     int           `json:"issues_found"`
	WarningsFound   int           `json:"warnings_found"`
	AISummary       *string       `json:"ai_summary"`
	Checks          []CheckResult `json:"checks"`

	Snapshot *Snapshot `json:"-"`
}

// Check looks up a check result by name.
func (r AuditResult) Check(name string) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return CheckResult{}, false
}

// FailedChecks returns the failing checks in execution order.
func (r AuditResult) FailedChecks() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// ChecksIn returns the checks of one category in execution order.
func (r AuditResult) ChecksIn(c Category) []CheckResult {
	var out []CheckResult
	for _, ch := range r.Checks {
		if ch.Category == c {
			out = append(out, ch)
		}
	}
	return out
}
