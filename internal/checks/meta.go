package checks

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/selimozcann/seoaudit/internal/htmlscan"
	"github.com/selimozcann/seoaudit/internal/model"
)

var requiredOG = []string{"og:title", "og:description", "og:image", "og:url"}

// Title grades the <title> length against the 30-60 character window.
func Title(p *htmlscan.Page) model.CheckResult {
	text := ""
	if el, ok := p.FindFirst("title"); ok {
		text = strings.TrimSpace(el.Text())
	}
	r := lengthCheck("title", text, 30, 60, 50)
	r.ExpectedValue = "30-60 characters"
	return r
}

// MetaDescription grades the description length against 120-160 characters.
func MetaDescription(p *htmlscan.Page) model.CheckResult {
	text := ""
	if el, ok := p.FindFirst("meta", htmlscan.AttrEquals("name", "description")); ok {
		content, _ := el.Attr("content")
		text = strings.TrimSpace(content)
	}
	r := lengthCheck("meta_description", text, 120, 160, 60)
	r.ExpectedValue = "120-160 characters"
	return r
}

// lengthCheck scores L/max*100 capped at 100. Empty text is an error, text
// outside [min, max] a warning.
func lengthCheck(name, text string, minLen, maxLen, preview int) model.CheckResult {
	n := utf8.RuneCountInString(text)
	inRange := n > 0 && n >= minLen && n <= maxLen

	score := 0
	if n > 0 {
		score = min(100, percent(float64(n), float64(maxLen)))
	}

	sev := model.SeverityWarning
	if n == 0 {
		sev = model.SeverityError
	}
	r := newResult(name, inRange, score, sev)
	if n == 0 {
		r.CurrentValue = "Missing"
	} else {
		r.CurrentValue = fmt.Sprintf("%s (%d chars)", truncate(text, preview), n)
	}
	return r
}

// OpenGraph scores the share of required og: properties present.
func OpenGraph(p *htmlscan.Page) model.CheckResult {
	var found []string
	seen := make(map[string]bool)
	for _, el := range p.FindAll("meta", htmlscan.AttrHasPrefix("property", "og:")) {
		prop, _ := el.Attr("property")
		prop = strings.ToLower(strings.TrimSpace(prop))
		found = append(found, prop)
		seen[prop] = true
	}
	var missing []string
	for _, req := range requiredOG {
		if !seen[req] {
			missing = append(missing, req)
		}
	}

	score := percent(float64(len(requiredOG)-len(missing)), float64(len(requiredOG)))
	r := newResult("og_tags", len(missing) == 0, score, model.SeverityWarning)
	r.CurrentValue = "None"
	if len(found) > 0 {
		r.CurrentValue = "Found: " + strings.Join(found, ", ")
	}
	r.ExpectedValue = strings.Join(requiredOG, ", ")
	if len(missing) > 0 {
		r.Recommendation = "Add missing: " + strings.Join(missing, ", ")
	}
	return r
}

// TwitterCards passes when at least one twitter:* meta tag exists.
func TwitterCards(p *htmlscan.Page) model.CheckResult {
	tags := p.FindAll("meta", htmlscan.AttrHasPrefix("name", "twitter:"))
	ok := len(tags) > 0
	r := newResult("twitter_tags", ok, binary(ok), model.SeverityWarning)
	r.CurrentValue = fmt.Sprintf("%d tags found", len(tags))
	return r
}

// LangAttribute passes when <html lang> is present and not blank.
func LangAttribute(p *htmlscan.Page) model.CheckResult {
	lang := ""
	if el, ok := p.FindFirst("html"); ok {
		v, _ := el.Attr("lang")
		lang = strings.TrimSpace(v)
	}
	ok := lang != ""
	r := newResult("lang_attribute", ok, binary(ok), model.SeverityWarning)
	r.CurrentValue = "Missing"
	if ok {
		r.CurrentValue = lang
	}
	return r
}

// Viewport passes when a viewport meta tag exists. Failing is an error since
// mobile usability weighs heavily.
func Viewport(p *htmlscan.Page) model.CheckResult {
	el, ok := p.FindFirst("meta", htmlscan.AttrEquals("name", "viewport"))
	r := newResult("viewport", ok, binary(ok), model.SeverityError)
	r.CurrentValue = "Missing"
	if ok {
		r.CurrentValue, _ = el.Attr("content")
	}
	return r
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
