package checks

import (
	"fmt"
	"strings"

	"github.com/selimozcann/seoaudit/internal/htmlscan"
	"github.com/selimozcann/seoaudit/internal/model"
)

// MinWords is the content_length pass threshold.
const MinWords = 300

var invisibleTags = []string{"script", "style", "nav", "footer", "header"}

// H1 expects exactly one <h1>; several score 50, none scores 0.
func H1(p *htmlscan.Page) model.CheckResult {
	count := len(p.FindAll("h1"))
	score, sev := 0, model.SeverityError
	switch {
	case count == 1:
		score = 100
	case count > 1:
		score, sev = 50, model.SeverityWarning
	}
	r := newResult("h1_tag", count == 1, score, sev)
	r.CurrentValue = fmt.Sprintf("%d H1 tag(s) found", count)
	r.ExpectedValue = "Exactly 1 H1 tag"
	return r
}

// HeadingStructure walks h1..h6 in document order and fails on the first
// heading that skips a level below the previous one.
func HeadingStructure(p *htmlscan.Page) model.CheckResult {
	counts := make(map[int]int)
	ok := true
	last := 0
	for _, el := range p.FindAll("h1,h2,h3,h4,h5,h6") {
		level := headingLevel(el.Tag())
		if level == 0 {
			continue
		}
		counts[level]++
		if ok && last > 0 && level > last+1 {
			ok = false
		}
		if ok {
			last = level
		}
	}

	score := 50
	if ok {
		score = 100
	}
	r := newResult("heading_structure", ok, score, model.SeverityWarning)
	r.CurrentValue = fmt.Sprintf("H1:%d, H2:%d, H3:%d", counts[1], counts[2], counts[3])
	if !ok {
		r.Recommendation = "Ensure headings follow proper hierarchy (H1 > H2 > H3)"
	}
	return r
}

func headingLevel(tag string) int {
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
		return 0
	}
	return int(tag[1] - '0')
}

// ImageAlt scores the share of <img> elements with a non-blank alt. A page
// without images passes vacuously.
func ImageAlt(p *htmlscan.Page) model.CheckResult {
	images := p.FindAll("img")
	missing := 0
	for _, img := range images {
		alt, _ := img.Attr("alt")
		if strings.TrimSpace(alt) == "" {
			missing++
		}
	}
	total := len(images)

	score := 100
	if total > 0 {
		score = percent(float64(total-missing), float64(total))
	}
	r := newResult("image_alt", missing == 0, score, model.SeverityWarning)
	r.CurrentValue = "No images"
	if total > 0 {
		r.CurrentValue = fmt.Sprintf("%d/%d images have alt", total-missing, total)
	}
	r.ExpectedValue = "All images should have alt attributes"
	return r
}

// ContentLength counts visible words outside script/style/nav/footer/header.
func ContentLength(p *htmlscan.Page) model.CheckResult {
	words := len(strings.Fields(p.TextContent(invisibleTags...)))
	ok := words >= MinWords
	r := newResult("content_length", ok, min(100, percent(float64(words), MinWords)), model.SeverityWarning)
	r.CurrentValue = fmt.Sprintf("%d words", words)
	r.ExpectedValue = fmt.Sprintf("At least %d words", MinWords)
	return r
}
