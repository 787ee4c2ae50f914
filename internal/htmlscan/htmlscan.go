package htmlscan

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/selimozcann/seoaudit/internal/httpclient"
)

// Meta describes the HTTP response a page was read from.
type Meta struct {
	StatusCode int
	Header     http.Header
	Elapsed    time.Duration
	Size       int64
}

// Probe is the outcome of fetching an auxiliary resource such as robots.txt.
type Probe struct {
	URL        string
	StatusCode int
	Err        error
}

// Found reports whether the resource answered 200 OK.
func (p Probe) Found() bool {
	return p.Err == nil && p.StatusCode == http.StatusOK
}

// Page is a parsed document plus its response metadata. Queries never mutate
// the underlying tree.
type Page struct {
	url    *url.URL
	doc    *goquery.Document
	meta   Meta
	probes map[string]Probe
}

// Parse builds a Page from raw bytes. It never fails: malformed markup yields
// a best-effort tree and unreadable input yields an empty document.
func Parse(u *url.URL, body []byte, meta Meta) *Page {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	if meta.Header == nil {
		meta.Header = http.Header{}
	}
	if meta.Size == 0 {
		meta.Size = int64(len(body))
	}
	if u == nil {
		u = &url.URL{}
	}
	return &Page{url: u, doc: doc, meta: meta, probes: make(map[string]Probe)}
}

// FromResponse parses a fetched response under the URL that was requested,
// which may differ from res.URL after redirects.
func FromResponse(requested *url.URL, res *httpclient.Response) *Page {
	return Parse(requested, res.Body, Meta{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Elapsed:    res.Elapsed,
		Size:       res.Size,
	})
}

// URL returns the address the page was audited under.
func (p *Page) URL() *url.URL { return p.url }

// Origin returns scheme://host of the page URL.
func (p *Page) Origin() string {
	return p.url.Scheme + "://" + p.url.Host
}

// StatusCode returns the HTTP status of the response.
func (p *Page) StatusCode() int { return p.meta.StatusCode }

// Header returns every value of the named response header joined with ", ".
func (p *Page) Header(name string) (string, bool) {
	vs := p.meta.Header.Values(name)
	if len(vs) == 0 {
		return "", false
	}
	return strings.Join(vs, ", "), true
}

// ElapsedMs returns the response time in milliseconds.
func (p *Page) ElapsedMs() float64 {
	return float64(p.meta.Elapsed) / float64(time.Millisecond)
}

// BodySizeBytes returns the decoded body length.
func (p *Page) BodySizeBytes() int64 { return p.meta.Size }

// SetProbe records the result of an auxiliary fetch under name.
func (p *Page) SetProbe(name string, pr Probe) { p.probes[name] = pr }

// Probe returns the auxiliary fetch recorded under name.
func (p *Page) Probe(name string) (Probe, bool) {
	pr, ok := p.probes[name]
	return pr, ok
}

// FindFirst returns the first tag element matching every predicate.
func (p *Page) FindFirst(tag string, preds ...Predicate) (Element, bool) {
	var found Element
	ok := false
	p.doc.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		el := Element{sel: s}
		if matchAll(el, preds) {
			found, ok = el, true
			return false
		}
		return true
	})
	return found, ok
}

// FindAll returns every tag element matching every predicate, in document order.
// tag may be a selector group such as "h1,h2".
func (p *Page) FindAll(tag string, preds ...Predicate) []Element {
	var out []Element
	p.doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		el := Element{sel: s}
		if matchAll(el, preds) {
			out = append(out, el)
		}
	})
	return out
}

// TextContent returns the visible text with the excluded tags and <noscript>
// fallbacks removed. Text
// nodes are trimmed and joined with single spaces. The strip happens on a
// clone so the page tree stays intact for other queries.
func (p *Page) TextContent(excluding ...string) string {
	clone := p.doc.Selection.Clone()
	if len(excluding) > 0 {
		clone.Find(strings.Join(excluding, ",")).Remove()
	}
	var parts []string
	for _, n := range clone.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, " ")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Noscript {
		return
	}
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

func matchAll(el Element, preds []Predicate) bool {
	for _, pred := range preds {
		if pred != nil && !pred(el) {
			return false
		}
	}
	return true
}
