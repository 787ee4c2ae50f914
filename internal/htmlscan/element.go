package htmlscan

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Element is a read-only view of one node in the page tree.
type Element struct {
	sel *goquery.Selection
}

// Tag returns the lower-case element name.
func (e Element) Tag() string {
	return goquery.NodeName(e.sel)
}

// Attr returns the attribute value and whether it is present.
func (e Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

// Text returns the concatenated text of the element and its descendants.
func (e Element) Text() string {
	return e.sel.Text()
}

// Predicate filters elements in FindFirst/FindAll.
type Predicate func(Element) bool

// HasAttr matches elements carrying the attribute, whatever its value.
func HasAttr(name string) Predicate {
	return func(e Element) bool {
		_, ok := e.Attr(name)
		return ok
	}
}

// AttrEquals matches a case-insensitive attribute value.
func AttrEquals(name, value string) Predicate {
	return func(e Element) bool {
		v, ok := e.Attr(name)
		return ok && strings.EqualFold(strings.TrimSpace(v), value)
	}
}

// AttrHasPrefix matches a case-insensitive attribute prefix.
func AttrHasPrefix(name, prefix string) Predicate {
	prefix = strings.ToLower(prefix)
	return func(e Element) bool {
		v, ok := e.Attr(name)
		return ok && strings.HasPrefix(strings.ToLower(strings.TrimSpace(v)), prefix)
	}
}

// AttrContains matches a case-insensitive substring of the attribute value.
func AttrContains(name, sub string) Predicate {
	sub = strings.ToLower(sub)
	return func(e Element) bool {
		v, ok := e.Attr(name)
		return ok && strings.Contains(strings.ToLower(v), sub)
	}
}

// AttrHasToken matches space-separated attributes such as rel="canonical alternate".
func AttrHasToken(name, token string) Predicate {
	return func(e Element) bool {
		v, ok := e.Attr(name)
		if !ok {
			return false
		}
		for _, f := range strings.Fields(v) {
			if strings.EqualFold(f, token) {
				return true
			}
		}
		return false
	}
}
