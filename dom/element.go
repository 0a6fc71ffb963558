package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/pagesearch/core"
	"golang.org/x/net/html"
)

// Element is a stable handle to one node of a Document.
type Element struct {
	doc       *Document
	node      *html.Node
	overrides map[string]string // runtime styles, guarded by doc.mu
}

var _ core.Element = (*Element)(nil)

func (e *Element) selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(e.node).Selection
}

// TagName returns the lower-case tag name.
func (e *Element) TagName() string {
	return e.node.Data
}

// Text returns the element's text content with whitespace runs collapsed.
func (e *Element) Text() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return strings.Join(strings.Fields(e.selection().Text()), " ")
}

func (e *Element) Attr(name string) (string, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return attrValue(e.node, name)
}

func (e *Element) HasClass(class string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return hasClass(e.node, class)
}

// Closest returns the nearest ancestor-or-self matching selector.
func (e *Element) Closest(selector string) (core.Element, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	m, err := e.doc.compile(selector)
	if err != nil {
		return nil, false
	}
	for n := e.node; n != nil && n.Type == html.ElementNode; n = n.Parent {
		if m.Match(n) {
			return e.doc.wrap(n), true
		}
	}
	return nil, false
}

// Find returns the first descendant matching selector.
func (e *Element) Find(selector string) (core.Element, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	m, err := e.doc.compile(selector)
	if err != nil {
		return nil, false
	}
	found := e.selection().FindMatcher(goquery.SingleMatcher(m))
	if found.Length() == 0 {
		return nil, false
	}
	return e.doc.wrap(found.Get(0)), true
}

// IsRendered reports whether the element is attached and has a box.
func (e *Element) IsRendered() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if !e.doc.connected(e.node) {
		return false
	}
	return e.doc.layout(e.node).rendered
}

func (e *Element) IsAttached() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.connected(e.node)
}

// OffsetTop is the distance from the top of the offset parent, or from the
// document top when there is none.
func (e *Element) OffsetTop() int {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	top := e.doc.layout(e.node).top
	if p := e.doc.offsetParent(e.node); p != nil {
		top -= e.doc.layout(p).top
	}
	return top
}

func (e *Element) OffsetParent() (core.Element, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	p := e.doc.offsetParent(e.node)
	if p == nil {
		return nil, false
	}
	return e.doc.wrap(p), true
}

// BoundingTop is the element's visual top relative to the viewport.
func (e *Element) BoundingTop() int {
	e.doc.mu.Lock()
	top := e.doc.visualTop(e.node)
	e.doc.mu.Unlock()
	return top - e.doc.window.ScrollY()
}

// ScrollIntoView aligns the element's visual top with the viewport top.
func (e *Element) ScrollIntoView() {
	e.doc.mu.Lock()
	top := e.doc.visualTop(e.node)
	e.doc.mu.Unlock()
	e.doc.window.ScrollTo(top, true)
}

// Style returns the effective value of a CSS property.
func (e *Element) Style(property string) string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.styleOf(e.node, property)
}

// SetStyle sets a runtime style. An empty value clears the property, the
// same as assigning "" to a style field in a browser.
func (e *Element) SetStyle(property, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	if e.overrides == nil {
		e.overrides = make(map[string]string)
	}
	property = strings.ToLower(property)
	e.overrides[property] = value
	switch property {
	case "display", "height", "position":
		e.doc.dirty = true
	}
}

func (e *Element) String() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(e.node.Data)
	if id, ok := attrValue(e.node, "id"); ok {
		b.WriteString(" id=")
		b.WriteString(id)
	}
	if class, ok := attrValue(e.node, "class"); ok {
		b.WriteString(" class=")
		b.WriteString(class)
	}
	b.WriteString(">")
	return b.String()
}
