package dom

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/poiesic/pagesearch/core"
	"golang.org/x/net/html"
)

const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
	DefaultLineHeight     = 24
)

// Document is a parsed page with stable element handles and a computed layout.
// It is safe for concurrent use.
type Document struct {
	mu         sync.Mutex
	doc        *goquery.Document
	elements   map[*html.Node]*Element
	selectors  map[string]cascadia.Selector
	boxes      map[*html.Node]box
	dirty      bool
	detached   bool
	window     *Window
	lineHeight int
	logger     *slog.Logger
}

var _ core.Page = (*Document)(nil)

// Option configures a Document.
type Option func(*Document) error

// WithLogger sets a custom logger for the document.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) error {
		d.logger = logger
		return nil
	}
}

// WithViewport sets the size of the window the document is displayed in.
func WithViewport(width, height int) Option {
	return func(d *Document) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
		}
		d.window = NewWindow(width, height)
		return nil
	}
}

// WithLineHeight sets the height in pixels of one line of text.
func WithLineHeight(px int) Option {
	return func(d *Document) error {
		if px <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidLineHeight, px)
		}
		d.lineHeight = px
		return nil
	}
}

// Parse reads an HTML page from r.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	if r == nil {
		return nil, ErrNilReader
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse failed: %w", err)
	}

	d := &Document{
		doc:        doc,
		elements:   make(map[*html.Node]*Element),
		selectors:  make(map[string]cascadia.Selector),
		dirty:      true,
		lineHeight: DefaultLineHeight,
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.window == nil {
		d.window = NewWindow(DefaultViewportWidth, DefaultViewportHeight)
	}

	return d, nil
}

// ParseString is Parse for an in-memory page.
func ParseString(page string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(page), opts...)
}

// Title returns the trimmed text of the page's <title> element.
func (d *Document) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// QueryAll returns every element matching selector in document order.
// An invalid selector matches nothing.
func (d *Document) QueryAll(selector string) []core.Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, err := d.compile(selector)
	if err != nil {
		d.logger.Warn("invalid selector", "selector", selector, "err", err)
		return nil
	}

	nodes := d.doc.FindMatcher(m).Nodes
	result := make([]core.Element, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, d.wrap(n))
	}
	return result
}

// ElementByID returns the first element whose id attribute equals id.
func (d *Document) ElementByID(id string) (core.Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var found *html.Node
	d.doc.Find("[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, _ := s.Attr("id"); v == id {
			found = s.Get(0)
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return d.wrap(found), true
}

// Viewport returns the window the document is displayed in.
func (d *Document) Viewport() core.Viewport {
	return d.window
}

// Window returns the concrete window, for callers that resize or observe it.
func (d *Document) Window() *Window {
	return d.window
}

// Remove detaches el from the tree. Its handle stays valid but reports
// IsAttached false.
func (d *Document) Remove(el core.Element) {
	e, ok := el.(*Element)
	if !ok || e.doc != d {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
		d.dirty = true
	}
}

// Detach marks the whole document as unloaded.
func (d *Document) Detach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detached = true
}

// IsDetached reports whether Detach has been called.
func (d *Document) IsDetached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detached
}

// compile returns a cached cascadia selector. Must hold d.mu.
func (d *Document) compile(selector string) (cascadia.Selector, error) {
	if m, ok := d.selectors[selector]; ok {
		return m, nil
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	d.selectors[selector] = m
	return m, nil
}

// wrap returns the stable handle for n. Must hold d.mu.
func (d *Document) wrap(n *html.Node) *Element {
	if e, ok := d.elements[n]; ok {
		return e
	}
	e := &Element{doc: d, node: n}
	d.elements[n] = e
	return e
}

// connected reports whether n is still reachable from the document root.
// Must hold d.mu.
func (d *Document) connected(n *html.Node) bool {
	if d.detached {
		return false
	}
	root := d.doc.Get(0)
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}
