package core

// Element is a non-owning handle to a node of a rendered page.
// Handles can outlive the node they point at; callers must check
// IsAttached before acting on a handle taken from an earlier scan.
type Element interface {
	TagName() string
	Text() string
	Attr(name string) (string, bool)
	HasClass(class string) bool

	// Closest returns the nearest ancestor-or-self matching selector.
	Closest(selector string) (Element, bool)
	// Find returns the first descendant matching selector.
	Find(selector string) (Element, bool)

	// IsRendered reports whether the element has a laid-out box.
	IsRendered() bool
	// IsAttached reports whether the element is still part of its page.
	IsAttached() bool

	OffsetTop() int
	OffsetParent() (Element, bool)
	// BoundingTop is the element's top edge relative to the viewport.
	BoundingTop() int
	ScrollIntoView()

	Style(property string) string
	SetStyle(property, value string)
}

// Viewport is the scrollable window a page is displayed in.
type Viewport interface {
	Width() int
	Height() int
	ScrollY() int
	ScrollTo(top int, smooth bool)
}

// Page is a rendered document the search engine can scan.
type Page interface {
	Title() string
	// QueryAll returns every element matching selector in document order.
	QueryAll(selector string) []Element
	ElementByID(id string) (Element, bool)
	Viewport() Viewport
}
