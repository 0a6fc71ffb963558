package search

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/pagesearch/core"
)

const (
	DefaultDesktopHeaderOffset = 100
	DefaultMobileHeaderOffset  = 140
	DefaultMobileBreakpoint    = 768
	DefaultScrollFallbackDelay = 100 * time.Millisecond
	DefaultHighlightDuration   = 3 * time.Second
)

// HighlightStyle is applied to an element while it is the navigation target.
type HighlightStyle struct {
	Background string
	Color      string // Empty leaves the text color alone
}

var (
	DefaultHighlight   = HighlightStyle{Background: "#ffeb3b"}
	DeveloperHighlight = HighlightStyle{Background: "#ff6b35", Color: "#ffffff"}
)

type pendingRevert struct {
	timer *time.Timer
	style HighlightStyle
}

// Navigator scrolls the page to a cached result and highlights it.
// It is safe for concurrent use.
type Navigator struct {
	page  core.Page
	cache *ResultCache

	desktopOffset     int
	mobileOffset      int
	mobileBreakpoint  int
	fallbackDelay     time.Duration
	highlightDuration time.Duration
	highlights        map[core.Category]HighlightStyle
	defaultHighlight  HighlightStyle
	logger            *slog.Logger

	mu       sync.Mutex
	timers   map[*time.Timer]struct{}
	reverts  map[core.Element]*pendingRevert
	inflight sync.WaitGroup
	closed   bool
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator) error

// WithNavigatorLogger sets a custom logger.
// Default is slog.Default().
func WithNavigatorLogger(logger *slog.Logger) NavigatorOption {
	return func(n *Navigator) error {
		if logger == nil {
			logger = slog.Default()
		}
		n.logger = logger
		return nil
	}
}

// WithHeaderOffsets sets the space left above the target for the fixed
// header, on desktop and on viewports no wider than breakpoint.
func WithHeaderOffsets(desktop, mobile, breakpoint int) NavigatorOption {
	return func(n *Navigator) error {
		if desktop < 0 || mobile < 0 || breakpoint < 0 {
			return fmt.Errorf("header offsets must not be negative")
		}
		n.desktopOffset = desktop
		n.mobileOffset = mobile
		n.mobileBreakpoint = breakpoint
		return nil
	}
}

// WithScrollFallbackDelay sets how long to wait before checking that the
// target actually ended up in view.
func WithScrollFallbackDelay(d time.Duration) NavigatorOption {
	return func(n *Navigator) error {
		if d < 0 {
			return fmt.Errorf("scroll fallback delay must not be negative")
		}
		n.fallbackDelay = d
		return nil
	}
}

// WithHighlightDuration sets how long the highlight stays applied.
func WithHighlightDuration(d time.Duration) NavigatorOption {
	return func(n *Navigator) error {
		if d <= 0 {
			return fmt.Errorf("highlight duration must be positive")
		}
		n.highlightDuration = d
		return nil
	}
}

// WithHighlightStyle overrides the highlight used for category.
func WithHighlightStyle(category core.Category, style HighlightStyle) NavigatorOption {
	return func(n *Navigator) error {
		n.highlights[category] = style
		return nil
	}
}

// WithDefaultHighlight sets the highlight for categories without their own.
func WithDefaultHighlight(style HighlightStyle) NavigatorOption {
	return func(n *Navigator) error {
		if style.Background == "" {
			return fmt.Errorf("highlight background must not be empty")
		}
		n.defaultHighlight = style
		return nil
	}
}

// NewNavigator creates a navigator over the results cached in cache.
func NewNavigator(page core.Page, cache *ResultCache, opts ...NavigatorOption) (*Navigator, error) {
	if page == nil {
		return nil, ErrPageRequired
	}
	if cache == nil {
		return nil, ErrCacheRequired
	}

	n := &Navigator{
		page:              page,
		cache:             cache,
		desktopOffset:     DefaultDesktopHeaderOffset,
		mobileOffset:      DefaultMobileHeaderOffset,
		mobileBreakpoint:  DefaultMobileBreakpoint,
		fallbackDelay:     DefaultScrollFallbackDelay,
		highlightDuration: DefaultHighlightDuration,
		defaultHighlight:  DefaultHighlight,
		highlights: map[core.Category]HighlightStyle{
			core.CategoryDeveloper: DeveloperHighlight,
		},
		logger:  slog.Default(),
		timers:  make(map[*time.Timer]struct{}),
		reverts: make(map[core.Element]*pendingRevert),
	}

	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// Navigate scrolls to the element behind a result id and highlights it.
// Unknown ids and detached elements are logged and leave the page untouched,
// as does any call after Close.
func (n *Navigator) Navigate(id string) error {
	n.mu.Lock()
	closed := n.closed
	n.mu.Unlock()
	if closed {
		return fmt.Errorf("%w: %s", ErrNavigatorClosed, id)
	}

	ref, category, ok := n.cache.Get(id)
	if !ok {
		n.logger.Error("element not found in result cache", "id", id, "cached", n.cache.Len())
		return fmt.Errorf("%w: %s", ErrResultNotFound, id)
	}
	if ref == nil || !ref.IsAttached() {
		n.logger.Error("cached element is no longer in the page", "id", id)
		return fmt.Errorf("%w: %s", ErrStaleReference, id)
	}

	target := n.ScrollTarget(ref)
	viewport := n.page.Viewport()
	n.logger.Debug("scrolling to result", "id", id, "target", target, "width", viewport.Width())
	viewport.ScrollTo(target, true)

	n.schedule(n.fallbackDelay, func() {
		if !ref.IsAttached() {
			return
		}
		top := ref.BoundingTop()
		if top < 0 || top > viewport.Height() {
			n.logger.Debug("target not in view, using scrollIntoView", "id", id, "top", top)
			ref.ScrollIntoView()
		}
	})

	n.highlight(ref, category)
	return nil
}

// ScrollTarget is the document offset of el minus the header clearance for
// the current viewport width, clamped at zero.
func (n *Navigator) ScrollTarget(el core.Element) int {
	position := 0
	for current, ok := el, true; ok; current, ok = current.OffsetParent() {
		position += current.OffsetTop()
	}

	offset := n.desktopOffset
	if n.page.Viewport().Width() <= n.mobileBreakpoint {
		offset = n.mobileOffset
	}

	return max(0, position-offset)
}

// HighlightDuration is how long a navigation highlight stays applied.
func (n *Navigator) HighlightDuration() time.Duration {
	return n.highlightDuration
}

func (n *Navigator) highlight(el core.Element, category core.Category) {
	style, ok := n.highlights[category]
	if !ok {
		style = n.defaultHighlight
	}

	el.SetStyle("background-color", style.Background)
	if style.Color != "" {
		el.SetStyle("color", style.Color)
	}

	pending := &pendingRevert{style: style}

	n.mu.Lock()
	if n.closed {
		// Close ran after Navigate's check; nothing will revert this later.
		n.mu.Unlock()
		revert(el, style)
		return
	}
	if previous, ok := n.reverts[el]; ok && previous.timer != nil && previous.timer.Stop() {
		delete(n.timers, previous.timer)
		n.inflight.Done()
	}
	n.reverts[el] = pending
	n.mu.Unlock()

	t := n.schedule(n.highlightDuration, func() {
		n.mu.Lock()
		current := n.reverts[el] == pending
		if current {
			delete(n.reverts, el)
		}
		n.mu.Unlock()
		if current {
			revert(el, style)
		}
	})

	n.mu.Lock()
	pending.timer = t
	n.mu.Unlock()
}

func revert(el core.Element, style HighlightStyle) {
	el.SetStyle("background-color", "")
	if style.Color != "" {
		el.SetStyle("color", "")
	}
}

// schedule runs fn after d unless the navigator is closed first.
func (n *Navigator) schedule(d time.Duration, fn func()) *time.Timer {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}

	n.inflight.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		defer n.inflight.Done()
		n.mu.Lock()
		delete(n.timers, t)
		n.mu.Unlock()
		fn()
	})
	n.timers[t] = struct{}{}
	return t
}

// Close cancels pending scroll checks, removes every highlight still applied
// and waits for callbacks already running to finish.
func (n *Navigator) Close() {
	n.mu.Lock()
	n.closed = true
	for t := range n.timers {
		if t.Stop() {
			n.inflight.Done()
		}
	}
	n.timers = make(map[*time.Timer]struct{})
	reverts := n.reverts
	n.reverts = make(map[core.Element]*pendingRevert)
	n.mu.Unlock()

	for el, pending := range reverts {
		revert(el, pending.style)
	}

	n.inflight.Wait()
}
