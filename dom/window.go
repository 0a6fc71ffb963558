package dom

import "sync"

// ScrollListener observes viewport scrolls.
type ScrollListener func(top int, smooth bool)

// Window is the viewport a Document is displayed in.
type Window struct {
	mu       sync.Mutex
	width    int
	height   int
	scrollY  int
	listener ScrollListener
}

// NewWindow creates a viewport of the given size scrolled to the top.
func NewWindow(width, height int) *Window {
	return &Window{width: width, height: height}
}

func (w *Window) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *Window) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

func (w *Window) ScrollY() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scrollY
}

// ScrollTo moves the viewport so that top is its first visible pixel.
// Negative positions are clamped to zero. Smooth scrolls complete instantly.
func (w *Window) ScrollTo(top int, smooth bool) {
	if top < 0 {
		top = 0
	}

	w.mu.Lock()
	w.scrollY = top
	listener := w.listener
	w.mu.Unlock()

	if listener != nil {
		listener(top, smooth)
	}
}

// OnScroll registers fn to be called after every scroll. Passing nil removes
// the listener.
func (w *Window) OnScroll(fn ScrollListener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listener = fn
}
