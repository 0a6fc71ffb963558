// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/poiesic/pagesearch/core"
	"github.com/poiesic/pagesearch/search"
)

// Element ids the controller attaches to.
const (
	InputID   = "search-input"
	ResultsID = "search-results"
	ClearID   = "search-clear"
)

// Keys handled by OnKeyDown.
const (
	KeyArrowDown = "ArrowDown"
	KeyArrowUp   = "ArrowUp"
	KeyEnter     = "Enter"
)

// DefaultDebounce is how long the input must be quiet before a search runs.
const DefaultDebounce = 300 * time.Millisecond

// State is the controller's position in the search flow.
type State int

const (
	StateIdle State = iota
	StateSuggesting
	StateSearching
	StateShowingResults
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSuggesting:
		return "suggesting"
	case StateSearching:
		return "searching"
	case StateShowingResults:
		return "showing-results"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Searcher runs a query against the page.
type Searcher interface {
	PerformSearch(query string) (*search.Results, error)
}

// Navigator scrolls to a cached result.
type Navigator interface {
	Navigate(id string) error
}

// History records committed queries and offers recent ones back.
type History interface {
	RecordQuery(ctx context.Context, query string) error
	Suggestions() []string
}

// ChangeFunc observes every panel or state change.
type ChangeFunc func(panel Panel, state State)

// Controller handles the search box events of one page. Handlers may be
// called from any goroutine; they are serialized internally.
type Controller struct {
	ctx       context.Context
	searcher  Searcher
	navigator Navigator
	history   History
	input     core.Element
	results   core.Element
	clearCtl  core.Element // optional

	debounce       time.Duration
	minQueryLength int
	onChange       ChangeFunc
	logger         *slog.Logger

	mu         sync.Mutex
	value      string
	state      State
	panel      Panel
	timer      *time.Timer
	generation uint64
	inflight   sync.WaitGroup
	closed     bool
}

// Option configures a Controller.
type Option func(*Controller) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithDebounce sets the quiet period before a typed query is searched.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) error {
		if d < 0 {
			return fmt.Errorf("ui: debounce cannot be negative: %s", d)
		}
		c.debounce = d
		return nil
	}
}

// WithMinQueryLength sets the shortest input that schedules a search.
func WithMinQueryLength(n int) Option {
	return func(c *Controller) error {
		if n < 1 {
			return fmt.Errorf("ui: min query length must be positive: %d", n)
		}
		c.minQueryLength = n
		return nil
	}
}

// WithOnChange registers a function called after each change. It runs
// outside the controller's lock and may call back into the controller.
func WithOnChange(fn ChangeFunc) Option {
	return func(c *Controller) error {
		c.onChange = fn
		return nil
	}
}

// NewController attaches to the search input, results panel and optional
// clear control of page. It returns ErrMissingElements when the page has no
// search box.
func NewController(ctx context.Context, page core.Page, searcher Searcher, navigator Navigator, history History, opts ...Option) (*Controller, error) {
	if page == nil {
		return nil, search.ErrPageRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if navigator == nil {
		return nil, ErrNavigatorRequired
	}
	if history == nil {
		return nil, ErrHistoryRequired
	}

	input, hasInput := page.ElementByID(InputID)
	results, hasResults := page.ElementByID(ResultsID)
	if !hasInput || !hasResults {
		return nil, ErrMissingElements
	}
	clearCtl, _ := page.ElementByID(ClearID)

	c := &Controller{
		ctx:            ctx,
		searcher:       searcher,
		navigator:      navigator,
		history:        history,
		input:          input,
		results:        results,
		clearCtl:       clearCtl,
		debounce:       DefaultDebounce,
		minQueryLength: core.MinQueryLength,
		logger:         slog.Default(),
		panel:          emptyPanel(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// OnQueryChanged handles a new input value. An empty query shows recent
// searches, a query under the minimum length hides the panel, and anything
// longer schedules a debounced search that replaces any pending one.
func (c *Controller) OnQueryChanged(raw string) {
	c.mu.Lock()
	c.value = raw
	c.cancelPendingLocked()

	query := core.NormalizeQuery(raw)
	c.setClearVisibleLocked(query != "")

	switch n := core.QueryLength(query); {
	case n == 0:
		c.showSuggestionsLocked()
	case n < c.minQueryLength:
		c.hideLocked()
		c.state = StateIdle
	default:
		c.state = StateSearching
		c.scheduleLocked(query)
	}
	c.unlockAndNotify()
}

// OnFocus shows recent searches for an empty input and otherwise re-shows
// the last panel.
func (c *Controller) OnFocus() {
	c.mu.Lock()
	switch {
	case core.NormalizeQuery(c.value) == "":
		c.showSuggestionsLocked()
	case c.panel.Mode != PanelEmpty:
		c.showLocked()
		if c.state != StateSearching {
			c.state = stateFor(c.panel.Mode)
		}
	}
	c.unlockAndNotify()
}

// OnClickOutside hides the panel unless target is inside the search input,
// the results panel or the clear control. A nil target is outside.
func (c *Controller) OnClickOutside(target core.Element) {
	if target != nil {
		if _, inside := target.Closest("#" + InputID + ", #" + ResultsID + ", #" + ClearID); inside {
			return
		}
	}

	c.mu.Lock()
	c.cancelPendingLocked()
	c.hideLocked()
	c.state = StateIdle
	c.unlockAndNotify()
}

// OnClear empties the input and hides the panel and clear control.
func (c *Controller) OnClear() {
	c.mu.Lock()
	c.cancelPendingLocked()
	c.value = ""
	c.setClearVisibleLocked(false)
	c.hideLocked()
	c.panel = emptyPanel()
	c.state = StateIdle
	c.unlockAndNotify()
}

// OnKeyDown moves the active marker with the arrow keys and selects the
// active row with Enter. It reports whether the key was handled.
func (c *Controller) OnKeyDown(key string) bool {
	c.mu.Lock()

	if !c.panel.Visible {
		c.mu.Unlock()
		return false
	}

	handled := false
	var target string
	switch key {
	case KeyArrowDown:
		handled = c.panel.move(1)
	case KeyArrowUp:
		handled = c.panel.move(-1)
	case KeyEnter:
		if row, ok := c.panel.ActiveRow(); ok {
			target = c.selectLocked(row)
			handled = true
		}
	}

	c.unlockAndNotify()
	if target != "" {
		_ = c.navigate(target)
	}
	return handled
}

// SelectRow selects the panel row at index, as a click would.
func (c *Controller) SelectRow(index int) error {
	c.mu.Lock()

	if !c.panel.Visible || index < 0 || index >= len(c.panel.Rows) || !c.panel.Rows[index].Selectable() {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNoSuchRow, index)
	}

	target := c.selectLocked(c.panel.Rows[index])
	c.unlockAndNotify()
	if target != "" {
		return c.navigate(target)
	}
	return nil
}

// Submit searches query immediately, skipping the debounce.
func (c *Controller) Submit(query string) {
	c.mu.Lock()
	c.cancelPendingLocked()
	c.value = query
	query = core.NormalizeQuery(query)
	c.setClearVisibleLocked(query != "")
	if core.QueryLength(query) >= c.minQueryLength {
		c.commitLocked(query)
	}
	c.unlockAndNotify()
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Panel returns a copy of the current panel.
func (c *Controller) Panel() Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Value returns the current input value.
func (c *Controller) Value() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Debounce is the quiet period before a typed query is searched.
func (c *Controller) Debounce() time.Duration {
	return c.debounce
}

// Close cancels a pending search and waits for a running one to finish.
// Events after Close still update the panel but never schedule a search.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.cancelPendingLocked()
	c.mu.Unlock()

	c.inflight.Wait()
}

// selectLocked applies a row selection and returns the result id to navigate
// to once the lock is released, if any.
func (c *Controller) selectLocked(row Row) string {
	c.cancelPendingLocked()

	switch row.Kind {
	case RowResult:
		c.hideLocked()
		c.value = ""
		c.setClearVisibleLocked(false)
		c.state = StateIdle
		return row.ResultID

	case RowSuggestion:
		c.value = row.Query
		c.setClearVisibleLocked(true)
		c.commitLocked(row.Query)
	}
	return ""
}

func (c *Controller) navigate(id string) error {
	err := c.navigator.Navigate(id)
	if err != nil {
		c.logger.Debug("navigation failed", "id", id, "err", err)
	}
	return err
}

func (c *Controller) scheduleLocked(query string) {
	if c.closed {
		return
	}

	gen := c.generation
	c.inflight.Add(1)
	c.timer = time.AfterFunc(c.debounce, func() {
		defer c.inflight.Done()
		c.fire(gen, query)
	})
}

// cancelPendingLocked stops the debounce timer. Bumping the generation also
// voids a callback that already fired and is waiting for the lock.
func (c *Controller) cancelPendingLocked() {
	c.generation++
	if c.timer != nil {
		if c.timer.Stop() {
			c.inflight.Done()
		}
		c.timer = nil
	}
}

func (c *Controller) fire(gen uint64, query string) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.commitLocked(query)
	c.unlockAndNotify()
}

// commitLocked runs the search, records the query and shows the results.
func (c *Controller) commitLocked(query string) {
	results, err := c.searcher.PerformSearch(query)
	if err != nil {
		c.logger.Warn("search failed", "query", query, "err", err)
		c.hideLocked()
		c.state = StateIdle
		return
	}

	if err := c.history.RecordQuery(c.ctx, query); err != nil {
		c.logger.Debug("query kept for this session only", "query", query, "err", err)
	}

	c.panel = ResultsPanel(results)
	c.showLocked()
	c.state = StateShowingResults
	c.logger.Debug("search committed", "query", query, "results", len(results.Items), "groups", len(results.Groups))
}

func (c *Controller) showSuggestionsLocked() {
	c.panel = SuggestionsPanel(c.history.Suggestions())
	c.showLocked()
	c.state = StateSuggesting
}

func (c *Controller) showLocked() {
	c.panel.Visible = true
	c.results.SetStyle("display", "block")
}

func (c *Controller) hideLocked() {
	c.panel.Visible = false
	c.panel.Active = -1
	c.results.SetStyle("display", "none")
}

func (c *Controller) setClearVisibleLocked(visible bool) {
	if c.clearCtl == nil {
		return
	}
	if visible {
		c.clearCtl.SetStyle("display", "flex")
	} else {
		c.clearCtl.SetStyle("display", "none")
	}
}

func (c *Controller) snapshotLocked() Panel {
	p := c.panel
	p.Rows = slices.Clone(c.panel.Rows)
	return p
}

// unlockAndNotify releases c.mu and reports the resulting panel and state.
func (c *Controller) unlockAndNotify() {
	panel, state := c.snapshotLocked(), c.state
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(panel, state)
	}
}

func stateFor(mode PanelMode) State {
	if mode == PanelResults {
		return StateShowingResults
	}
	return StateSuggesting
}
