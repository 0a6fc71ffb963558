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

package pagesearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/poiesic/pagesearch/config"
	"github.com/poiesic/pagesearch/core"
	"github.com/poiesic/pagesearch/dom"
	"github.com/poiesic/pagesearch/history"
	"github.com/poiesic/pagesearch/loader"
	"github.com/poiesic/pagesearch/search"
	"github.com/poiesic/pagesearch/storage"
	"github.com/poiesic/pagesearch/storage/badger"
	"github.com/poiesic/pagesearch/ui"
)

// ErrClosed indicates the App has been closed.
var ErrClosed = errors.New("pagesearch: app is closed")

// App owns the state shared by every page: configuration, the persistent
// store and the search history. Each page gets its own Session.
type App struct {
	cfg     *config.Config
	store   *badger.Store // nil when history is session-only
	history *history.Store
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[core.Page]*Session
	closed   bool
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	cfg    *config.Config
	logger *slog.Logger
	kv     storage.KeyValueStore
}

// WithConfig sets the configuration. Default is config.DefaultConfig().
func WithConfig(cfg *config.Config) AppOption {
	return func(o *appOptions) {
		o.cfg = cfg
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) AppOption {
	return func(o *appOptions) {
		o.logger = logger
	}
}

// WithKeyValueStore persists history in kv instead of opening the configured
// badger store. The App does not close kv.
func WithKeyValueStore(kv storage.KeyValueStore) AppOption {
	return func(o *appOptions) {
		o.kv = kv
	}
}

// New creates an App. History is kept in the badger database at the
// configured storage path, or in memory when the path is empty. If the
// database cannot be opened, history works for this session only.
func New(ctx context.Context, opts ...AppOption) (*App, error) {
	options := &appOptions{
		cfg:    config.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.cfg == nil {
		options.cfg = config.DefaultConfig()
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if err := options.cfg.Validate(); err != nil {
		return nil, err
	}

	cfg, logger := options.cfg, options.logger
	app := &App{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[core.Page]*Session),
	}

	kv := options.kv
	if kv == nil {
		store, err := openStore(cfg.Storage.Path)
		if err != nil {
			logger.Warn("history storage unavailable, continuing for this session only", "path", cfg.Storage.Path, "err", err)
		} else {
			app.store = store
			kv = store
		}
	}

	hist, err := history.New(ctx, kv,
		history.WithLogger(logger),
		history.WithLimits(cfg.History.RecentLimit, cfg.History.HistoryLimit),
		history.WithSuggestionCount(cfg.History.SuggestionCount),
		history.WithMinQueryLength(cfg.Search.MinQueryLength),
	)
	if err != nil {
		app.closeStore()
		return nil, err
	}
	app.history = hist

	return app, nil
}

func openStore(path string) (*badger.Store, error) {
	if path == "" {
		return badger.NewMemoryStore()
	}
	return badger.OpenStore(path, false)
}

// InitializeSearch sets up searching on page. Calling it again for the same
// page returns the existing session. The session's Controller is nil when the
// page has no search box; PerformSearch and Navigate still work.
func (a *App) InitializeSearch(ctx context.Context, page core.Page, opts ...ui.Option) (*Session, error) {
	if page == nil {
		return nil, search.ErrPageRequired
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, ErrClosed
	}
	if s, ok := a.sessions[page]; ok {
		return s, nil
	}

	id := uuid.NewString()
	logger := a.logger.With("session", id)
	cfg := a.cfg

	searcher, err := search.NewSearcher(page,
		search.WithLogger(logger),
		search.WithMinQueryLength(cfg.Search.MinQueryLength),
		search.WithTitleMaxLength(cfg.Search.TitleMaxLength),
		search.WithDedupPrefixLength(cfg.Search.DedupPrefixLength),
	)
	if err != nil {
		return nil, fmt.Errorf("creating searcher: %w", err)
	}

	navigator, err := search.NewNavigator(page, searcher.Cache(),
		search.WithNavigatorLogger(logger),
		search.WithHeaderOffsets(cfg.Navigation.DesktopHeaderOffset, cfg.Navigation.MobileHeaderOffset, cfg.Navigation.MobileBreakpoint),
		search.WithScrollFallbackDelay(cfg.Navigation.ScrollFallbackDelay.Std()),
		search.WithHighlightDuration(cfg.Navigation.HighlightDuration.Std()),
		search.WithHighlightStyle(core.CategoryDeveloper, search.HighlightStyle{
			Background: cfg.Navigation.DeveloperHighlightColor,
			Color:      cfg.Navigation.DeveloperTextColor,
		}),
		search.WithDefaultHighlight(search.HighlightStyle{Background: cfg.Navigation.HighlightColor}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating navigator: %w", err)
	}

	uiOpts := append([]ui.Option{
		ui.WithLogger(logger),
		ui.WithDebounce(cfg.Search.Debounce.Std()),
		ui.WithMinQueryLength(cfg.Search.MinQueryLength),
	}, opts...)
	controller, err := ui.NewController(ctx, page, searcher, navigator, a.history, uiOpts...)
	switch {
	case errors.Is(err, ui.ErrMissingElements):
		logger.Debug("page has no search box, skipping input controller", "page", page.Title())
		controller = nil
	case err != nil:
		navigator.Close()
		return nil, fmt.Errorf("creating controller: %w", err)
	}

	s := &Session{
		ID:         id,
		Page:       page,
		Searcher:   searcher,
		Navigator:  navigator,
		Controller: controller,
		logger:     logger,
	}
	a.sessions[page] = s
	logger.Debug("search initialized", "page", page.Title(), "controller", controller != nil)
	return s, nil
}

// Release closes the session of page, if any. Used when a page is replaced.
func (a *App) Release(page core.Page) {
	a.mu.Lock()
	s, ok := a.sessions[page]
	delete(a.sessions, page)
	a.mu.Unlock()

	if ok {
		s.Close()
	}
}

// NewLoader creates a page loader using the configured retry policy and
// viewport.
func (a *App) NewLoader(store loader.DocumentStore, opts ...loader.Option) (*loader.Loader, error) {
	cfg := a.cfg
	base := []loader.Option{
		loader.WithLogger(a.logger),
		loader.WithPoolSize(cfg.Loader.PoolSize),
		loader.WithFetchTimeout(cfg.Loader.Timeout.Std()),
		loader.WithRetry(cfg.Loader.MaxAttempts, cfg.Loader.RetryDelay.Std()),
		loader.WithDocumentOptions(
			dom.WithViewport(cfg.Viewport.Width, cfg.Viewport.Height),
			dom.WithLineHeight(cfg.Viewport.LineHeight),
		),
	}
	return loader.New(store, append(base, opts...)...)
}

// History returns the shared search history.
func (a *App) History() *history.Store {
	return a.history
}

// Config returns the configuration in use.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Close closes every session and the history database.
func (a *App) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	sessions := a.sessions
	a.sessions = make(map[core.Page]*Session)
	a.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	return a.closeStore()
}

func (a *App) closeStore() error {
	if a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing history storage", "err", err)
		return err
	}
	return nil
}

// Session is the search state of one page.
type Session struct {
	ID         string
	Page       core.Page
	Searcher   *search.Searcher
	Navigator  *search.Navigator
	Controller *ui.Controller // nil when the page has no search box

	logger *slog.Logger
}

// PerformSearch runs query against the page.
func (s *Session) PerformSearch(query string) (*search.Results, error) {
	return s.Searcher.PerformSearch(query)
}

// Navigate scrolls to and highlights a result of the last search.
func (s *Session) Navigate(id string) error {
	return s.Navigator.Navigate(id)
}

// Close stops the session's timers.
func (s *Session) Close() {
	if s.Controller != nil {
		s.Controller.Close()
	}
	s.Navigator.Close()
	s.logger.Debug("session closed")
}
