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

package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/poiesic/pagesearch/dom"
)

// DefaultWatchDebounce coalesces the burst of events an editor save produces.
const DefaultWatchDebounce = 100 * time.Millisecond

// ErrWatcherStarted indicates Start was called twice.
var ErrWatcherStarted = errors.New("loader: watcher already started")

// ReloadFunc receives each freshly loaded document.
type ReloadFunc func(name string, doc *dom.Document)

// Watcher keeps one page from a FileStore current. When the file changes the
// page is reloaded, the previous document is detached and onReload is called
// with the replacement. A failed reload keeps the previous document.
type Watcher struct {
	loader   *Loader
	name     string
	path     string
	debounce time.Duration
	onReload ReloadFunc
	logger   *slog.Logger

	mu      sync.Mutex
	current *dom.Document
	fs      *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher) error

// WithWatchDebounce sets how long the file must be quiet before reloading.
func WithWatchDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) error {
		if d < 0 {
			return fmt.Errorf("loader: debounce cannot be negative: %s", d)
		}
		w.debounce = d
		return nil
	}
}

// WithWatcherLogger sets a custom logger.
// Default is slog.Default().
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWatcher creates a Watcher for the named page of store, loaded through l.
func NewWatcher(l *Loader, store *FileStore, name string, onReload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	if l == nil || store == nil {
		return nil, ErrStoreRequired
	}

	w := &Watcher{
		loader:   l,
		name:     name,
		path:     filepath.Clean(store.Path(name)),
		debounce: DefaultWatchDebounce,
		onReload: onReload,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Start loads the page and begins watching it. The returned document is the
// one Current reports until the first reload.
func (w *Watcher) Start(ctx context.Context) (*dom.Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fs != nil {
		return nil, ErrWatcherStarted
	}

	doc, err := w.loader.Load(ctx, w.name)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	// Watch the directory; editors often replace the file instead of writing it.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.current = doc
	w.fs = fsw
	w.cancel = cancel

	w.wg.Add(1)
	go w.run(ctx, fsw)

	w.logger.Info("watching page", "page", w.name, "path", w.path)
	return doc, nil
}

// Current returns the live document, or nil before Start.
func (w *Watcher) Current() *dom.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Close stops watching and waits for an in-progress reload to finish.
func (w *Watcher) Close() error {
	w.mu.Lock()
	fsw, cancel := w.fs, w.cancel
	w.mu.Unlock()

	if fsw == nil {
		return nil
	}

	cancel()
	err := fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "page", w.name, "err", err)

		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	doc, err := w.loader.Load(ctx, w.name)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("reload failed, keeping previous page", "page", w.name, "err", err)
		}
		return
	}

	w.mu.Lock()
	old := w.current
	w.current = doc
	w.mu.Unlock()

	if old != nil {
		old.Detach()
	}
	w.logger.Info("page reloaded", "page", w.name)

	if w.onReload != nil {
		w.onReload(w.name, doc)
	}
}
