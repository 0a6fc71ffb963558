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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/pagesearch/dom"
)

const (
	DefaultTimeout     = 15 * time.Second
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
)

// Page is one loaded document and the name it was loaded under.
type Page struct {
	Name     string
	Document *dom.Document
}

// Loader fetches and parses pages.
type Loader struct {
	store       DocumentStore
	pool        *ants.Pool
	poolSize    int
	timeout     time.Duration
	maxAttempts int
	retryDelay  time.Duration
	docOpts     []dom.Option
	progress    io.Writer
	logger      *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// WithPoolSize sets how many pages LoadAll fetches at once.
// Default is runtime.NumCPU() / 2, minimum 1.
func WithPoolSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidPoolSize, size)
		}
		l.poolSize = size
		return nil
	}
}

// WithFetchTimeout bounds each fetch attempt.
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loader) error {
		if d <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidTimeout, d)
		}
		l.timeout = d
		return nil
	}
}

// WithRetry sets the attempt count and base delay for failed fetches.
func WithRetry(maxAttempts int, delay time.Duration) Option {
	return func(l *Loader) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		if delay < 0 {
			return fmt.Errorf("loader: retry delay cannot be negative: %s", delay)
		}
		l.maxAttempts = maxAttempts
		l.retryDelay = delay
		return nil
	}
}

// WithDocumentOptions passes options to every dom.Parse call.
func WithDocumentOptions(opts ...dom.Option) Option {
	return func(l *Loader) error {
		l.docOpts = append(l.docOpts, opts...)
		return nil
	}
}

// WithProgress makes LoadAll report progress to w.
func WithProgress(w io.Writer) Option {
	return func(l *Loader) error {
		l.progress = w
		return nil
	}
}

// New creates a Loader reading from store.
func New(store DocumentStore, opts ...Option) (*Loader, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	l := &Loader{
		store:       store,
		poolSize:    poolSize,
		timeout:     DefaultTimeout,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(l.poolSize,
		ants.WithLogger(antsLoggerAdapter{l.logger}),
		ants.WithPanicHandler(func(p any) {
			l.logger.Error("page load panicked", "panic", p)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create loader pool: %w", err)
	}
	l.pool = pool

	return l, nil
}

// Load fetches and parses one page. Each attempt is bounded by the fetch
// timeout; failed attempts are retried with a growing delay.
func (l *Loader) Load(ctx context.Context, name string) (*dom.Document, error) {
	data, err := Retry(ctx, func(ctx context.Context) ([]byte, error) {
		return WithTimeout(ctx, "loading "+name, l.timeout, func(ctx context.Context) ([]byte, error) {
			return l.store.Get(ctx, name)
		})
	}, l.maxAttempts, l.retryDelay)
	if err != nil {
		l.logger.Warn("failed to load page", "page", name, "err", err)
		return nil, err
	}

	opts := append([]dom.Option{dom.WithLogger(l.logger)}, l.docOpts...)
	doc, err := dom.Parse(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing page %s: %w", name, err)
	}

	l.logger.Debug("page loaded", "page", name, "bytes", len(data), "title", doc.Title())
	return doc, nil
}

// LoadAll loads names concurrently on the worker pool. Pages come back in the
// order of names, skipping those that failed; the failures are joined into the
// returned error.
func (l *Loader) LoadAll(ctx context.Context, names []string) ([]Page, error) {
	var tracker *ProgressTracker
	if l.progress != nil {
		tracker = NewProgressTracker(l.progress, len(names))
		tracker.Start()
		defer tracker.Finish()
	}

	docs := make([]*dom.Document, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		err := l.pool.Submit(func() {
			defer wg.Done()
			docs[i], errs[i] = l.Load(ctx, name)
			if tracker != nil {
				tracker.Done(errs[i])
			}
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("scheduling page %s: %w", name, err)
			if tracker != nil {
				tracker.Done(errs[i])
			}
		}
	}
	wg.Wait()

	pages := make([]Page, 0, len(names))
	for i, doc := range docs {
		if doc != nil {
			pages = append(pages, Page{Name: names[i], Document: doc})
		}
	}
	return pages, errors.Join(errs...)
}

// Release releases the worker pool.
func (l *Loader) Release() {
	l.pool.Release()
}

// antsLoggerAdapter routes ants' internal logging into slog.
type antsLoggerAdapter struct {
	logger *slog.Logger
}

func (a antsLoggerAdapter) Printf(format string, args ...any) {
	a.logger.Warn(fmt.Sprintf(format, args...))
}
