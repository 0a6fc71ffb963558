package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/poiesic/pagesearch"
	"github.com/poiesic/pagesearch/core"
	"github.com/poiesic/pagesearch/dom"
	"github.com/poiesic/pagesearch/loader"
	"github.com/poiesic/pagesearch/search"
	"github.com/poiesic/pagesearch/ui"
	"github.com/urfave/cli/v2"
)

func searchCommand(c *cli.Context) error {
	query := core.NormalizeQuery(c.Args().First())
	if c.Args().Len() > 1 {
		return fmt.Errorf("expected one query argument, got %d (quote multi-word queries)", c.Args().Len())
	}
	if query == "" {
		return fmt.Errorf("a query is required")
	}

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	store, names, err := pageSource(c)
	if err != nil {
		return err
	}

	var opts []loader.Option
	if len(names) > 1 {
		opts = append(opts, loader.WithProgress(c.App.ErrWriter))
	}
	l, err := app.NewLoader(store, opts...)
	if err != nil {
		return fmt.Errorf("failed to create loader: %w", err)
	}
	defer l.Release()

	pages, loadErr := l.LoadAll(c.Context, names)
	if len(pages) == 0 {
		return fmt.Errorf("no pages loaded: %w", loadErr)
	}
	if loadErr != nil {
		slog.Warn("some pages failed to load", "err", loadErr)
	}

	var monitor search.SearchMonitor
	if slog.Default().Enabled(c.Context, slog.LevelDebug) {
		monitor = &search.LoggingMonitor{}
	}

	out := c.App.Writer
	total := 0
	for _, page := range pages {
		session, err := app.InitializeSearch(c.Context, page.Document)
		if err != nil {
			return err
		}
		results, err := session.Searcher.PerformSearchWithMonitor(query, monitor)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		total += len(results.Items)

		fmt.Fprintf(out, "== %s (%s) ==\n", page.Name, results.Page)
		panel := ui.ResultsPanel(results)
		panel.Visible = true
		if err := panel.Render(out); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if err := app.History().RecordQuery(c.Context, query); err != nil {
		slog.Warn("query not saved to history", "err", err)
	}
	slog.Debug("search finished", "query", query, "pages", len(pages), "results", total)
	return nil
}

// pageSource picks the document store and page names for the search command.
func pageSource(c *cli.Context) (loader.DocumentStore, []string, error) {
	names := c.StringSlice("page")

	if base := c.String("url"); base != "" {
		if len(names) == 0 {
			return nil, nil, fmt.Errorf("--page is required with --url")
		}
		store, err := loader.NewHTTPStore(base, nil)
		if err != nil {
			return nil, nil, err
		}
		return store, names, nil
	}

	store, err := openFileStore(c)
	if err != nil {
		return nil, nil, err
	}
	if len(names) == 0 {
		names, err = store.List(c.String("glob"))
		if err != nil {
			return nil, nil, err
		}
	}
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("no pages match %q in %s", c.String("glob"), store.Root())
	}
	return store, names, nil
}

func historyCommand(c *cli.Context) error {
	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	out := c.App.Writer
	recent, log := app.History().Recent(), app.History().History()
	if len(recent) == 0 && len(log) == 0 {
		fmt.Fprintln(out, "No searches yet")
		return nil
	}

	fmt.Fprintln(out, "Recent Searches")
	for _, q := range recent {
		fmt.Fprintf(out, "  %s\n", q)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Search History")
	for _, record := range log {
		fmt.Fprintf(out, "  %-30s %s\n", record.Query, humanize.Time(record.Timestamp))
	}
	return nil
}

func watchCommand(c *cli.Context) error {
	query := core.NormalizeQuery(c.String("query"))

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := core.ValidateQuery(query, app.Config().Search.MinQueryLength); err != nil {
		return err
	}

	store, err := openFileStore(c)
	if err != nil {
		return err
	}
	l, err := app.NewLoader(store)
	if err != nil {
		return fmt.Errorf("failed to create loader: %w", err)
	}
	defer l.Release()

	out := &lockedWriter{w: c.App.Writer}
	var mu sync.Mutex
	var current *dom.Document

	run := func(doc *dom.Document) {
		mu.Lock()
		defer mu.Unlock()

		if current != nil {
			app.Release(current)
		}
		current = doc

		session, err := app.InitializeSearch(c.Context, doc)
		if err != nil {
			slog.Error("failed to initialize search", "err", err)
			return
		}
		results, err := session.PerformSearch(query)
		if err != nil {
			slog.Error("search failed", "err", err)
			return
		}

		fmt.Fprintf(out, "== %s at %s ==\n", c.String("page"), time.Now().Format(time.TimeOnly))
		panel := ui.ResultsPanel(results)
		panel.Visible = true
		_ = panel.Render(out)
	}

	w, err := loader.NewWatcher(l, store, c.String("page"), func(_ string, doc *dom.Document) {
		run(doc)
	})
	if err != nil {
		return err
	}
	doc, err := w.Start(c.Context)
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}
	defer w.Close()

	run(doc)
	<-c.Context.Done()
	return nil
}

// describeNavigation reports what selecting a result did to its element.
func describeNavigation(out io.Writer, session *pagesearch.Session, id string) {
	ref, _, ok := session.Searcher.Cache().Get(id)
	if !ok {
		fmt.Fprintf(out, "navigate %s: %v\n", id, search.ErrResultNotFound)
		return
	}
	if !ref.IsAttached() {
		fmt.Fprintf(out, "navigate %s: %v\n", id, search.ErrStaleReference)
		return
	}
	fmt.Fprintf(out, "highlight %s background=%s for %s\n",
		ref.TagName(), ref.Style("background-color"), session.Navigator.HighlightDuration())
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

var errNoSearchBox = errors.New("page has no search box")
