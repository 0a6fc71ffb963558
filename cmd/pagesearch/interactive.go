package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/pagesearch/ui"
	"github.com/urfave/cli/v2"
)

// interactiveCommand feeds stdin to the page's search box. Each line is the
// new input value unless it is one of the commands below.
//
//	:down :up :enter   keyboard navigation
//	:focus :clear      focus the input, press the clear control
//	:outside           click elsewhere on the page
//	:quit              stop reading
func interactiveCommand(c *cli.Context) error {
	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	store, err := openFileStore(c)
	if err != nil {
		return err
	}
	l, err := app.NewLoader(store)
	if err != nil {
		return fmt.Errorf("failed to create loader: %w", err)
	}
	defer l.Release()

	name := c.String("page")
	doc, err := l.Load(c.Context, name)
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}

	out := &lockedWriter{w: c.App.Writer}
	doc.Window().OnScroll(func(top int, smooth bool) {
		fmt.Fprintf(out, "scroll -> %d (smooth=%t)\n", top, smooth)
	})

	session, err := app.InitializeSearch(c.Context, doc)
	if err != nil {
		return err
	}
	ctrl := session.Controller
	if ctrl == nil {
		return fmt.Errorf("%s: %w", name, errNoSearchBox)
	}
	settle := ctrl.Debounce() + time.Second

	scanner := bufio.NewScanner(c.App.Reader)
	for scanner.Scan() {
		line := scanner.Text()

		switch strings.TrimSpace(line) {
		case ":quit":
			return nil
		case ":down":
			ctrl.OnKeyDown(ui.KeyArrowDown)
		case ":up":
			ctrl.OnKeyDown(ui.KeyArrowUp)
		case ":enter":
			row, ok := ctrl.Panel().ActiveRow()
			ctrl.OnKeyDown(ui.KeyEnter)
			if ok && row.Kind == ui.RowResult {
				describeNavigation(out, session, row.ResultID)
			}
		case ":focus":
			ctrl.OnFocus()
		case ":clear":
			ctrl.OnClear()
		case ":outside":
			ctrl.OnClickOutside(nil)
		default:
			ctrl.OnQueryChanged(line)
		}

		if err := waitSettled(c.Context, ctrl, settle); err != nil {
			return err
		}
		fmt.Fprintf(out, "[%s] %q\n", ctrl.State(), ctrl.Value())
		if err := ctrl.Panel().Render(out); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// waitSettled waits for a pending debounced search to run.
func waitSettled(ctx context.Context, ctrl *ui.Controller, limit time.Duration) error {
	deadline := time.NewTimer(limit)
	defer deadline.Stop()
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()

	for ctrl.State() == ui.StateSearching {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return nil
		case <-tick.C:
		}
	}
	return nil
}
