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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/pagesearch"
	"github.com/poiesic/pagesearch/config"
	"github.com/poiesic/pagesearch/loader"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "pagesearch",
		Usage: "Search and navigate the pages of a news site",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search pages and print grouped results",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					dbFlag(),
					dirFlag(),
					&cli.StringFlag{
						Name:  "glob",
						Usage: "Pattern selecting pages under --dir",
						Value: "**/*.html",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "Fetch pages over HTTP relative to this base URL instead of --dir",
					},
					&cli.StringSliceFlag{
						Name:    "page",
						Aliases: []string{"p"},
						Usage:   "Page to search (repeatable; required with --url)",
					},
				},
			},
			{
				Name:   "history",
				Usage:  "Print recent searches and the search log",
				Action: historyCommand,
				Flags:  []cli.Flag{dbFlag()},
			},
			{
				Name:   "interactive",
				Usage:  "Drive the search box of one page from stdin",
				Action: interactiveCommand,
				Flags: []cli.Flag{
					dbFlag(),
					dirFlag(),
					&cli.StringFlag{
						Name:     "page",
						Aliases:  []string{"p"},
						Usage:    "Page to open, relative to --dir",
						Required: true,
					},
				},
			},
			{
				Name:   "watch",
				Usage:  "Re-run a query whenever a page file changes",
				Action: watchCommand,
				Flags: []cli.Flag{
					dbFlag(),
					dirFlag(),
					&cli.StringFlag{
						Name:     "page",
						Aliases:  []string{"p"},
						Usage:    "Page to watch, relative to --dir",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query to run after each reload",
						Required: true,
					},
				},
			},
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to BadgerDB history directory (overrides the config file; empty keeps history in memory)",
	}
}

func dirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "dir",
		Usage: "Directory holding the site's pages",
		Value: ".",
	}
}

// loadConfig reads --config when given and applies command-level overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if c.IsSet("db") {
		cfg.Storage.Path = c.String("db")
	}
	return cfg, nil
}

func openApp(c *cli.Context) (*pagesearch.App, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	app, err := pagesearch.New(c.Context, pagesearch.WithConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to start: %w", err)
	}
	return app, nil
}

func openFileStore(c *cli.Context) (*loader.FileStore, error) {
	store, err := loader.NewFileStore(c.String("dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to open pages: %w", err)
	}
	return store, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
