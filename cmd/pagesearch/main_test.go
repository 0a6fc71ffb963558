package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const newsPage = `<html><head><title>News - EHAMBURG DAILY</title></head><body>
<input id="search-input"><button id="search-clear">x</button><div id="search-results"></div>
<h3 class="news-item-title">Hamburg Weather Update</h3>
<span class="dev-name">Felix</span>
</body></html>`

const creditsPage = `<html><head><title>Credits - EHAMBURG DAILY</title></head><body>
<div class="dev-card"><span class="dev-name">Felix</span><span class="dev-role">Weather widgets</span></div>
</body></html>`

func siteDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "news.html"), []byte(newsPage), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "about"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about", "credits.html"), []byte(creditsPage), 0644))
	return dir
}

// run executes the CLI with stdin and returns what it wrote to stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.RunContext(context.Background(), append([]string{"pagesearch"}, args...))
	return out.String(), err
}

func findFlag(t *testing.T, cmd *cli.Command, name string) cli.Flag {
	t.Helper()
	for _, flag := range cmd.Flags {
		if flag.Names()[0] == name {
			return flag
		}
	}
	t.Fatalf("flag %s not found on %s", name, cmd.Name)
	return nil
}

func TestCommandFlags(t *testing.T) {
	app := newApp()

	t.Run("every command has its own db flag", func(t *testing.T) {
		var seen []cli.Flag
		for _, cmd := range app.Commands {
			flag := findFlag(t, cmd, "db")
			for _, other := range seen {
				assert.NotSame(t, other, flag)
			}
			seen = append(seen, flag)
		}
	})

	t.Run("search defaults", func(t *testing.T) {
		cmd := app.Command("search")
		require.NotNil(t, cmd)
		glob, ok := findFlag(t, cmd, "glob").(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, "**/*.html", glob.Value)

		dir, ok := findFlag(t, cmd, "dir").(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, ".", dir.Value)
	})

	t.Run("interactive requires page", func(t *testing.T) {
		_, err := run(t, "", "interactive", "--dir", t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page")
	})

	t.Run("watch requires query", func(t *testing.T) {
		_, err := run(t, "", "watch", "--page", "news.html")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query")
	})
}

func TestSearchCommand(t *testing.T) {
	dir := siteDir(t)

	t.Run("all pages", func(t *testing.T) {
		out, err := run(t, "", "search", "--dir", dir, "weather")
		require.NoError(t, err)

		assert.Contains(t, out, "== about/credits.html (Credits) ==")
		assert.Contains(t, out, "== news.html (News) ==")
		assert.Contains(t, out, "News Articles (1)")
		assert.Contains(t, out, "Hamburg [Weather] Update")
		assert.Less(t, strings.Index(out, "about/credits.html"), strings.Index(out, "news.html"))
	})

	t.Run("selected page", func(t *testing.T) {
		out, err := run(t, "", "search", "--dir", dir, "--page", "news.html", "felix")
		require.NoError(t, err)
		assert.Contains(t, out, "== news.html (News) ==")
		assert.NotContains(t, out, "credits.html")
	})

	t.Run("no results", func(t *testing.T) {
		out, err := run(t, "", "search", "--dir", dir, "--page", "news.html", "zzz")
		require.NoError(t, err)
		assert.Contains(t, out, `No results found for "zzz"`)
	})

	t.Run("query required", func(t *testing.T) {
		_, err := run(t, "", "search", "--dir", dir)
		assert.Error(t, err)
	})

	t.Run("query too short", func(t *testing.T) {
		_, err := run(t, "", "search", "--dir", dir, "w")
		assert.Error(t, err)
	})

	t.Run("glob matches nothing", func(t *testing.T) {
		_, err := run(t, "", "search", "--dir", dir, "--glob", "*.htm", "weather")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no pages match")
	})

	t.Run("missing page", func(t *testing.T) {
		_, err := run(t, "", "search", "--dir", dir, "--page", "gone.html", "weather")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no pages loaded")
	})
}

func TestSearchCommand_DebugTracesStages(t *testing.T) {
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })
	dir := siteDir(t)

	var logs bytes.Buffer
	app := newApp()
	app.Writer = io.Discard
	app.ErrWriter = &logs
	err := app.RunContext(context.Background(), []string{"pagesearch", "-l", "debug", "search", "--dir", dir, "--page", "news.html", "weather"})
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "search started")
	assert.Contains(t, logs.String(), "result accepted")
	assert.Contains(t, logs.String(), "search finished")
}

func TestSearchCommand_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/site/news.html" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(newsPage))
	}))
	defer server.Close()

	t.Run("fetches pages", func(t *testing.T) {
		out, err := run(t, "", "search", "--url", server.URL+"/site", "--page", "news.html", "hamburg")
		require.NoError(t, err)
		assert.Contains(t, out, "[Hamburg] Weather Update")
	})

	t.Run("page required", func(t *testing.T) {
		_, err := run(t, "", "search", "--url", server.URL, "hamburg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--page is required")
	})
}

func TestHistoryCommand(t *testing.T) {
	dir := siteDir(t)
	db := filepath.Join(t.TempDir(), "history")

	out, err := run(t, "", "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No searches yet")

	for _, q := range []string{"weather", "felix"} {
		_, err := run(t, "", "search", "--dir", dir, "--db", db, q)
		require.NoError(t, err)
	}

	out, err = run(t, "", "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Recent Searches\n  felix\n  weather\n")
	assert.Contains(t, out, "Search History")
	assert.Regexp(t, `felix\s+(now|\d+ seconds? ago)`, out)
}

func TestHistoryCommand_ConfigStoragePath(t *testing.T) {
	dir := siteDir(t)
	db := filepath.Join(t.TempDir(), "history")
	cfgPath := filepath.Join(t.TempDir(), "pagesearch.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[storage]\npath = \""+filepath.ToSlash(db)+"\"\n"), 0644))

	_, err := run(t, "", "--config", cfgPath, "search", "--dir", dir, "hamburg")
	require.NoError(t, err)

	out, err := run(t, "", "--config", cfgPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "  hamburg\n")

	out, err = run(t, "", "--config", cfgPath, "history", "--db", "")
	require.NoError(t, err)
	assert.Contains(t, out, "No searches yet", "--db overrides the config file")
}

func TestInteractiveCommand(t *testing.T) {
	dir := siteDir(t)
	cfgPath := filepath.Join(t.TempDir(), "pagesearch.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[search]\ndebounce = \"10ms\"\n"), 0644))

	script := strings.Join([]string{
		"up",
		":down",
		":enter",
		":focus",
		":quit",
		"never read",
	}, "\n")

	out, err := run(t, script, "--config", cfgPath, "interactive", "--dir", dir, "--page", "news.html")
	require.NoError(t, err)

	assert.Contains(t, out, `[showing-results] "up"`)
	assert.Contains(t, out, "> Hamburg Weather [Up]date  News article")
	assert.Contains(t, out, "scroll -> 0")
	assert.Contains(t, out, "highlight h3 background=#ffeb3b for 3s")
	assert.Contains(t, out, `[idle] ""`)
	assert.Contains(t, out, "Recent Searches", "focusing an empty input shows suggestions")
	assert.Contains(t, out, `[suggesting] ""`)
	assert.NotContains(t, out, "never read")
}

func TestInteractiveCommand_NoSearchBox(t *testing.T) {
	dir := siteDir(t)
	_, err := run(t, "", "interactive", "--dir", dir, "--page", "about/credits.html")
	assert.ErrorIs(t, err, errNoSearchBox)
}

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				_, err := run(t, "", "--log-level", level, "history")
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		_, err := run(t, "", "-l", "loud", "history")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("debug level enables debug logs", func(t *testing.T) {
		var logs bytes.Buffer
		app := &cli.App{
			Name:      "test",
			ErrWriter: &logs,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				slog.Debug("visible")
				return nil
			},
		}

		require.NoError(t, app.Run([]string{"test", "--log-level", "debug"}))
		assert.Contains(t, logs.String(), "visible")
	})
}
