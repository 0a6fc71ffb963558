package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePage(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "index.html", "<title>Home</title>")
	writePage(t, dir, "news/today.html", "<title>News</title>")
	writePage(t, dir, "news/notes.txt", "not a page")

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		data, err := store.Get(ctx, "news/today.html")
		require.NoError(t, err)
		assert.Equal(t, "<title>News</title>", string(data))
	})

	t.Run("missing page", func(t *testing.T) {
		_, err := store.Get(ctx, "credits.html")
		assert.ErrorIs(t, err, ErrPageNotFound)
	})

	t.Run("escaping the root", func(t *testing.T) {
		_, err := store.Get(ctx, "../secret.html")
		assert.ErrorIs(t, err, ErrPageNotFound)
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Get(canceled, "index.html")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("list", func(t *testing.T) {
		names, err := store.List("**/*.html")
		require.NoError(t, err)
		assert.Equal(t, []string{"index.html", "news/today.html"}, names)

		names, err = store.List("news/*")
		require.NoError(t, err)
		assert.Equal(t, []string{"news/notes.txt", "news/today.html"}, names)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := store.List("[")
		assert.Error(t, err)
	})

	t.Run("path", func(t *testing.T) {
		assert.Equal(t, filepath.Join(dir, "news", "today.html"), store.Path("news/today.html"))
		assert.Equal(t, dir, store.Root())
	})
}

func TestNewFileStore_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileStore(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	writePage(t, dir, "file.html", "x")
	_, err = NewFileStore(filepath.Join(dir, "file.html"))
	assert.Error(t, err)
}

func TestHTTPStore(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/site/news.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<title>News - EHAMBURG DAILY</title>"))
	})
	mux.HandleFunc("/site/broken.html", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	store, err := NewHTTPStore(server.URL+"/site", server.Client())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		data, err := store.Get(ctx, "news.html")
		require.NoError(t, err)
		assert.Equal(t, "<title>News - EHAMBURG DAILY</title>", string(data))

		data, err = store.Get(ctx, "/news.html")
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.Get(ctx, "missing.html")
		assert.ErrorIs(t, err, ErrPageNotFound)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := store.Get(ctx, "broken.html")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Contains(t, err.Error(), "500")
	})
}

func TestNewHTTPStore_Errors(t *testing.T) {
	_, err := NewHTTPStore("ftp://example.com", nil)
	assert.Error(t, err)

	_, err = NewHTTPStore("://bad", nil)
	assert.Error(t, err)
}
