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
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DocumentStore returns the raw markup of a named page.
type DocumentStore interface {
	Get(ctx context.Context, name string) ([]byte, error)
}

// FileStore serves pages from a directory. Names are slash-separated paths
// relative to the root.
type FileStore struct {
	root string
	fsys fs.FS
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening page directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening page directory: %s is not a directory", dir)
	}
	return &FileStore{root: dir, fsys: os.DirFS(dir)}, nil
}

// Get reads the named page.
func (s *FileStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: %q", ErrPageNotFound, name)
	}

	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading page %s: %w", name, err)
	}
	return data, nil
}

// List returns the page names matching a doublestar pattern such as
// "**/*.html", in lexical order.
func (s *FileStore) List(pattern string) ([]string, error) {
	names, err := doublestar.Glob(s.fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing pages %q: %w", pattern, err)
	}
	slices.Sort(names)
	return names, nil
}

// Path returns the filesystem path of the named page.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Root returns the directory the store serves.
func (s *FileStore) Root() string {
	return s.root
}

// HTTPStore fetches pages relative to a base URL.
type HTTPStore struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPStore creates an HTTPStore. A nil client means http.DefaultClient.
func NewHTTPStore(baseURL string, client *http.Client) (*HTTPStore, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("parsing base url: unsupported scheme %q", base.Scheme)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStore{base: base, client: client}, nil
}

// Get fetches the named page. A 404 maps to ErrPageNotFound.
func (s *HTTPStore) Get(ctx context.Context, name string) ([]byte, error) {
	ref, err := url.Parse(strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrPageNotFound, name)
	}
	target := s.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", name, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", target, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, target)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s for %s", ErrUnexpectedStatus, resp.Status, target)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", target, err)
	}
	return data, nil
}
