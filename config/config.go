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


package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/pagesearch/history"
	"github.com/poiesic/pagesearch/search"
)

const (
	DefaultDebounce       = 300 * time.Millisecond
	DefaultLoadTimeout    = 15 * time.Second
	DefaultLoadAttempts   = 3
	DefaultLoadRetryDelay = time.Second
	DefaultLoadPoolSize   = 4
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
	DefaultLineHeight     = 24
)

// Duration is a time.Duration written as a string ("300ms", "3s") in TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds every tunable of the search engine.
type Config struct {
	Search     SearchConfig     `toml:"search"`
	Navigation NavigationConfig `toml:"navigation"`
	History    HistoryConfig    `toml:"history"`
	Viewport   ViewportConfig   `toml:"viewport"`
	Storage    StorageConfig    `toml:"storage"`
	Loader     LoaderConfig     `toml:"loader"`
}

// SearchConfig controls when a scan runs and how results are shaped.
type SearchConfig struct {
	// Debounce is how long typing must pause before a scan runs.
	// Default: 300ms
	Debounce Duration `toml:"debounce"`

	// MinQueryLength is the shortest query that triggers a scan.
	// Default: 2
	MinQueryLength int `toml:"min_query_length"`

	// TitleMaxLength is where result titles are cut and marked with "...".
	// Default: 60
	TitleMaxLength int `toml:"title_max_length"`

	// DedupPrefixLength is how much of a title identifies a duplicate.
	// Default: 50
	DedupPrefixLength int `toml:"dedup_prefix_length"`
}

// NavigationConfig controls scrolling to and highlighting a result.
type NavigationConfig struct {
	DesktopHeaderOffset int      `toml:"desktop_header_offset"`
	MobileHeaderOffset  int      `toml:"mobile_header_offset"`
	MobileBreakpoint    int      `toml:"mobile_breakpoint"`
	ScrollFallbackDelay Duration `toml:"scroll_fallback_delay"`
	HighlightDuration   Duration `toml:"highlight_duration"`

	HighlightColor          string `toml:"highlight_color"`
	DeveloperHighlightColor string `toml:"developer_highlight_color"`
	DeveloperTextColor      string `toml:"developer_text_color"`
}

// HistoryConfig sizes the recent queries and search log.
type HistoryConfig struct {
	RecentLimit     int `toml:"recent_limit"`
	HistoryLimit    int `toml:"history_limit"`
	SuggestionCount int `toml:"suggestion_count"`
}

// ViewportConfig describes the window pages are laid out in.
type ViewportConfig struct {
	Width      int `toml:"width"`
	Height     int `toml:"height"`
	LineHeight int `toml:"line_height"`
}

// StorageConfig locates the persistent history database.
type StorageConfig struct {
	// Path is the database directory. Empty keeps history in memory.
	Path string `toml:"path"`
}

// LoaderConfig controls fetching pages from a document store.
type LoaderConfig struct {
	Timeout     Duration `toml:"timeout"`
	MaxAttempts int      `toml:"max_attempts"`
	RetryDelay  Duration `toml:"retry_delay"`
	PoolSize    int      `toml:"pool_size"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithDebounce sets the typing pause before a scan runs.
func WithDebounce(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Search.Debounce = Duration(d)
	}
}

// WithHighlightDuration sets how long a navigation highlight stays applied.
func WithHighlightDuration(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Navigation.HighlightDuration = Duration(d)
	}
}

// WithScrollFallbackDelay sets when the scroll position is rechecked.
func WithScrollFallbackDelay(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Navigation.ScrollFallbackDelay = Duration(d)
	}
}

// WithViewport sets the window size.
func WithViewport(width, height int) ConfigOption {
	return func(c *Config) {
		c.Viewport.Width = width
		c.Viewport.Height = height
	}
}

// WithStoragePath sets the history database directory.
func WithStoragePath(path string) ConfigOption {
	return func(c *Config) {
		c.Storage.Path = path
	}
}

// WithLoaderRetry sets the page fetch retry policy.
func WithLoaderRetry(attempts int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.Loader.MaxAttempts = attempts
		c.Loader.RetryDelay = Duration(delay)
	}
}

// DefaultConfig returns a Config matching the site's built-in behaviour.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Debounce:          Duration(DefaultDebounce),
			MinQueryLength:    2,
			TitleMaxLength:    search.DefaultTitleMaxLength,
			DedupPrefixLength: search.DefaultDedupPrefixLength,
		},
		Navigation: NavigationConfig{
			DesktopHeaderOffset:     search.DefaultDesktopHeaderOffset,
			MobileHeaderOffset:      search.DefaultMobileHeaderOffset,
			MobileBreakpoint:        search.DefaultMobileBreakpoint,
			ScrollFallbackDelay:     Duration(search.DefaultScrollFallbackDelay),
			HighlightDuration:       Duration(search.DefaultHighlightDuration),
			HighlightColor:          search.DefaultHighlight.Background,
			DeveloperHighlightColor: search.DeveloperHighlight.Background,
			DeveloperTextColor:      search.DeveloperHighlight.Color,
		},
		History: HistoryConfig{
			RecentLimit:     history.DefaultRecentLimit,
			HistoryLimit:    history.DefaultHistoryLimit,
			SuggestionCount: history.DefaultSuggestionCount,
		},
		Viewport: ViewportConfig{
			Width:      DefaultViewportWidth,
			Height:     DefaultViewportHeight,
			LineHeight: DefaultLineHeight,
		},
		Loader: LoaderConfig{
			Timeout:     Duration(DefaultLoadTimeout),
			MaxAttempts: DefaultLoadAttempts,
			RetryDelay:  Duration(DefaultLoadRetryDelay),
			PoolSize:    DefaultLoadPoolSize,
		},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithDebounce(150*time.Millisecond),
//	    WithStoragePath("/home/me/.pagesearch"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default value; unknown keys are an error.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode returns the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Search.Debounce < 0 {
		return errors.New("config: search.debounce must not be negative")
	}
	if c.Search.MinQueryLength < 1 {
		return errors.New("config: search.min_query_length must be at least 1")
	}
	if c.Search.TitleMaxLength < 1 {
		return errors.New("config: search.title_max_length must be at least 1")
	}
	if c.Search.DedupPrefixLength < 1 {
		return errors.New("config: search.dedup_prefix_length must be at least 1")
	}
	if c.Navigation.DesktopHeaderOffset < 0 || c.Navigation.MobileHeaderOffset < 0 || c.Navigation.MobileBreakpoint < 0 {
		return errors.New("config: navigation offsets must not be negative")
	}
	if c.Navigation.ScrollFallbackDelay < 0 {
		return errors.New("config: navigation.scroll_fallback_delay must not be negative")
	}
	if c.Navigation.HighlightDuration <= 0 {
		return errors.New("config: navigation.highlight_duration must be positive")
	}
	if c.Navigation.HighlightColor == "" || c.Navigation.DeveloperHighlightColor == "" {
		return errors.New("config: highlight colors are required")
	}
	if c.History.RecentLimit < 1 || c.History.HistoryLimit < 1 || c.History.SuggestionCount < 1 {
		return errors.New("config: history limits must be at least 1")
	}
	if c.Viewport.Width < 1 || c.Viewport.Height < 1 || c.Viewport.LineHeight < 1 {
		return errors.New("config: viewport dimensions must be positive")
	}
	if c.Loader.Timeout <= 0 {
		return errors.New("config: loader.timeout must be positive")
	}
	if c.Loader.MaxAttempts < 1 {
		return errors.New("config: loader.max_attempts must be at least 1")
	}
	if c.Loader.RetryDelay < 0 {
		return errors.New("config: loader.retry_delay must not be negative")
	}
	if c.Loader.PoolSize < 1 {
		return errors.New("config: loader.pool_size must be at least 1")
	}
	return nil
}
