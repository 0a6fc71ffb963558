package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce.Std())
	assert.Equal(t, 2, cfg.Search.MinQueryLength)
	assert.Equal(t, 60, cfg.Search.TitleMaxLength)
	assert.Equal(t, 50, cfg.Search.DedupPrefixLength)
	assert.Equal(t, 100, cfg.Navigation.DesktopHeaderOffset)
	assert.Equal(t, 140, cfg.Navigation.MobileHeaderOffset)
	assert.Equal(t, 768, cfg.Navigation.MobileBreakpoint)
	assert.Equal(t, 100*time.Millisecond, cfg.Navigation.ScrollFallbackDelay.Std())
	assert.Equal(t, 3*time.Second, cfg.Navigation.HighlightDuration.Std())
	assert.Equal(t, "#ffeb3b", cfg.Navigation.HighlightColor)
	assert.Equal(t, "#ff6b35", cfg.Navigation.DeveloperHighlightColor)
	assert.Equal(t, "#ffffff", cfg.Navigation.DeveloperTextColor)
	assert.Equal(t, 5, cfg.History.RecentLimit)
	assert.Equal(t, 20, cfg.History.HistoryLimit)
	assert.Equal(t, 3, cfg.History.SuggestionCount)
	assert.Equal(t, 15*time.Second, cfg.Loader.Timeout.Std())
	assert.Equal(t, 3, cfg.Loader.MaxAttempts)
	assert.Empty(t, cfg.Storage.Path)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with options", func(t *testing.T) {
		cfg := NewConfig(
			WithDebounce(150*time.Millisecond),
			WithHighlightDuration(time.Second),
			WithScrollFallbackDelay(0),
			WithViewport(375, 667),
			WithStoragePath("/tmp/pagesearch"),
			WithLoaderRetry(5, 10*time.Millisecond),
		)

		assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce.Std())
		assert.Equal(t, time.Second, cfg.Navigation.HighlightDuration.Std())
		assert.Equal(t, time.Duration(0), cfg.Navigation.ScrollFallbackDelay.Std())
		assert.Equal(t, 375, cfg.Viewport.Width)
		assert.Equal(t, 667, cfg.Viewport.Height)
		assert.Equal(t, "/tmp/pagesearch", cfg.Storage.Path)
		assert.Equal(t, 5, cfg.Loader.MaxAttempts)
		assert.NoError(t, cfg.Validate())
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative debounce", func(c *Config) { c.Search.Debounce = -1 }},
		{"zero min query length", func(c *Config) { c.Search.MinQueryLength = 0 }},
		{"zero title length", func(c *Config) { c.Search.TitleMaxLength = 0 }},
		{"zero dedup prefix", func(c *Config) { c.Search.DedupPrefixLength = 0 }},
		{"negative offset", func(c *Config) { c.Navigation.MobileHeaderOffset = -5 }},
		{"zero highlight", func(c *Config) { c.Navigation.HighlightDuration = 0 }},
		{"missing color", func(c *Config) { c.Navigation.HighlightColor = "" }},
		{"zero recent limit", func(c *Config) { c.History.RecentLimit = 0 }},
		{"zero viewport", func(c *Config) { c.Viewport.Height = 0 }},
		{"zero attempts", func(c *Config) { c.Loader.MaxAttempts = 0 }},
		{"zero pool", func(c *Config) { c.Loader.PoolSize = 0 }},
		{"zero timeout", func(c *Config) { c.Loader.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(dir, "partial.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
[search]
debounce = "150ms"

[navigation]
highlight_duration = "1s"
highlight_color = "#00ff00"

[storage]
path = "/var/lib/pagesearch"
`), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce.Std())
		assert.Equal(t, time.Second, cfg.Navigation.HighlightDuration.Std())
		assert.Equal(t, "#00ff00", cfg.Navigation.HighlightColor)
		assert.Equal(t, "/var/lib/pagesearch", cfg.Storage.Path)
		assert.Equal(t, 2, cfg.Search.MinQueryLength)
		assert.Equal(t, 20, cfg.History.HistoryLimit)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(dir, "unknown.toml")
		require.NoError(t, os.WriteFile(path, []byte("[search]\nfuzzy = true\n"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		path := filepath.Join(dir, "duration.toml")
		require.NoError(t, os.WriteFile(path, []byte("[search]\ndebounce = \"soon\"\n"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.toml")
		require.NoError(t, os.WriteFile(path, []byte("[history]\nrecent_limit = 0\n"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestEncode(t *testing.T) {
	cfg := NewConfig(WithDebounce(250 * time.Millisecond))

	data, err := cfg.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "250ms")

	decoded := DefaultConfig()
	require.NoError(t, toml.Unmarshal(data, decoded))
	assert.Equal(t, cfg, decoded)
}
