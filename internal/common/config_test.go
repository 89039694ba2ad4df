package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "glossary.json", cfg.Dictionary.File)
	assert.Equal(t, 30*time.Second, cfg.Dictionary.GetTimeout())
	assert.Equal(t, 5, cfg.Binder.Passes)
	assert.Equal(t, time.Second, cfg.Binder.GetInterval())
	assert.Equal(t, 140*time.Millisecond, cfg.Tooltip.GetHideDelay())
	assert.Equal(t, 44, cfg.Tooltip.MaxWidth)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "termgloss.toml", `
[dictionary]
base_url = "https://docs.example.com/guide/"
timeout = "5s"

[tooltip]
hide_delay = "250ms"
max_width = 60

[logging]
level = "debug"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://docs.example.com/guide/", cfg.Dictionary.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Dictionary.GetTimeout())
	assert.Equal(t, 250*time.Millisecond, cfg.Tooltip.GetHideDelay())
	assert.Equal(t, 60, cfg.Tooltip.MaxWidth)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Sections the file does not mention keep their defaults.
	assert.Equal(t, "glossary.json", cfg.Dictionary.File)
	assert.Equal(t, 5, cfg.Binder.Passes)
}

func TestLoadConfigLaterFilesWin(t *testing.T) {
	base := writeConfig(t, "base.toml", `
[binder]
passes = 2
`)
	override := writeConfig(t, "override.toml", `
[binder]
passes = 7
`)

	cfg, err := LoadConfig(base, override)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Binder.Passes)
}

func TestLoadConfigSkipsMissingFiles(t *testing.T) {
	cfg, err := LoadConfig("", filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Binder.Passes)
}

func TestLoadConfigRejectsBadTOML(t *testing.T) {
	path := writeConfig(t, "bad.toml", "not = [valid")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestDurationGettersFallBackOnGarbage(t *testing.T) {
	d := DictionaryConfig{Timeout: "soon"}
	assert.Equal(t, 30*time.Second, d.GetTimeout())

	b := BinderConfig{Interval: ""}
	assert.Equal(t, time.Second, b.GetInterval())

	tt := TooltipConfig{HideDelay: "later"}
	assert.Equal(t, 140*time.Millisecond, tt.GetHideDelay())
}
