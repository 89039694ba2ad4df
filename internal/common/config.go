package common

import (
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for termgloss.
type Config struct {
	Dictionary DictionaryConfig `toml:"dictionary"`
	Binder     BinderConfig     `toml:"binder"`
	Tooltip    TooltipConfig    `toml:"tooltip"`
	Logging    LoggingConfig    `toml:"logging"`
}

// DictionaryConfig locates the term data file. File is resolved against
// BaseURL, so by convention the dictionary sits next to whatever serves
// the content.
type DictionaryConfig struct {
	BaseURL string `toml:"base_url"`
	File    string `toml:"file"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the fetch timeout duration.
func (c *DictionaryConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// BinderConfig bounds the re-scan schedule for late-arriving markers.
type BinderConfig struct {
	Passes   int    `toml:"passes"`
	Interval string `toml:"interval"`
}

// GetInterval parses and returns the delay between binding passes.
func (c *BinderConfig) GetInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return time.Second
	}
	return d
}

// TooltipConfig tunes placement and timing. Margin and GrowBuffer are in
// host units (terminal cells for the tview host).
type TooltipConfig struct {
	Margin     int    `toml:"margin"`
	HideDelay  string `toml:"hide_delay"`
	GrowBuffer int    `toml:"grow_buffer"`
	MaxWidth   int    `toml:"max_width"`
}

// GetHideDelay parses and returns the hover-off hide delay.
func (c *TooltipConfig) GetHideDelay() time.Duration {
	d, err := time.ParseDuration(c.HideDelay)
	if err != nil {
		return 140 * time.Millisecond
	}
	return d
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `toml:"level"`
	FilePath string `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Dictionary: DictionaryConfig{
			File:    "glossary.json",
			Timeout: "30s",
		},
		Binder: BinderConfig{
			Passes:   5,
			Interval: "1s",
		},
		Tooltip: TooltipConfig{
			Margin:     1,
			HideDelay:  "140ms",
			GrowBuffer: 2,
			MaxWidth:   44,
		},
		Logging: LoggingConfig{
			Level:    "info",
			FilePath: "",
		},
	}
}

// LoadConfig loads configuration from files. Later files override earlier
// ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	return config, nil
}
