package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/masomo/roster/internal/util"
)

// Config represents roster's config.toml
type Config struct {
	API      APIConfig      `toml:"api"`
	Table    TableConfig    `toml:"table"`
	Database DatabaseConfig `toml:"database"`
}

// APIConfig contains masomo API settings
type APIConfig struct {
	URL     string `toml:"url" config:"api.url" desc:"Base URL of the masomo API"`
	Timeout int    `toml:"timeout" config:"api.timeout" default:"15" min:"1" max:"600" desc:"Request timeout in seconds"`
}

// TableConfig contains list screen settings
type TableConfig struct {
	PageSize      int `toml:"page_size" config:"table.page_size" default:"7" min:"1" max:"500" desc:"Rows per page"`
	SearchDelayMS int `toml:"search_delay_ms" config:"table.search_delay_ms" default:"300" min:"0" max:"5000" desc:"Pause after typing before search applies (0 = instant)"`
	Window        int `toml:"window" config:"table.window" default:"7" min:"1" max:"25" desc:"Page buttons shown in the pager"`
}

// DatabaseConfig contains the PostgreSQL source used by `roster query`
type DatabaseConfig struct {
	URL string `toml:"url" config:"database.url" desc:"PostgreSQL connection URL for roster query"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Timeout: 15,
		},
		Table: TableConfig{
			PageSize:      7,
			SearchDelayMS: 300,
			Window:        7,
		},
	}
}

// Load reads the config file, falling back to defaults when it doesn't
// exist. Environment overrides are applied last.
func Load() (*Config, error) {
	return LoadFrom(util.ConfigPath())
}

// LoadFrom reads the config file at path.
func LoadFrom(path string) (*Config, error) {
	cfg, err := LoadFileFrom(path)
	if err != nil {
		return nil, err
	}

	if url := os.Getenv("ROSTER_API_URL"); url != "" {
		cfg.API.URL = url
	}
	if url := os.Getenv("ROSTER_DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}

	return cfg, nil
}

// LoadFile reads the config file without environment overrides. Use it
// when the config is going to be saved back.
func LoadFile() (*Config, error) {
	return LoadFileFrom(util.ConfigPath())
}

// LoadFileFrom reads the config file at path without environment overrides.
func LoadFileFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults for any missing values
	defaults := DefaultConfig()
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = defaults.API.Timeout
	}
	if cfg.Table.PageSize == 0 {
		cfg.Table.PageSize = defaults.Table.PageSize
	}
	if cfg.Table.Window == 0 {
		cfg.Table.Window = defaults.Table.Window
	}
	// NOTE: SearchDelayMS is NOT defaulted here because 0 is a valid value
	// (apply on every keystroke).

	return cfg, nil
}

// Save writes the config file
func (c *Config) Save() error {
	return c.SaveTo(util.ConfigPath())
}

// SaveTo writes the config file at path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// RequestTimeout returns the API timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.Timeout) * time.Second
}

// SearchDelay returns the debounce delay for table search. A configured
// zero means no delay, which tabular.Options expresses as a negative value.
func (c *Config) SearchDelay() time.Duration {
	if c.Table.SearchDelayMS == 0 {
		return -1
	}
	return time.Duration(c.Table.SearchDelayMS) * time.Millisecond
}

// GetValue returns a config value by key (uses reflection)
func (c *Config) GetValue(key string) (string, bool) {
	return getFieldValue(c, key)
}

// SetValue sets a config value by key (uses reflection with validation)
func (c *Config) SetValue(key, value string) error {
	return setFieldValue(c, key, value)
}
