// Package config handles global nb configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Environment variables that override the config file.
const (
	EnvConfig = "NB_CONFIG"
	EnvStore  = "NB_STORE"
)

// Defaults applied to unset fields.
const (
	DefaultBackend          = "sqlite"
	DefaultFormat           = "csv"
	DefaultTimeFormat       = "relative"
	DefaultDashboardColumns = 4
	DefaultIndexCeiling     = 10000
)

// Accepted values, kept here so validation does not depend on the packages
// that implement them.
var (
	backends    = []any{"sqlite", "file", "memory"}
	formats     = []any{"csv", "table", "chart", "graph", "json", "yaml", "markdown"}
	timeFormats = []any{"unix", "relative", "date"}
)

// Config represents the global nb configuration.
type Config struct {
	Store      StoreConfig      `toml:"store"`
	Display    DisplayConfig    `toml:"display"`
	References ReferencesConfig `toml:"references"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// StoreConfig selects where streams are kept.
type StoreConfig struct {
	// Backend is "sqlite" (default) or "file".
	Backend string `toml:"backend"`

	// Path is the database or JSON file. "~/" expands to the home directory.
	// Empty means the default under the user data directory.
	Path string `toml:"path"`
}

// DisplayConfig holds defaults for `stream show` and `stream dashboard`.
type DisplayConfig struct {
	Format           string `toml:"format"`
	TimeFormat       string `toml:"time_format"`
	DashboardColumns int    `toml:"dashboard_columns"`
}

// ReferencesConfig tunes how note references are read.
type ReferencesConfig struct {
	// IndexCeiling is the largest reference read as a position rather than a timestamp.
	IndexCeiling int64 `toml:"index_ceiling"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an ANSI color code ("0" to "255") or a hex color ("#RRGGBB").
	Accent string `toml:"accent"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = DefaultBackend
	}
	if c.Display.Format == "" {
		c.Display.Format = DefaultFormat
	}
	if c.Display.TimeFormat == "" {
		c.Display.TimeFormat = DefaultTimeFormat
	}
	if c.Display.DashboardColumns == 0 {
		c.Display.DashboardColumns = DefaultDashboardColumns
	}
	if c.References.IndexCeiling == 0 {
		c.References.IndexCeiling = DefaultIndexCeiling
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Display.Validate(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	if err := c.References.Validate(); err != nil {
		return fmt.Errorf("references: %w", err)
	}
	return nil
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(backends...)),
	)
}

// Validate validates the display configuration.
func (c *DisplayConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.In(formats...)),
		validation.Field(&c.TimeFormat, validation.In(timeFormats...)),
		validation.Field(&c.DashboardColumns, validation.Min(1), validation.Max(12)),
	)
}

// Validate validates the reference configuration.
func (c *ReferencesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.IndexCeiling, validation.Min(int64(1))),
	)
}

// StorePath returns the store location: $NB_STORE, then the configured path,
// then the default for the backend.
func (c *Config) StorePath() string {
	if env := strings.TrimSpace(os.Getenv(EnvStore)); env != "" {
		return ExpandHome(env)
	}
	if c.Store.Path != "" {
		return ExpandHome(c.Store.Path)
	}
	return DefaultStorePath(c.Store.Backend)
}

// DefaultStorePath returns the default store file for a backend,
// under $XDG_DATA_HOME/nb or ~/.local/share/nb.
func DefaultStorePath(backend string) string {
	name := "nb.db"
	if backend == "file" {
		name = "nb.json"
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "nb", name)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "nb", name)
	}
	return filepath.Join(".", name)
}

// ExpandHome expands a leading "~/" to the home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	return LoadOrDefault(DefaultPath())
}

// LoadOrDefault loads path, or returns defaults when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom loads and validates the configuration at path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

// ResolveConfigPath returns explicit with "~/" expanded, or DefaultPath when
// explicit is blank.
func ResolveConfigPath(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return ExpandHome(p)
	}
	return DefaultPath()
}

// DefaultPath returns the config file path.
// $NB_CONFIG wins; otherwise ~/.config/nb/config.toml is preferred when it
// exists (XDG style), then the OS-specific location.
func DefaultPath() string {
	if env := strings.TrimSpace(os.Getenv(EnvConfig)); env != "" {
		return ExpandHome(env)
	}

	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "nb", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "nb", "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

const defaultConfigTemplate = `# nb configuration

[store]
# sqlite (default) or file
backend = "sqlite"
# Defaults to ~/.local/share/nb/nb.db (nb.json for the file backend).
# path = "~/.local/share/nb/nb.db"

[display]
# csv, table, chart, graph, json, yaml or markdown
format = "csv"
# unix, relative or date
time_format = "relative"
dashboard_columns = 4

[references]
# References up to this value are positions; larger ones are timestamps.
index_ceiling = 10000

# [ui]
# ANSI color code (0-255) or hex (#RRGGBB); "none" disables the accent.
# accent = "#A78BFA"
`

// CreateDefault writes a commented config to path unless one exists.
// It reports whether a file was created.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
