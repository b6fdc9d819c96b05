package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/echo-bravo-yahoo/nb/internal/atomicfile"
)

type persistedConfig struct {
	Store      *persistedStore      `toml:"store,omitempty"`
	Display    *persistedDisplay    `toml:"display,omitempty"`
	References *persistedReferences `toml:"references,omitempty"`
	UI         *persistedUISettings `toml:"ui,omitempty"`
}

type persistedStore struct {
	Backend *string `toml:"backend,omitempty"`
	Path    *string `toml:"path,omitempty"`
}

type persistedDisplay struct {
	Format           *string `toml:"format,omitempty"`
	TimeFormat       *string `toml:"time_format,omitempty"`
	DashboardColumns *int    `toml:"dashboard_columns,omitempty"`
}

type persistedReferences struct {
	IndexCeiling *int64 `toml:"index_ceiling,omitempty"`
}

type persistedUISettings struct {
	Accent *string `toml:"accent,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func nonZeroPtr[T int | int64](value T) *T {
	if value == 0 {
		return nil
	}
	return &value
}

// Save writes the global config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the global config to a specific path atomically.
// Unset fields are left out so defaults can change between versions.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	var out persistedConfig
	if backend, p := nonEmptyPtr(cfg.Store.Backend), nonEmptyPtr(cfg.Store.Path); backend != nil || p != nil {
		out.Store = &persistedStore{Backend: backend, Path: p}
	}
	display := persistedDisplay{
		Format:           nonEmptyPtr(cfg.Display.Format),
		TimeFormat:       nonEmptyPtr(cfg.Display.TimeFormat),
		DashboardColumns: nonZeroPtr(cfg.Display.DashboardColumns),
	}
	if display != (persistedDisplay{}) {
		out.Display = &display
	}
	if ceiling := nonZeroPtr(cfg.References.IndexCeiling); ceiling != nil {
		out.References = &persistedReferences{IndexCeiling: ceiling}
	}
	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUISettings{Accent: accent}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
