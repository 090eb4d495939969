package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/autofolder/internal/atomicfile"
)

type persistedConfig struct {
	DefaultVault *string               `toml:"default_vault,omitempty"`
	StateFile    *string               `toml:"state_file,omitempty"`
	Vaults       map[string]string     `toml:"vaults,omitempty"`
	Log          *persistedLogConfig   `toml:"log,omitempty"`
	Watch        *persistedWatchConfig `toml:"watch,omitempty"`
}

type persistedLogConfig struct {
	Level  *string `toml:"level,omitempty"`
	Format *string `toml:"format,omitempty"`
	Output *string `toml:"output,omitempty"`
}

type persistedWatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Save writes the global config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the global config to a specific path atomically. Empty values
// are omitted so the file stays minimal.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		DefaultVault: nonEmptyPtr(cfg.DefaultVault),
		StateFile:    nonEmptyPtr(cfg.StateFile),
	}
	if len(cfg.Vaults) > 0 {
		out.Vaults = cfg.Vaults
	}

	level := nonEmptyPtr(cfg.Log.Level)
	format := nonEmptyPtr(cfg.Log.Format)
	output := nonEmptyPtr(cfg.Log.Output)
	if level != nil || format != nil || output != nil {
		out.Log = &persistedLogConfig{Level: level, Format: format, Output: output}
	}
	if cfg.Watch.DebounceMS > 0 {
		out.Watch = &persistedWatchConfig{DebounceMS: cfg.Watch.DebounceMS}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
