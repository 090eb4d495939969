// Package config handles global autofolder configuration, machine-local
// state, and per-vault settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultDebounce is the watcher debounce used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// Config represents the global autofolder configuration.
type Config struct {
	// DefaultVault is the name of the default vault (from Vaults map).
	DefaultVault string `toml:"default_vault"`

	// StateFile overrides where state.toml lives (relative to the config dir
	// unless absolute).
	StateFile string `toml:"state_file"`

	// Vaults is a map of vault names to paths.
	Vaults map[string]string `toml:"vaults"`

	// Log configures the diagnostic log.
	Log LogConfig `toml:"log"`

	// Watch tunes the file watcher.
	Watch WatchConfig `toml:"watch"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: warn).
	Level string `toml:"level"`
	// Format is text or json (default: text).
	Format string `toml:"format"`
	// Output is stderr, stdout or a file path (default: stderr).
	Output string `toml:"output"`
}

// WatchConfig tunes the file watcher.
type WatchConfig struct {
	// DebounceMS delays handling of a creation event so editors can finish
	// writing the file (default: 100).
	DebounceMS int `toml:"debounce_ms"`
}

// Debounce returns the configured debounce delay.
func (w WatchConfig) Debounce() time.Duration {
	if w.DebounceMS <= 0 {
		return DefaultDebounce
	}
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// GetVaultPath returns the path for a named vault.
// If name is empty, returns the default vault path.
func (c *Config) GetVaultPath(name string) (string, error) {
	if name == "" {
		name = c.DefaultVault
	}
	if name == "" {
		return "", fmt.Errorf("no default vault configured")
	}
	if path, ok := c.Vaults[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("vault '%s' not found in config", name)
}

// GetDefaultVaultPath returns the default vault path.
func (c *Config) GetDefaultVaultPath() (string, error) {
	return c.GetVaultPath("")
}

// ListVaults returns all configured vaults with their paths.
func (c *Config) ListVaults() map[string]string {
	result := make(map[string]string, len(c.Vaults))
	for name, path := range c.Vaults {
		result[name] = path
	}
	return result
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/autofolder/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "autofolder", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "autofolder", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}
