package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/autofolder/internal/atomicfile"
)

// DataDir is the hidden per-vault directory holding settings and the move
// journal. The watcher and the note walk never descend into it.
const DataDir = ".autofolder"

// SettingsFile is the settings file name inside DataDir.
const SettingsFile = "settings.yaml"

// Settings represents per-vault settings from .autofolder/settings.yaml.
type Settings struct {
	// AutoMove moves newly created notes automatically while `autofolder watch`
	// runs (default: true). The manual `autofolder move` ignores it.
	AutoMove *bool `yaml:"auto_move,omitempty"`
}

// DefaultSettings returns the settings used when nothing is persisted.
func DefaultSettings() *Settings {
	return &Settings{AutoMove: boolPtr(true)}
}

// IsAutoMoveEnabled returns the effective auto-move flag.
func (s *Settings) IsAutoMoveEnabled() bool {
	if s == nil || s.AutoMove == nil {
		return true
	}
	return *s.AutoMove
}

// SetAutoMove sets the auto-move flag.
func (s *Settings) SetAutoMove(enabled bool) {
	s.AutoMove = boolPtr(enabled)
}

// SettingsPath returns the settings file path for a vault.
func SettingsPath(vaultPath string) string {
	return filepath.Join(vaultPath, DataDir, SettingsFile)
}

// LoadSettings loads the vault's settings merged over DefaultSettings.
// A missing file yields the defaults.
func LoadSettings(vaultPath string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(SettingsPath(vaultPath))
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var stored Settings
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", SettingsFile, err)
	}
	if stored.AutoMove != nil {
		settings.AutoMove = stored.AutoMove
	}
	return settings, nil
}

// SaveSettings writes the vault's settings atomically.
func SaveSettings(vaultPath string, s *Settings) error {
	if s == nil {
		s = DefaultSettings()
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := atomicfile.WriteFile(SettingsPath(vaultPath), data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
