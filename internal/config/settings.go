package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings holds per-user goalplan preferences.
type Settings struct {
	Output   OutputSettings   `toml:"output"`
	Store    StoreSettings    `toml:"store"`
	Scenario ScenarioSettings `toml:"scenario"`
	Simulate SimulateSettings `toml:"simulate"`
}

// OutputSettings holds report defaults.
type OutputSettings struct {
	Format    string `toml:"format"`
	Directory string `toml:"directory,omitempty"`
	NoColor   bool   `toml:"no_color"`
}

// StoreSettings holds the goal store location.
type StoreSettings struct {
	Path string `toml:"path,omitempty"`
}

// ScenarioSettings holds what-if defaults for the compare command.
type ScenarioSettings struct {
	Rates   []float64 `toml:"rates,omitempty"`
	Offsets []int     `toml:"offsets,omitempty"`
	Mode    string    `toml:"mode,omitempty"`
}

// SimulateSettings holds Monte Carlo defaults for the simulate command.
type SimulateSettings struct {
	Runs       int     `toml:"runs"`
	Volatility float64 `toml:"volatility"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		Output: OutputSettings{
			Format: "console",
		},
		Scenario: ScenarioSettings{
			Rates:   []float64{4, 6, 8},
			Offsets: []int{-12, 0, 12},
			Mode:    "combined",
		},
		Simulate: SimulateSettings{
			Runs:       1000,
			Volatility: 12,
		},
	}
}

// SettingsDir returns the XDG-compliant config directory.
func SettingsDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "goalplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "goalplan")
}

// SettingsPath returns the full path to the settings file.
func SettingsPath() string {
	return filepath.Join(SettingsDir(), "config.toml")
}

// StorePath returns the configured store path, or a file next to the settings.
func (s Settings) StorePath() string {
	if s.Store.Path != "" {
		return s.Store.Path
	}
	if env := os.Getenv("GOALPLAN_STORE"); env != "" {
		return env
	}
	return filepath.Join(SettingsDir(), "goals.db")
}

// LoadSettings reads the settings file, returning defaults if it doesn't exist.
func LoadSettings() (Settings, error) {
	return LoadSettingsFrom(SettingsPath())
}

// LoadSettingsFrom reads settings from path, returning defaults if it doesn't exist.
func LoadSettingsFrom(path string) (Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading settings: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing settings: %w", err)
	}

	return cfg, nil
}

// SaveSettings writes the settings to disk.
func SaveSettings(cfg Settings) error {
	return SaveSettingsTo(SettingsPath(), cfg)
}

// SaveSettingsTo writes the settings to path, creating its directory.
func SaveSettingsTo(path string, cfg Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}
