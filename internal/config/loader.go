// Package config loads and persists the application's JSON configuration,
// merging defaults, a global file, and a project file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads and merges configuration from global and project paths.
// Precedence (highest to lowest): project config, global config, defaults.
// Missing files are not errors; malformed JSON is.
func Load(globalPath, projectPath string) (*AppConfig, error) {
	cfg := DefaultConfig()

	if globalPath != "" {
		if err := mergeConfigFile(cfg, globalPath); err != nil {
			return nil, fmt.Errorf("loading global config: %w", err)
		}
	}

	if projectPath != "" {
		if err := mergeConfigFile(cfg, projectPath); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
	}

	cfg.Views.ScanDays = ClampScanDays(cfg.Views.ScanDays)
	return cfg, nil
}

// LoadDefault loads configuration from the conventional paths.
// Global: ~/.kryta/config.json
// Project: .kryta/config.json (relative to cwd)
func LoadDefault() (*AppConfig, error) {
	globalPath, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return Load(globalPath, ProjectPath())
}

// GlobalPath returns the per-user config file location.
func GlobalPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".kryta", "config.json"), nil
}

// ProjectPath returns the per-project config file location.
func ProjectPath() string {
	return filepath.Join(".kryta", "config.json")
}

// DefaultDBPath returns the cache database location, honoring an explicit
// override from the config file.
func DefaultDBPath(cfg *AppConfig) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".kryta", "cache.db"), nil
}

// mergeConfigFile reads a JSON config file and overlays its non-zero fields
// onto the base config. Missing files are silently skipped.
func mergeConfigFile(base *AppConfig, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	// Fields where zero is a meaningful setting (reminders off, zero
	// lookahead, no arc floor) are decoded through pointers so absent and
	// zero stay distinct.
	var loaded struct {
		API   APIConfig `json:"api"`
		Views struct {
			ScanDays         int      `json:"scan_days"`
			CellsPerHour     int      `json:"cells_per_hour"`
			LookaheadMinutes *int     `json:"lookahead_minutes"`
			MinArcDegrees    *float64 `json:"min_arc_degrees"`
		} `json:"views"`
		Reminders struct {
			Enabled *bool `json:"enabled"`
		} `json:"reminders"`
		DBPath string `json:"db_path"`
	}
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if loaded.API.BaseURL != "" {
		base.API.BaseURL = loaded.API.BaseURL
	}
	if loaded.API.TimeoutSeconds > 0 {
		base.API.TimeoutSeconds = loaded.API.TimeoutSeconds
	}
	if loaded.Views.ScanDays > 0 {
		base.Views.ScanDays = loaded.Views.ScanDays
	}
	if loaded.Views.CellsPerHour > 0 {
		base.Views.CellsPerHour = loaded.Views.CellsPerHour
	}
	if loaded.Views.LookaheadMinutes != nil && *loaded.Views.LookaheadMinutes >= 0 {
		base.Views.LookaheadMinutes = *loaded.Views.LookaheadMinutes
	}
	if loaded.Views.MinArcDegrees != nil && *loaded.Views.MinArcDegrees >= 0 {
		base.Views.MinArcDegrees = *loaded.Views.MinArcDegrees
	}
	if loaded.DBPath != "" {
		base.DBPath = loaded.DBPath
	}
	if loaded.Reminders.Enabled != nil {
		base.Reminders.Enabled = *loaded.Reminders.Enabled
	}

	return nil
}
