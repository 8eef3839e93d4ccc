package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load("", "")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.API.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.Views.ScanDays != 7 {
		t.Errorf("scan days = %d, want 7", cfg.Views.ScanDays)
	}
	if cfg.Views.LookaheadMinutes != 15 {
		t.Errorf("lookahead = %d, want 15", cfg.Views.LookaheadMinutes)
	}
	if !cfg.Reminders.Enabled {
		t.Error("reminders should default to enabled")
	}
}

func TestLoadMissingFilesNotError(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "nope.json"), filepath.Join(dir, "also-nope.json"))
	if err != nil {
		t.Fatalf("missing files must not be errors: %v", err)
	}
	if cfg.Views.CellsPerHour != 4 {
		t.Errorf("cells per hour = %d, want default 4", cfg.Views.CellsPerHour)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", "{not json")

	if _, err := Load(path, ""); err == nil {
		t.Fatal("malformed JSON must be an error")
	}
}

func TestProjectOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	global := writeFile(t, dir, "global.json", `{"api":{"base_url":"http://global:8000"},"views":{"scan_days":10}}`)
	project := writeFile(t, dir, "project.json", `{"api":{"base_url":"http://project:8000"}}`)

	cfg, err := Load(global, project)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.API.BaseURL != "http://project:8000" {
		t.Errorf("base url = %q, project config must win", cfg.API.BaseURL)
	}
	if cfg.Views.ScanDays != 10 {
		t.Errorf("scan days = %d, global value must survive when project omits it", cfg.Views.ScanDays)
	}
}

func TestRemindersTriState(t *testing.T) {
	dir := t.TempDir()

	// Omitting the field keeps the default.
	omitted := writeFile(t, dir, "omitted.json", `{"api":{"base_url":"http://x:1"}}`)
	cfg, err := Load(omitted, "")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Reminders.Enabled {
		t.Error("omitted reminders field must keep the enabled default")
	}

	// Explicit false disables.
	disabled := writeFile(t, dir, "disabled.json", `{"reminders":{"enabled":false}}`)
	cfg, err = Load(disabled, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Reminders.Enabled {
		t.Error("explicit false must disable reminders")
	}
}

func TestViewZeroesAreSettings(t *testing.T) {
	dir := t.TempDir()

	// Omitting the fields keeps the defaults.
	omitted := writeFile(t, dir, "omitted.json", `{"views":{"scan_days":10}}`)
	cfg, err := Load(omitted, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Views.LookaheadMinutes != 15 {
		t.Errorf("lookahead = %d, omitted field must keep the default", cfg.Views.LookaheadMinutes)
	}
	if cfg.Views.MinArcDegrees != 2 {
		t.Errorf("min arc = %v, omitted field must keep the default", cfg.Views.MinArcDegrees)
	}

	// Explicit zeroes disable the lookahead and the arc floor.
	zeroed := writeFile(t, dir, "zeroed.json", `{"views":{"lookahead_minutes":0,"min_arc_degrees":0}}`)
	cfg, err = Load(zeroed, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Views.LookaheadMinutes != 0 {
		t.Errorf("lookahead = %d, explicit 0 must win over the default", cfg.Views.LookaheadMinutes)
	}
	if cfg.Views.MinArcDegrees != 0 {
		t.Errorf("min arc = %v, explicit 0 must win over the default", cfg.Views.MinArcDegrees)
	}
}

func TestScanDaysClamped(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", `{"views":{"scan_days":90}}`)

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Views.ScanDays != MaxScanDays {
		t.Errorf("scan days = %d, want clamped to %d", cfg.Views.ScanDays, MaxScanDays)
	}
}

func TestClampScanDays(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{in: 1, want: MinScanDays},
		{in: 7, want: 7},
		{in: 15, want: 15},
		{in: 30, want: 30},
		{in: 31, want: MaxScanDays},
	}
	for _, tt := range tests {
		if got := ClampScanDays(tt.in); got != tt.want {
			t.Errorf("ClampScanDays(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://saved:9000"
	cfg.Views.ScanDays = 14

	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.API.BaseURL != "http://saved:9000" {
		t.Errorf("base url after round trip = %q", loaded.API.BaseURL)
	}
	if loaded.Views.ScanDays != 14 {
		t.Errorf("scan days after round trip = %d", loaded.Views.ScanDays)
	}
}
