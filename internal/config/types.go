package config

// APIConfig points at the planning/verification collaborator.
type APIConfig struct {
	BaseURL        string `json:"base_url"`        // Collaborator endpoint, e.g. "http://127.0.0.1:8000"
	TimeoutSeconds int    `json:"timeout_seconds"` // Per-request timeout
}

// ViewConfig tunes the timeline strip and the temporal radar.
type ViewConfig struct {
	ScanDays         int     `json:"scan_days"`          // Radar scan range in days (7..30)
	CellsPerHour     int     `json:"cells_per_hour"`     // Horizontal resolution of the timeline strip
	LookaheadMinutes int     `json:"lookahead_minutes"`  // Active-task window opens this early
	MinArcDegrees    float64 `json:"min_arc_degrees"`    // Smallest visible radar arc
}

// ReminderConfig controls the scheduled-reminder scan.
type ReminderConfig struct {
	Enabled bool `json:"enabled"`
}

// AppConfig is the top-level configuration.
type AppConfig struct {
	API       APIConfig      `json:"api"`
	Views     ViewConfig     `json:"views"`
	Reminders ReminderConfig `json:"reminders"`
	DBPath    string         `json:"db_path,omitempty"` // Local cache location; empty means the default under ~/.kryta
}

// Radar scan range bounds; the TUI clamps zoom within these.
const (
	MinScanDays = 7
	MaxScanDays = 30
)

// ClampScanDays forces a scan range into the supported window.
func ClampScanDays(days int) int {
	if days < MinScanDays {
		return MinScanDays
	}
	if days > MaxScanDays {
		return MaxScanDays
	}
	return days
}
