package config

// DefaultConfig returns the built-in configuration: a local collaborator,
// a week of radar range, and the 15-minute active-task lookahead.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL:        "http://127.0.0.1:8000",
			TimeoutSeconds: 60,
		},
		Views: ViewConfig{
			ScanDays:         7,
			CellsPerHour:     4,
			LookaheadMinutes: 15,
			MinArcDegrees:    2,
		},
		Reminders: ReminderConfig{
			Enabled: true,
		},
	}
}
