package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/kryta/internal/config"
)

// SettingsPaneModel manages the settings form overlay.
type SettingsPaneModel struct {
	form        *huh.Form
	config      *config.AppConfig
	globalPath  string
	projectPath string
	width       int
	height      int
	visible     bool
	saved       bool
	err         error

	// Form field bindings (strings for Huh)
	saveTarget string
	baseURL    string
	apiKey     string
	scanDays   string
	reminders  bool
}

// NewSettingsPaneModel creates a new settings pane.
func NewSettingsPaneModel(cfg *config.AppConfig, globalPath, projectPath string) SettingsPaneModel {
	m := SettingsPaneModel{
		config:      cfg,
		globalPath:  globalPath,
		projectPath: projectPath,

		saveTarget: "global",
		baseURL:    cfg.API.BaseURL,
		scanDays:   strconv.Itoa(cfg.Views.ScanDays),
		reminders:  cfg.Reminders.Enabled,
	}

	m.buildForm()
	return m
}

// buildForm constructs the Huh form with all settings fields.
func (m *SettingsPaneModel) buildForm() {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("saveTarget").
				Title("Save To").
				Options(
					huh.NewOption("Global (~/.kryta/config.json)", "global"),
					huh.NewOption("Project (.kryta/config.json)", "project"),
				).
				Value(&m.saveTarget),
		).Title("Save Target"),

		huh.NewGroup(
			huh.NewInput().
				Key("baseURL").
				Title("Backend URL").
				Value(&m.baseURL).
				Placeholder("http://127.0.0.1:8000"),

			huh.NewInput().
				Key("apiKey").
				Title("LLM API Key").
				Description("Stored by the backend, not in the config file. Leave empty to keep the current key.").
				EchoMode(huh.EchoModePassword).
				Value(&m.apiKey),
		).Title("Backend"),

		huh.NewGroup(
			huh.NewInput().
				Key("scanDays").
				Title("Radar Scan Range (days)").
				Value(&m.scanDays).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil {
						return fmt.Errorf("must be a number")
					}
					if n < config.MinScanDays || n > config.MaxScanDays {
						return fmt.Errorf("must be between %d and %d", config.MinScanDays, config.MaxScanDays)
					}
					return nil
				}),

			huh.NewConfirm().
				Key("reminders").
				Title("Scheduled Reminders").
				Value(&m.reminders),
		).Title("Views"),
	)
}

// Init initializes the settings pane.
func (m SettingsPaneModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the settings pane.
func (m SettingsPaneModel) Update(msg tea.Msg) (SettingsPaneModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == KeyEsc {
		// Cancel without saving
		m.visible = false
		m.saved = false
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.applyFormToConfig()

		targetPath := m.globalPath
		if m.saveTarget == "project" {
			targetPath = m.projectPath
		}

		if err := config.Save(m.config, targetPath); err != nil {
			m.err = err
			m.saved = false
		} else {
			m.saved = true
			m.err = nil
			m.visible = false
		}
	}

	return m, cmd
}

// applyFormToConfig copies form field values back to the config struct.
func (m *SettingsPaneModel) applyFormToConfig() {
	if m.baseURL != "" {
		m.config.API.BaseURL = m.baseURL
	}
	if n, err := strconv.Atoi(m.scanDays); err == nil {
		m.config.Views.ScanDays = config.ClampScanDays(n)
	}
	m.config.Reminders.Enabled = m.reminders
}

// PendingAPIKey returns the key entered in the form, if any. The root model
// forwards it to the backend after a save; the key never touches the config
// file.
func (m *SettingsPaneModel) PendingAPIKey() string {
	key := m.apiKey
	m.apiKey = ""
	return key
}

// Saved reports whether the last form completion persisted successfully.
func (m SettingsPaneModel) Saved() bool {
	return m.saved
}

// View renders the settings pane.
func (m SettingsPaneModel) View() string {
	if !m.visible {
		return ""
	}

	var content string
	if m.saved && m.form.State == huh.StateCompleted {
		content = StyleSuccess.Render("✓ Settings saved!")
	} else if m.err != nil {
		content = StyleError.Render(fmt.Sprintf("✗ Error saving: %v", m.err))
	} else {
		content = m.form.View()
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(m.width - 4).
		Height(m.height - 4)

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Render("⚙ Settings")

	return lipgloss.JoinVertical(lipgloss.Left, title, style.Render(content))
}

// SetSize updates the dimensions of the settings pane.
func (m *SettingsPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.form != nil {
		m.form.WithWidth(w - 8).WithHeight(h - 8)
	}
}

// SetVisible shows or hides the settings pane.
func (m *SettingsPaneModel) SetVisible(v bool) {
	m.visible = v
	m.saved = false
	m.err = nil

	if v {
		m.baseURL = m.config.API.BaseURL
		m.scanDays = strconv.Itoa(m.config.Views.ScanDays)
		m.reminders = m.config.Reminders.Enabled
		m.apiKey = ""
		m.buildForm()
	}
}

// IsVisible returns whether the settings pane is currently visible.
func (m SettingsPaneModel) IsVisible() bool {
	return m.visible
}
