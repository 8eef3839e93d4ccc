package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/kryta/internal/api"
)

// GoalFormModel collects a goal and the available time, then hands both to
// the root model for the planning call.
type GoalFormModel struct {
	form          *huh.Form
	visible       bool
	width         int
	height        int
	goal          string
	availableTime string
}

// NewGoalForm creates the goal planning form.
func NewGoalForm() GoalFormModel {
	m := GoalFormModel{availableTime: "60"}
	m.buildForm()
	return m
}

func (m *GoalFormModel) buildForm() {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("goal").
				Title("What do you want to achieve?").
				Placeholder("e.g. finish the quarterly report").
				Value(&m.goal).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("goal cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("availableTime").
				Title("Available time (minutes)").
				Value(&m.availableTime).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
		).Title("Plan a Goal"),
	)
}

// Init initializes the form.
func (m GoalFormModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages. Done reports a completed form whose values are
// ready to read.
func (m GoalFormModel) Update(msg tea.Msg) (GoalFormModel, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == KeyEsc {
		m.visible = false
		return m, nil, false
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.visible = false
		return m, cmd, true
	}
	return m, cmd, false
}

// Values returns the submitted goal and available minutes.
func (m GoalFormModel) Values() (string, int) {
	minutes, _ := strconv.Atoi(m.availableTime)
	return strings.TrimSpace(m.goal), minutes
}

// View renders the goal form.
func (m GoalFormModel) View() string {
	if !m.visible {
		return ""
	}
	return renderFormFrame("◎ Plan a Goal", m.form.View(), m.width, m.height)
}

// SetVisible shows or hides the form, resetting its state on show.
func (m *GoalFormModel) SetVisible(v bool) {
	m.visible = v
	if v {
		m.goal = ""
		m.buildForm()
	}
}

// IsVisible returns whether the form is open.
func (m GoalFormModel) IsVisible() bool {
	return m.visible
}

// SetSize updates the form dimensions.
func (m *GoalFormModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.form != nil {
		m.form.WithWidth(w - 8)
	}
}

// OnboardFormModel is the first-run profile form. Shown until the backend
// knows the user.
type OnboardFormModel struct {
	form      *huh.Form
	visible   bool
	width     int
	height    int
	name      string
	workHours string
	coreGoals string
	badHabits string
}

// NewOnboardForm creates the onboarding form.
func NewOnboardForm() OnboardFormModel {
	m := OnboardFormModel{workHours: "09:00-17:00"}
	m.buildForm()
	return m
}

func (m *OnboardFormModel) buildForm() {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Your name").
				Value(&m.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("workHours").
				Title("Work hours").
				Placeholder("09:00-17:00").
				Value(&m.workHours),

			huh.NewInput().
				Key("coreGoals").
				Title("Core goals (comma separated)").
				Placeholder("ship the app, run a 10k").
				Value(&m.coreGoals),

			huh.NewInput().
				Key("badHabits").
				Title("Habits to break (comma separated)").
				Placeholder("doomscrolling, late nights").
				Value(&m.badHabits),
		).Title("Welcome to KRYTA"),
	)
}

// Init initializes the form.
func (m OnboardFormModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages. Done reports a completed form.
func (m OnboardFormModel) Update(msg tea.Msg) (OnboardFormModel, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.visible = false
		return m, cmd, true
	}
	return m, cmd, false
}

// Profile returns the submitted profile.
func (m OnboardFormModel) Profile() api.Profile {
	return api.Profile{
		Name:      strings.TrimSpace(m.name),
		WorkHours: strings.TrimSpace(m.workHours),
		CoreGoals: splitList(m.coreGoals),
		BadHabits: splitList(m.badHabits),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// View renders the onboarding form.
func (m OnboardFormModel) View() string {
	if !m.visible {
		return ""
	}
	return renderFormFrame("✦ Welcome", m.form.View(), m.width, m.height)
}

// SetVisible shows or hides the form.
func (m *OnboardFormModel) SetVisible(v bool) {
	m.visible = v
	if v {
		m.buildForm()
	}
}

// IsVisible returns whether the form is open.
func (m OnboardFormModel) IsVisible() bool {
	return m.visible
}

// SetSize updates the form dimensions.
func (m *OnboardFormModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.form != nil {
		m.form.WithWidth(w - 8)
	}
}

// renderFormFrame wraps a form in the shared overlay chrome.
func renderFormFrame(title, content string, w, h int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(max(w-4, 20))

	styledTitle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Render(title)

	return lipgloss.JoinVertical(lipgloss.Left, styledTitle, style.Render(content))
}
