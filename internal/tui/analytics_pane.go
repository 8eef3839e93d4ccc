package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/kryta/internal/api"
)

// AnalyticsPaneModel shows completion statistics from the collaborator, or
// a reduced view built from the local attempt cache when the collaborator
// is unreachable.
type AnalyticsPaneModel struct {
	viewport viewport.Model
	data     *api.Analytics
	offline  bool
	loaded   bool
	width    int
	height   int
	focused  bool
}

// NewAnalyticsPaneModel creates an analytics pane.
func NewAnalyticsPaneModel() AnalyticsPaneModel {
	return AnalyticsPaneModel{viewport: viewport.New(0, 0)}
}

// SetAnalytics replaces the pane content. offline marks data reconstructed
// from the local cache rather than fetched.
func (m *AnalyticsPaneModel) SetAnalytics(data *api.Analytics, offline bool) {
	m.data = data
	m.offline = offline
	m.loaded = true
	m.viewport.SetContent(m.renderContent())
}

// Update handles messages for the analytics pane.
func (m AnalyticsPaneModel) Update(msg tea.Msg) (AnalyticsPaneModel, tea.Cmd) {
	var cmd tea.Cmd
	if key, ok := msg.(tea.KeyMsg); ok {
		if !m.focused {
			return m, nil
		}
		m.viewport, cmd = m.viewport.Update(key)
	}
	return m, cmd
}

// View renders the analytics pane.
func (m AnalyticsPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := StyleTitle.Render("Analytics")
	if m.offline {
		title += StyleTaskPast.Render(" (offline, from local cache)")
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())

	style := StyleUnfocusedBorder
	if m.focused {
		style = StyleFocusedBorder
	}
	return style.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(b.String())
}

func (m AnalyticsPaneModel) renderContent() string {
	if m.data == nil {
		return StyleTaskPast.Render("No statistics yet.")
	}

	var b strings.Builder
	s := m.data.Stats
	b.WriteString(fmt.Sprintf("Completion rate: %s\n", StyleSuccess.Render(fmt.Sprintf("%d%%", s.CompletionRate))))
	b.WriteString(fmt.Sprintf("Trust score:     %d\n", s.TrustScore))
	b.WriteString(fmt.Sprintf("Completed:       %s\n", StyleTaskDone.Render(fmt.Sprintf("%d", s.TotalCompleted))))
	b.WriteString(fmt.Sprintf("Failed:          %s\n", StyleTaskFailed.Render(fmt.Sprintf("%d", s.TotalFailed))))

	if len(m.data.ChartData) > 0 {
		b.WriteString("\n")
		maxCompleted := 0
		for _, p := range m.data.ChartData {
			maxCompleted = max(maxCompleted, p.Completed)
		}
		barWidth := min(m.width-24, 30)
		if barWidth < 5 {
			barWidth = 5
		}
		for _, p := range m.data.ChartData {
			bar := 0
			if maxCompleted > 0 {
				bar = (p.Completed * barWidth) / maxCompleted
			}
			b.WriteString(fmt.Sprintf("%s %s %d\n",
				p.Date,
				StyleTaskDone.Render(strings.Repeat("█", bar)),
				p.Completed))
		}
	}
	return b.String()
}

// SetSize updates the pane dimensions.
func (m *AnalyticsPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = max(w-4, 10)
	m.viewport.Height = max(h-6, 5)
	if m.loaded {
		m.viewport.SetContent(m.renderContent())
	}
}

// SetFocused updates the focus state.
func (m *AnalyticsPaneModel) SetFocused(focused bool) {
	m.focused = focused
}
