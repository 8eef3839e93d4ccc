package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/kryta/internal/config"
	"github.com/aristath/kryta/internal/dashboard"
	"github.com/aristath/kryta/internal/lifecycle"
	"github.com/aristath/kryta/internal/timemap"
)

// RadarPaneModel renders the temporal radar: one ring per day, noon at the
// top, each task an arc at its time of day. Zoom adjusts the scan range in
// whole days within the configured bounds.
type RadarPaneModel struct {
	agg         *dashboard.Aggregator
	tasks       []*lifecycle.Task
	entries     []dashboard.RadarEntry
	scanDays    int
	selectedIdx int
	now         time.Time
	width       int
	height      int
	focused     bool
}

// NewRadarPaneModel creates a radar pane with the given initial scan range.
func NewRadarPaneModel(agg *dashboard.Aggregator, scanDays int) RadarPaneModel {
	return RadarPaneModel{
		agg:      agg,
		scanDays: config.ClampScanDays(scanDays),
		now:      time.Now(),
	}
}

// SetTasks replaces the full task collection and reprojects the window.
func (m *RadarPaneModel) SetTasks(tasks []*lifecycle.Task) {
	m.tasks = tasks
	m.reproject()
}

// SetNow updates the reference instant and reprojects, since day indices
// shift at midnight.
func (m *RadarPaneModel) SetNow(now time.Time) {
	m.now = now
	m.reproject()
}

// ScanDays returns the current scan range.
func (m RadarPaneModel) ScanDays() int {
	return m.scanDays
}

// Selected returns the highlighted radar task, or nil.
func (m RadarPaneModel) Selected() *lifecycle.Task {
	if m.selectedIdx >= 0 && m.selectedIdx < len(m.entries) {
		return m.entries[m.selectedIdx].Task
	}
	return nil
}

func (m *RadarPaneModel) reproject() {
	m.entries = m.agg.RadarWindow(m.tasks, m.now, m.scanDays)
	if m.selectedIdx >= len(m.entries) {
		m.selectedIdx = len(m.entries) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

// Update handles messages for the radar pane.
func (m RadarPaneModel) Update(msg tea.Msg) (RadarPaneModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			break
		}
		switch msg.String() {
		case KeyJ, KeyDown:
			if m.selectedIdx < len(m.entries)-1 {
				m.selectedIdx++
			}
		case KeyK, KeyUp:
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case KeyZoomIn:
			m.scanDays = config.ClampScanDays(m.scanDays - 1)
			m.reproject()
		case KeyZoomOut:
			m.scanDays = config.ClampScanDays(m.scanDays + 1)
			m.reproject()
		}
	}
	return m, nil
}

// View renders the radar pane.
func (m RadarPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := StyleTitle.Render(fmt.Sprintf("Radar · %d days", m.scanDays))
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)))
	b.WriteString("\n")

	gridHeight := m.height - 8 - min(len(m.entries), 5)
	if gridHeight < 9 {
		gridHeight = 9
	}
	b.WriteString(m.renderGrid(m.width-4, gridHeight))
	b.WriteString("\n")
	b.WriteString(m.renderLegend())

	style := StyleUnfocusedBorder
	if m.focused {
		style = StyleFocusedBorder
	}
	return style.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(b.String())
}

// renderGrid plots the rings and arcs on a character grid. Terminal cells
// are roughly twice as tall as wide, so x coordinates are stretched by two.
func (m RadarPaneModel) renderGrid(w, h int) string {
	if w < 10 || h < 5 {
		return ""
	}

	grid := make([][]string, h)
	for y := range grid {
		grid[y] = make([]string, w)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	cx := float64(w) / 2
	cy := float64(h) / 2
	maxRadius := cy - 1
	if float64(w)/4-1 < maxRadius {
		maxRadius = float64(w)/4 - 1
	}

	plot := func(radius, angle float64, s string) {
		x, y := timemap.PolarToCartesian(cx, cy, radius, angle)
		// Stretch x around the center to compensate for cell aspect.
		gx := int(cx + (x-cx)*2)
		gy := int(y)
		if gx >= 0 && gx < w && gy >= 0 && gy < h {
			grid[gy][gx] = s
		}
	}

	// Day rings, innermost is today.
	faint := StyleTaskPast.Render("·")
	for day := 0; day < m.scanDays; day++ {
		radius := m.ringRadius(day, maxRadius)
		for a := 0.0; a < 360; a += 6 {
			plot(radius, a, faint)
		}
	}

	// Current time sweep on the today ring.
	plot(m.ringRadius(0, maxRadius), timemap.SolarAngle(timemap.Minutes(m.now)), StyleTimer.Render("▶"))

	// Task arcs.
	for i, e := range m.entries {
		style := taskStyle(
			e.Task.IsUrgent,
			e.Task.Priority == lifecycle.PriorityHigh,
			e.Task.Status == lifecycle.StatusCompleted,
			false,
		)
		dot := style.Render("●")
		if i == m.selectedIdx {
			dot = StyleSelected.Render("●")
		}
		radius := m.ringRadius(e.DayIndex, maxRadius)
		for a := e.AngleStart; a <= e.AngleEnd; a += 2 {
			plot(radius, a, dot)
		}
	}

	grid[int(cy)][int(cx)] = StyleHUD.Render("✦")

	rows := make([]string, h)
	for y := range grid {
		rows[y] = strings.Join(grid[y], "")
	}
	return strings.Join(rows, "\n")
}

// ringRadius spaces the day rings evenly, keeping the today ring away from
// the center glyph.
func (m RadarPaneModel) ringRadius(day int, maxRadius float64) float64 {
	return maxRadius * (float64(day) + 2) / (float64(m.scanDays) + 1)
}

// renderLegend lists the nearest upcoming entries with their day offsets.
func (m RadarPaneModel) renderLegend() string {
	if len(m.entries) == 0 {
		return StyleTaskPast.Render("Nothing inside the scan range.")
	}

	var b strings.Builder
	shown := 0
	for i, e := range m.entries {
		if shown >= 5 {
			b.WriteString(StyleTaskPast.Render(fmt.Sprintf("… and %d more", len(m.entries)-shown)))
			break
		}
		day := "today"
		if e.DayIndex == 1 {
			day = "tomorrow"
		} else if e.DayIndex > 1 {
			day = fmt.Sprintf("+%dd", e.DayIndex)
		}
		line := fmt.Sprintf("%s %s %s  %s", statusIcon(e.Task.Status), e.Task.ScheduledTime, day, e.Task.Title)
		if i == m.selectedIdx {
			line = StyleSelected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
		shown++
	}
	return strings.TrimRight(b.String(), "\n")
}

// SetSize updates the pane dimensions.
func (m *RadarPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused updates the focus state.
func (m *RadarPaneModel) SetFocused(focused bool) {
	m.focused = focused
}
