package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/kryta/internal/dashboard"
	"github.com/aristath/kryta/internal/lifecycle"
	"github.com/aristath/kryta/internal/timemap"
)

// TimelinePaneModel renders today's tasks as a horizontal hour strip plus a
// selectable list. The strip resolution comes from config (cells per hour).
type TimelinePaneModel struct {
	agg          *dashboard.Aggregator
	tasks        []*lifecycle.Task // today's tasks, sorted by start
	selectedIdx  int
	cellsPerHour int
	now          time.Time
	width        int
	height       int
	focused      bool
}

// NewTimelinePaneModel creates a timeline pane.
func NewTimelinePaneModel(agg *dashboard.Aggregator, cellsPerHour int) TimelinePaneModel {
	if cellsPerHour <= 0 {
		cellsPerHour = 4
	}
	return TimelinePaneModel{agg: agg, cellsPerHour: cellsPerHour, now: time.Now()}
}

// SetTasks replaces the day's task list. Selection is clamped, not reset, so
// a refresh doesn't yank the cursor away.
func (m *TimelinePaneModel) SetTasks(tasks []*lifecycle.Task) {
	m.tasks = tasks
	if m.selectedIdx >= len(tasks) {
		m.selectedIdx = len(tasks) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

// SetNow updates the reference instant used for the now marker and dimming.
func (m *TimelinePaneModel) SetNow(now time.Time) {
	m.now = now
}

// Selected returns the highlighted task, or nil when the day is empty.
func (m TimelinePaneModel) Selected() *lifecycle.Task {
	if m.selectedIdx >= 0 && m.selectedIdx < len(m.tasks) {
		return m.tasks[m.selectedIdx]
	}
	return nil
}

// Update handles messages for the timeline pane.
func (m TimelinePaneModel) Update(msg tea.Msg) (TimelinePaneModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			break
		}
		switch msg.String() {
		case KeyJ, KeyDown:
			if m.selectedIdx < len(m.tasks)-1 {
				m.selectedIdx++
			}
		case KeyK, KeyUp:
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		}
	}
	return m, nil
}

// View renders the timeline pane.
func (m TimelinePaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := StyleTitle.Render(fmt.Sprintf("Timeline · %s", timemap.FormatDate(m.now)))
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)))
	b.WriteString("\n\n")

	b.WriteString(m.renderStrip())
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(StyleTaskPast.Render("Nothing planned today. Press g to plan a goal."))
	} else {
		active := m.agg.FindActiveTask(m.tasks, m.now)
		for i, t := range m.tasks {
			b.WriteString(m.renderTaskLine(t, i == m.selectedIdx, active != nil && active.ID == t.ID))
			b.WriteString("\n")
		}
	}

	style := StyleUnfocusedBorder
	if m.focused {
		style = StyleFocusedBorder
	}
	return style.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(b.String())
}

// renderStrip draws the hour ruler and the occupancy row underneath it.
func (m TimelinePaneModel) renderStrip() string {
	cells := 24 * m.cellsPerHour
	maxCells := m.width - 6
	if maxCells < 24 {
		maxCells = 24
	}
	if cells > maxCells {
		cells = maxCells
	}
	minutesPerCell := float64(timemap.MinutesPerDay) / float64(cells)

	// Hour ruler: mark every sixth of the day.
	ruler := make([]byte, cells)
	for i := range ruler {
		ruler[i] = ' '
	}
	for h := 0; h < 24; h += 4 {
		pos := int(timemap.LinearOffset(h*60, 1.0/minutesPerCell))
		label := fmt.Sprintf("%02d", h)
		for j := 0; j < len(label) && pos+j < cells; j++ {
			ruler[pos+j] = label[j]
		}
	}

	nowPos := int(timemap.LinearOffset(timemap.Minutes(m.now), 1.0/minutesPerCell))
	marker := strings.Repeat(" ", min(nowPos, cells-1)) + StyleTimer.Render("▼")

	// Occupancy row: one styled block per cell covered by a task.
	row := make([]string, cells)
	for i := range row {
		row[i] = "·"
	}
	for _, t := range m.tasks {
		start, ok := timemap.ParseClock(t.ScheduledTime)
		if !ok {
			continue
		}
		from := int(timemap.LinearOffset(start, 1.0/minutesPerCell))
		to := int(timemap.LinearOffset(start+t.EstimatedMinutes, 1.0/minutesPerCell))
		if to == from {
			to = from + 1
		}
		style := m.styleFor(t)
		for i := from; i < to && i < cells; i++ {
			row[i] = style.Render("█")
		}
	}

	return marker + "\n" + string(ruler) + "\n" + strings.Join(row, "")
}

func (m TimelinePaneModel) renderTaskLine(t *lifecycle.Task, selected, active bool) string {
	icon := statusIcon(t.Status)
	when := t.ScheduledTime
	if _, ok := timemap.ParseClock(when); !ok {
		when = "--:--"
	}

	line := fmt.Sprintf("%s %s  %s (%dm)", icon, when, t.Title, t.EstimatedMinutes)
	if t.Chained() {
		line += fmt.Sprintf("  [step %d]", t.StepOrder)
	}
	if active {
		line += "  ← now"
	}

	if selected {
		return StyleSelected.Render(line)
	}
	return m.styleFor(t).Render(line)
}

func (m TimelinePaneModel) styleFor(t *lifecycle.Task) lipgloss.Style {
	return taskStyle(
		t.IsUrgent,
		t.Priority == lifecycle.PriorityHigh,
		t.Status == lifecycle.StatusCompleted,
		m.agg.Past(t, m.now),
	)
}

// statusIcon returns a styled status indicator.
func statusIcon(status lifecycle.Status) string {
	switch status {
	case lifecycle.StatusInProgress:
		return StyleTimer.Render("●")
	case lifecycle.StatusCompleted:
		return StyleTaskDone.Render("✓")
	case lifecycle.StatusRetry, lifecycle.StatusPartial:
		return StyleTaskFailed.Render("✗")
	default:
		return StyleTaskPast.Render("○")
	}
}

// SetSize updates the pane dimensions.
func (m *TimelinePaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused updates the focus state.
func (m *TimelinePaneModel) SetFocused(focused bool) {
	m.focused = focused
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
