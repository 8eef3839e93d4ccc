package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/kryta/internal/dashboard"
	"github.com/aristath/kryta/internal/lifecycle"
)

// TaskModalModel is the open-task overlay: the countdown, the proof
// textarea, and the mission chain stepper. The session state machine lives
// in lifecycle; this model only renders it and collects the proof text.
type TaskModalModel struct {
	session    *lifecycle.Session
	chain      []*lifecycle.Task
	proof      textarea.Model
	submitting bool
	errText    string
	reward     *lifecycle.Reward
	width      int
	height     int
}

// NewTaskModal creates the overlay for an open session.
func NewTaskModal(session *lifecycle.Session, chain []*lifecycle.Task) TaskModalModel {
	ta := textarea.New()
	ta.Placeholder = "Describe what you did, paste output, or reference your proof..."
	ta.ShowLineNumbers = false
	ta.Focus()

	return TaskModalModel{
		session: session,
		chain:   chain,
		proof:   ta,
	}
}

// Session exposes the underlying session for the root model's commands.
func (m TaskModalModel) Session() *lifecycle.Session {
	return m.session
}

// Proof returns the current proof text.
func (m TaskModalModel) Proof() string {
	return m.proof.Value()
}

// SetSubmitting flags an in-flight verification; input stays enabled but a
// second submit is refused upstream.
func (m *TaskModalModel) SetSubmitting(v bool) {
	m.submitting = v
}

// Submitting reports whether a verification is awaiting its result.
func (m TaskModalModel) Submitting() bool {
	return m.submitting
}

// SetError shows a verification or transport failure inside the modal.
func (m *TaskModalModel) SetError(text string) {
	m.errText = text
}

// SetReward shows the reward banner after a completed verification.
func (m *TaskModalModel) SetReward(r lifecycle.Reward) {
	m.reward = &r
}

// ClearProof empties the textarea, used after a successful submission.
func (m *TaskModalModel) ClearProof() {
	m.proof.Reset()
}

// Update handles messages for the task modal. Timer and submit keys are
// control chords so plain typing always lands in the textarea.
func (m TaskModalModel) Update(msg tea.Msg) (TaskModalModel, tea.Cmd) {
	var cmd tea.Cmd
	m.proof, cmd = m.proof.Update(msg)
	return m, cmd
}

// View renders the modal.
func (m TaskModalModel) View() string {
	task := m.session.Task

	var b strings.Builder

	style := taskStyle(task.IsUrgent, task.Priority == lifecycle.PriorityHigh, false, false)
	b.WriteString(style.Render(task.Title))
	b.WriteString("\n")

	if len(m.chain) > 1 {
		b.WriteString(m.renderStepper())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderTimer())
	b.WriteString("\n\n")

	if task.ProofInstruction != "" {
		b.WriteString(StyleTitle.Render("Proof required"))
		b.WriteString("\n")
		b.WriteString(task.ProofInstruction)
		b.WriteString("\n\n")
	}

	if task.LastFailureReason != "" {
		b.WriteString(StyleTaskFailed.Render("Last attempt: " + task.LastFailureReason))
		b.WriteString("\n\n")
	}

	b.WriteString(m.proof.View())
	b.WriteString("\n")

	switch {
	case m.reward != nil:
		b.WriteString(StyleSuccess.Render(fmt.Sprintf("✓ Verified! +%d XP (total %d, streak %d)",
			m.reward.XPGained, m.reward.TotalUserXP, m.reward.CurrentStreak)))
	case m.submitting:
		b.WriteString(StyleTimer.Render("Verifying..."))
	case m.errText != "":
		b.WriteString(StyleError.Render(m.errText))
	}
	b.WriteString("\n")
	b.WriteString(modalHelpView())

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(min(m.width-6, 76))

	return frame.Render(b.String())
}

// renderTimer shows the countdown with an hourglass that flips each second
// while running.
func (m TaskModalModel) renderTimer() string {
	remaining := m.session.RemainingSeconds
	glass := "⧗"
	if m.session.Running && remaining%2 == 0 {
		glass = "⧖"
	}

	state := "paused"
	if m.session.Running {
		state = "running"
	}
	if remaining == 0 {
		state = "time's up"
	}

	return StyleTimer.Render(fmt.Sprintf("%s %02d:%02d", glass, remaining/60, remaining%60)) +
		StyleTaskPast.Render("  ("+state+")")
}

// renderStepper shows the mission chain with the current step highlighted.
func (m TaskModalModel) renderStepper() string {
	done, total := dashboard.ChainProgress(m.chain)

	var parts []string
	for _, step := range m.chain {
		label := fmt.Sprintf("%d", step.StepOrder)
		switch {
		case step.Status == lifecycle.StatusCompleted:
			parts = append(parts, StyleTaskDone.Render("["+label+"✓]"))
		case step.ID == m.session.Task.ID:
			parts = append(parts, StyleSelected.Render("["+label+"]"))
		default:
			parts = append(parts, StyleTaskPast.Render("["+label+"]"))
		}
	}
	return strings.Join(parts, "─") + StyleTaskPast.Render(fmt.Sprintf("  %d/%d done", done, total))
}

// SetSize updates the modal dimensions.
func (m *TaskModalModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.proof.SetWidth(min(w-12, 70))
	m.proof.SetHeight(5)
}
