// Package lifecycle holds the task model and the per-task session state
// machine: scheduled -> in_progress -> (completed | partial | retry), with
// an orthogonal locked escalation reachable from any verification attempt.
package lifecycle

import (
	"fmt"
	"time"
)

// Status is a task's lifecycle state. The values match the wire contract of
// the planning/verification collaborator.
type Status string

const (
	StatusScheduled  Status = "scheduled"   // Created by the planner, no timer yet
	StatusInProgress Status = "in_progress" // Opened by the user, timer exists
	StatusCompleted  Status = "completed"   // Verification passed
	StatusPartial    Status = "partial"     // Verification partially accepted, resubmission allowed
	StatusRetry      Status = "retry"       // Verification rejected, resubmission allowed
)

// Priority ranks a task for rendering. Urgency is a separate flag; the two
// are independent and neither affects lifecycle transitions.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Task is one schedulable unit of work. Tasks are created by the planning
// collaborator and mutated only through verification outcomes or
// user-initiated timer actions; this core never deletes them.
type Task struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	ScheduledTime    string    `json:"scheduled_time"`    // "HH:MM" or an unscheduled marker
	EstimatedMinutes int       `json:"estimated_time"`    // Positive duration in minutes
	TargetDate       time.Time `json:"-"`                 // Normalized to local midnight at decode
	Status           Status    `json:"status"`
	Priority         Priority  `json:"priority"`
	IsUrgent         bool      `json:"is_urgent"`
	ProofInstruction string    `json:"proof_instruction,omitempty"`
	LastFailureReason string   `json:"last_failure_reason,omitempty"`

	// Mission chain linkage. Tasks sharing a GroupID form an ordered
	// multi-step chain displayed as a stepper.
	GroupID   string `json:"group_id,omitempty"`
	StepOrder int    `json:"step_order,omitempty"`
}

// Validate checks the invariants a task must satisfy before it enters the
// collection.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task has no id")
	}
	if t.EstimatedMinutes <= 0 {
		return fmt.Errorf("task %q: estimated minutes must be positive, got %d", t.ID, t.EstimatedMinutes)
	}
	switch t.Status {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusPartial, StatusRetry:
	default:
		return fmt.Errorf("task %q: unknown status %q", t.ID, t.Status)
	}
	return nil
}

// Chained reports whether the task belongs to a mission chain.
func (t *Task) Chained() bool {
	return t.GroupID != ""
}

// Open reports whether the task can still be worked on. Completed tasks are
// terminal; everything else may be opened again.
func (t *Task) Open() bool {
	return t.Status != StatusCompleted
}
