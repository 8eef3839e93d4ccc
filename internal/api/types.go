package api

import (
	"fmt"

	"github.com/aristath/kryta/internal/lifecycle"
	"github.com/aristath/kryta/internal/store"
	"github.com/aristath/kryta/internal/timemap"
)

// wireTask is a task as the collaborator sends it. Decoding normalizes it
// into a lifecycle.Task: legacy "pending" status becomes scheduled, the
// target date becomes a local-midnight time.Time, and a missing priority
// defaults to normal.
type wireTask struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	ScheduledTime     string `json:"scheduled_time"`
	EstimatedMinutes  int    `json:"estimated_time"`
	TargetDate        string `json:"target_date"`
	Status            string `json:"status"`
	Priority          string `json:"priority"`
	IsUrgent          bool   `json:"is_urgent"`
	ProofInstruction  string `json:"proof_instruction"`
	LastFailureReason string `json:"last_failure_reason"`
	GroupID           string `json:"group_id"`
	StepOrder         int    `json:"step_order"`
}

func (w wireTask) toTask() (*lifecycle.Task, error) {
	status := lifecycle.Status(w.Status)
	switch w.Status {
	case "", "pending":
		status = lifecycle.StatusScheduled
	}

	priority := lifecycle.Priority(w.Priority)
	if priority == "" {
		priority = lifecycle.PriorityNormal
	}

	task := &lifecycle.Task{
		ID:                w.ID,
		Title:             w.Title,
		ScheduledTime:     w.ScheduledTime,
		EstimatedMinutes:  w.EstimatedMinutes,
		Status:            status,
		Priority:          priority,
		IsUrgent:          w.IsUrgent,
		ProofInstruction:  w.ProofInstruction,
		LastFailureReason: w.LastFailureReason,
		GroupID:           w.GroupID,
		StepOrder:         w.StepOrder,
	}
	if d, ok := timemap.ParseDate(w.TargetDate); ok {
		task.TargetDate = d
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

func toTasks(wire []wireTask) []*lifecycle.Task {
	tasks := make([]*lifecycle.Task, 0, len(wire))
	for _, w := range wire {
		task, err := w.toTask()
		if err != nil {
			// A single malformed task must not sink the whole batch; it is
			// simply not displayable.
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// DashboardData is the decoded GET /dashboard payload.
type DashboardData struct {
	User  store.UserSnapshot
	Tasks []*lifecycle.Task
}

type wireUser struct {
	Name   string `json:"name"`
	XP     int    `json:"xp"`
	Streak int    `json:"streak"`
}

type dashboardResponse struct {
	User  wireUser   `json:"user"`
	Tasks []wireTask `json:"tasks"`
}

type planRequest struct {
	Goal          string `json:"goal"`
	AvailableTime int    `json:"available_time"`
}

type planResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Tasks   []wireTask `json:"tasks"`
}

type verifyRequest struct {
	TaskID       string `json:"task_id"`
	ProofContent string `json:"proof_content"`
	ProofImage   string `json:"proof_image,omitempty"`
}

type wireVerification struct {
	Verdict string `json:"verdict"`
	Reason  string `json:"reason"`
}

type wireReward struct {
	XPGained      int    `json:"xp_gained"`
	TotalUserXP   int    `json:"total_user_xp"`
	CurrentStreak int    `json:"current_streak"`
	Message       string `json:"message"`
}

type verifyResponse struct {
	Status       string            `json:"status"`
	TaskStatus   string            `json:"task_status"`
	Message      string            `json:"message"`
	Verification *wireVerification `json:"verification"`
	Reward       *wireReward       `json:"reward"`
}

// outcome translates the collaborator's verify payload into a sealed
// lifecycle.Outcome. An unrecognized shape is a decode error, which callers
// treat as a transient failure: no state changes.
func (r verifyResponse) outcome() (lifecycle.Outcome, error) {
	reason := r.Message
	if r.Verification != nil && r.Verification.Reason != "" {
		reason = r.Verification.Reason
	}

	if r.Status == "locked" || r.TaskStatus == "locked" {
		return lifecycle.Locked{Reason: reason}, nil
	}

	switch r.TaskStatus {
	case "completed":
		var reward lifecycle.Reward
		if r.Reward != nil {
			reward = lifecycle.Reward{
				XPGained:      r.Reward.XPGained,
				TotalUserXP:   r.Reward.TotalUserXP,
				CurrentStreak: r.Reward.CurrentStreak,
			}
		}
		return lifecycle.Completed{Reward: reward}, nil
	case "partial":
		return lifecycle.Partial{Reason: reason}, nil
	case "retry":
		return lifecycle.Retry{Reason: reason}, nil
	default:
		return nil, fmt.Errorf("unrecognized verification status %q/%q", r.Status, r.TaskStatus)
	}
}

// Analytics is the decoded GET /analytics payload.
type Analytics struct {
	Stats     AnalyticsStats `json:"stats"`
	ChartData []ChartPoint   `json:"chart_data"`
}

// AnalyticsStats is the metrics row of the analytics view.
type AnalyticsStats struct {
	CompletionRate int `json:"completion_rate"`
	TrustScore     int `json:"trust_score"`
	TotalCompleted int `json:"total_completed"`
	TotalFailed    int `json:"total_failed"`
}

// ChartPoint is one day of completion history.
type ChartPoint struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
}

// Profile is the onboarding payload for POST /user/onboard.
type Profile struct {
	Name      string   `json:"name"`
	WorkHours string   `json:"work_hours"`
	CoreGoals []string `json:"core_goals"`
	BadHabits []string `json:"bad_habits"`
}

type keyRequest struct {
	APIKey string `json:"api_key"`
}

type keyStatusResponse struct {
	Configured bool `json:"configured"`
}
