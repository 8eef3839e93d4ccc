package lifecycle

import (
	"errors"
	"testing"
)

func newTask() *Task {
	return &Task{
		ID:               "task-1",
		Title:            "Deep work block",
		ScheduledTime:    "09:00",
		EstimatedMinutes: 30,
		Status:           StatusScheduled,
		Priority:         PriorityNormal,
	}
}

func TestOpenCreatesCountdown(t *testing.T) {
	task := newTask()
	s := Open(task)

	if task.Status != StatusInProgress {
		t.Errorf("status after Open = %q, want %q", task.Status, StatusInProgress)
	}
	if s.RemainingSeconds != 30*60 {
		t.Errorf("remaining = %d, want %d", s.RemainingSeconds, 30*60)
	}
	if s.Running {
		t.Error("timer must start paused")
	}
	if s.ID == "" {
		t.Error("session must carry an id for stale-tick filtering")
	}
}

func TestOpenKeepsPriorFailureReason(t *testing.T) {
	task := newTask()
	task.LastFailureReason = "screenshot was unreadable"
	Open(task)

	if task.LastFailureReason != "screenshot was unreadable" {
		t.Error("prior failure reason must stay visible until a new attempt succeeds")
	}
}

func TestToggle(t *testing.T) {
	s := Open(newTask())

	if err := s.Toggle(); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !s.Running {
		t.Fatal("timer should be running after toggle")
	}
	if err := s.Toggle(); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if s.Running {
		t.Fatal("timer should be paused after second toggle")
	}
}

func TestToggleRejectedAtZero(t *testing.T) {
	s := Open(newTask())
	s.RemainingSeconds = 0

	if err := s.Toggle(); !errors.Is(err, ErrTimerExpired) {
		t.Errorf("toggle at zero = %v, want ErrTimerExpired", err)
	}
}

func TestTickIdempotentWhilePaused(t *testing.T) {
	s := Open(newTask())

	for i := 0; i < 10; i++ {
		s.Tick()
	}
	if s.RemainingSeconds != 30*60 {
		t.Errorf("paused tick changed remaining to %d", s.RemainingSeconds)
	}
}

func TestTickCountsDown(t *testing.T) {
	s := Open(newTask())
	if err := s.Toggle(); err != nil {
		t.Fatal(err)
	}

	s.Tick()
	s.Tick()
	if s.RemainingSeconds != 30*60-2 {
		t.Errorf("remaining = %d, want %d", s.RemainingSeconds, 30*60-2)
	}
}

// TestTickBoundary: the last second stops the timer and remaining never goes
// negative.
func TestTickBoundary(t *testing.T) {
	s := Open(newTask())
	s.RemainingSeconds = 1
	if err := s.Toggle(); err != nil {
		t.Fatal(err)
	}

	s.Tick()
	if s.RemainingSeconds != 0 {
		t.Errorf("remaining = %d, want 0", s.RemainingSeconds)
	}
	if s.Running {
		t.Error("timer must stop at zero")
	}

	s.Tick()
	if s.RemainingSeconds != 0 {
		t.Error("remaining must never go negative")
	}
}

func TestApplyCompleted(t *testing.T) {
	task := newTask()
	task.LastFailureReason = "previous attempt"
	s := Open(task)

	err := s.Apply(Completed{Reward: Reward{XPGained: 50, TotalUserXP: 150, CurrentStreak: 3}})
	if err != nil {
		t.Fatal(err)
	}

	if task.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", task.Status)
	}
	if task.LastFailureReason != "" {
		t.Error("success must clear the stored failure reason")
	}
	if !s.Closed() {
		t.Error("completed outcome must close the session")
	}
}

func TestApplyPartialKeepsSessionAndTimer(t *testing.T) {
	s := Open(newTask())
	s.RemainingSeconds = 100

	if err := s.Apply(Partial{Reason: "only half done"}); err != nil {
		t.Fatal(err)
	}

	if s.Task.Status != StatusPartial {
		t.Errorf("status = %q, want partial", s.Task.Status)
	}
	if s.Task.LastFailureReason != "only half done" {
		t.Errorf("failure reason = %q", s.Task.LastFailureReason)
	}
	if s.Closed() {
		t.Error("partial outcome must keep the session open for resubmission")
	}
	if s.RemainingSeconds != 100 {
		t.Error("resubmission must not reset the countdown")
	}
}

func TestApplyRetryStoresReason(t *testing.T) {
	s := Open(newTask())

	if err := s.Apply(Retry{Reason: "no evidence attached"}); err != nil {
		t.Fatal(err)
	}
	if s.Task.Status != StatusRetry {
		t.Errorf("status = %q, want retry", s.Task.Status)
	}
	if s.Task.LastFailureReason != "no evidence attached" {
		t.Errorf("failure reason = %q", s.Task.LastFailureReason)
	}
	if s.Closed() {
		t.Error("retry outcome must keep the session open")
	}
}

func TestApplyLockedAbandonsSession(t *testing.T) {
	s := Open(newTask())
	if err := s.Toggle(); err != nil {
		t.Fatal(err)
	}

	if err := s.Apply(Locked{Reason: "cooldown"}); err != nil {
		t.Fatal(err)
	}

	if !s.Closed() {
		t.Error("lockdown must close the session immediately")
	}
	if s.Running {
		t.Error("lockdown must stop the timer")
	}
	if s.Task.Status == StatusInProgress {
		t.Error("locked task must leave in_progress")
	}
}

func TestApplyAfterCloseRejected(t *testing.T) {
	s := Open(newTask())
	s.Close()

	if err := s.Apply(Completed{}); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("apply after close = %v, want ErrSessionClosed", err)
	}
	if err := s.Toggle(); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("toggle after close = %v, want ErrSessionClosed", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Task) {}, wantErr: false},
		{name: "missing id", mutate: func(tk *Task) { tk.ID = "" }, wantErr: true},
		{name: "zero estimate", mutate: func(tk *Task) { tk.EstimatedMinutes = 0 }, wantErr: true},
		{name: "negative estimate", mutate: func(tk *Task) { tk.EstimatedMinutes = -5 }, wantErr: true},
		{name: "unknown status", mutate: func(tk *Task) { tk.Status = "exploded" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := newTask()
			tt.mutate(task)
			err := task.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
