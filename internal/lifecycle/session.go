package lifecycle

import (
	"errors"

	"github.com/google/uuid"
)

// Sentinel errors for illegal session operations.
var (
	ErrSessionClosed = errors.New("session is closed")
	ErrTimerExpired  = errors.New("timer has expired")
	ErrNotInProgress = errors.New("task is not in progress")
)

// Session is the ephemeral in-memory state for one open task: the countdown
// timer plus the verification phase. One session exists per open task modal;
// it is discarded when the modal closes or verification succeeds.
type Session struct {
	ID               string // Distinguishes this session from stale timer ticks
	Task             *Task
	RemainingSeconds int
	Running          bool
	closed           bool
}

// Open transitions a task to in_progress and creates its session with a
// fresh countdown. Any failure reason from a prior attempt stays visible on
// the task until a new verification attempt succeeds.
func Open(task *Task) *Session {
	task.Status = StatusInProgress
	return &Session{
		ID:               uuid.NewString(),
		Task:             task,
		RemainingSeconds: task.EstimatedMinutes * 60,
		Running:          false,
	}
}

// Toggle flips the timer between running and paused. Only legal while the
// session is open, the task is in progress, and time remains.
func (s *Session) Toggle() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.Task.Status != StatusInProgress {
		return ErrNotInProgress
	}
	if s.RemainingSeconds <= 0 {
		return ErrTimerExpired
	}
	s.Running = !s.Running
	return nil
}

// Tick advances the countdown by one second. Driven by a fixed 1-second
// cadence, never by wall-clock polling. A no-op while paused; reaching zero
// forces the timer off.
func (s *Session) Tick() {
	if s.closed || !s.Running {
		return
	}
	if s.RemainingSeconds > 0 {
		s.RemainingSeconds--
	}
	if s.RemainingSeconds == 0 {
		s.Running = false
	}
}

// Apply folds a verification outcome into the task and the session.
// Completed and Locked are terminal: they stop the timer and close the
// session. Partial and Retry keep the session open, without resetting the
// countdown, so the user can resubmit.
func (s *Session) Apply(o Outcome) error {
	if s.closed {
		return ErrSessionClosed
	}

	switch v := o.(type) {
	case Completed:
		s.Task.Status = StatusCompleted
		s.Task.LastFailureReason = ""
		s.Running = false
		s.closed = true
	case Partial:
		s.Task.Status = StatusPartial
		s.Task.LastFailureReason = v.Reason
	case Retry:
		s.Task.Status = StatusRetry
		s.Task.LastFailureReason = v.Reason
	case Locked:
		// Escalation abandons the session; the task leaves in_progress so
		// active-task queries stop returning it while the lockdown holds.
		s.Task.Status = StatusRetry
		s.Task.LastFailureReason = v.Reason
		s.Running = false
		s.closed = true
	default:
		return errors.New("unknown verification outcome")
	}
	return nil
}

// Close discards the session. Idempotent; used when the task modal closes
// without a terminal outcome.
func (s *Session) Close() {
	s.Running = false
	s.closed = true
}

// Closed reports whether the session has ended.
func (s *Session) Closed() bool {
	return s.closed
}
