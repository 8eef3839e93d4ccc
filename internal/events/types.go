package events

import (
	"time"

	"github.com/aristath/kryta/internal/lifecycle"
)

// Event is the base interface for everything published on the bus.
type Event interface {
	EventType() string
}

// Topic constants
const (
	TopicTask   = "task"
	TopicTimer  = "timer"
	TopicSystem = "system"
)

// Event type constants
const (
	EventTypePlanReceived       = "task.plan_received"
	EventTypeTaskOpened         = "task.opened"
	EventTypeReminder           = "task.reminder"
	EventTypeVerificationResult = "task.verification_result"
	EventTypeTimerFinished      = "timer.finished"
	EventTypeLockdown           = "system.lockdown"
	EventTypeRefreshed          = "system.refreshed"
)

// PlanReceivedEvent is published when the planning collaborator returns a
// new batch of tasks for the current goal.
type PlanReceivedEvent struct {
	Goal      string
	Count     int
	Timestamp time.Time
}

func (e PlanReceivedEvent) EventType() string { return EventTypePlanReceived }

// TaskOpenedEvent is published when a task session is created.
type TaskOpenedEvent struct {
	ID        string
	Title     string
	Timestamp time.Time
}

func (e TaskOpenedEvent) EventType() string { return EventTypeTaskOpened }

// ReminderEvent is published when a task's scheduled time matches the
// current minute. At most one fires per task per minute.
type ReminderEvent struct {
	ID        string
	Title     string
	Timestamp time.Time
}

func (e ReminderEvent) EventType() string { return EventTypeReminder }

// VerificationResultEvent is published when a verification attempt resolves
// to an outcome. Stale marks responses that arrived after their session
// closed and were discarded.
type VerificationResultEvent struct {
	ID        string
	Outcome   lifecycle.Outcome
	Stale     bool
	Timestamp time.Time
}

func (e VerificationResultEvent) EventType() string { return EventTypeVerificationResult }

// TimerFinishedEvent is published when a session countdown reaches zero.
type TimerFinishedEvent struct {
	ID        string
	Timestamp time.Time
}

func (e TimerFinishedEvent) EventType() string { return EventTypeTimerFinished }

// LockdownEvent is published when the collaborator escalates to the global
// lockdown state.
type LockdownEvent struct {
	Reason    string
	Timestamp time.Time
}

func (e LockdownEvent) EventType() string { return EventTypeLockdown }

// RefreshedEvent is published after a dashboard/calendar refresh completes.
type RefreshedEvent struct {
	Tasks     int
	Timestamp time.Time
}

func (e RefreshedEvent) EventType() string { return EventTypeRefreshed }
