package dashboard

import (
	"sync"
	"time"

	"github.com/aristath/kryta/internal/events"
	"github.com/aristath/kryta/internal/lifecycle"
	"github.com/aristath/kryta/internal/timemap"
)

// ReminderScanner publishes a ReminderEvent when a task's scheduled time
// matches the current minute. Each task fires at most once per minute even
// if scans overlap the same minute boundary.
type ReminderScanner struct {
	bus *events.Bus

	mu    sync.Mutex
	fired map[string]string // task id -> "date HH:MM" last fired
}

// NewReminderScanner creates a scanner publishing to the given bus.
func NewReminderScanner(bus *events.Bus) *ReminderScanner {
	return &ReminderScanner{
		bus:   bus,
		fired: make(map[string]string),
	}
}

// Scan checks every task targeted at today against the current minute and
// fires reminders for matches. Only completed tasks stay silent; a task in
// retry or partial still wants its start nudge.
func (r *ReminderScanner) Scan(tasks []*lifecycle.Task, now time.Time) {
	minute := timemap.FormatClock(timemap.Minutes(now))
	stamp := timemap.FormatDate(now) + " " + minute

	for _, t := range tasks {
		if !t.Open() || !timemap.SameDate(t.TargetDate, now) {
			continue
		}
		start, ok := timemap.ParseClock(t.ScheduledTime)
		if !ok || timemap.FormatClock(start) != minute {
			continue
		}

		r.mu.Lock()
		already := r.fired[t.ID] == stamp
		if !already {
			r.fired[t.ID] = stamp
		}
		r.mu.Unlock()
		if already {
			continue
		}

		r.bus.Publish(events.TopicTask, events.ReminderEvent{
			ID:        t.ID,
			Title:     t.Title,
			Timestamp: now,
		})
	}
}
