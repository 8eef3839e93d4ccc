// Package dashboard derives the view state from the task collection: the
// currently active task, today's timeline, the radar window, mission chain
// ordering, and scheduled-time reminders. Nothing here mutates tasks.
package dashboard

import (
	"sort"
	"time"

	"github.com/aristath/kryta/internal/lifecycle"
	"github.com/aristath/kryta/internal/timemap"
)

// Aggregator computes view projections over the task collection.
type Aggregator struct {
	// LookaheadMinutes widens the active window before a task's start, so a
	// task becomes actionable slightly early.
	LookaheadMinutes int

	// MinArcDegrees floors radar arc spans so short tasks stay visible.
	MinArcDegrees float64
}

// FindActiveTask returns the task the user should be doing right now: a
// task on today's date whose window [start - lookahead, start + estimate]
// contains the current minute. Completed tasks never come back, regardless
// of their window. When windows overlap, the earliest start wins.
func (a *Aggregator) FindActiveTask(tasks []*lifecycle.Task, now time.Time) *lifecycle.Task {
	nowMin := timemap.Minutes(now)

	var active *lifecycle.Task
	activeStart := 0
	for _, t := range tasks {
		if !t.Open() || !timemap.SameDate(t.TargetDate, now) {
			continue
		}
		start, ok := timemap.ParseClock(t.ScheduledTime)
		if !ok {
			continue
		}
		if nowMin < start-a.LookaheadMinutes || nowMin > start+t.EstimatedMinutes {
			continue
		}
		if active == nil || start < activeStart {
			active = t
			activeStart = start
		}
	}
	return active
}

// NextTask returns today's earliest task that has not started yet, or nil
// when nothing is left today.
func (a *Aggregator) NextTask(tasks []*lifecycle.Task, now time.Time) *lifecycle.Task {
	nowMin := timemap.Minutes(now)

	var next *lifecycle.Task
	nextStart := 0
	for _, t := range tasks {
		if !t.Open() || !timemap.SameDate(t.TargetDate, now) {
			continue
		}
		start, ok := timemap.ParseClock(t.ScheduledTime)
		if !ok {
			continue
		}
		if start <= nowMin {
			continue
		}
		if next == nil || start < nextStart {
			next = t
			nextStart = start
		}
	}
	return next
}

// FilterForDate returns the tasks targeted at the given calendar day,
// ordered by scheduled time. Tasks without a parseable time sort last,
// keeping their relative order.
func (a *Aggregator) FilterForDate(tasks []*lifecycle.Task, date time.Time) []*lifecycle.Task {
	var day []*lifecycle.Task
	for _, t := range tasks {
		if timemap.SameDate(t.TargetDate, date) {
			day = append(day, t)
		}
	}

	sort.SliceStable(day, func(i, j int) bool {
		si, oki := timemap.ParseClock(day[i].ScheduledTime)
		sj, okj := timemap.ParseClock(day[j].ScheduledTime)
		if oki != okj {
			return oki
		}
		return si < sj
	})
	return day
}

// Past reports whether the task's window has fully elapsed relative to now.
// Past tasks are rendered dimmed, never hidden.
func (a *Aggregator) Past(t *lifecycle.Task, now time.Time) bool {
	day := timemap.DayIndex(t.TargetDate, now)
	if day != 0 {
		return day < 0
	}
	start, ok := timemap.ParseClock(t.ScheduledTime)
	if !ok {
		return false
	}
	return start+t.EstimatedMinutes < timemap.Minutes(now)
}

// RadarEntry is one task placed on the temporal radar: a ring index for its
// day and a clockwise arc for its time of day.
type RadarEntry struct {
	Task       *lifecycle.Task
	DayIndex   int
	AngleStart float64
	AngleEnd   float64
}

// RadarWindow projects tasks onto the radar's scan range. The window is
// half-open: day indices in [0, scanDays) are included, so a task exactly
// scanDays out stays off the radar until the range grows. Tasks without a
// parseable start time have no angle and are excluded.
func (a *Aggregator) RadarWindow(tasks []*lifecycle.Task, now time.Time, scanDays int) []RadarEntry {
	var entries []RadarEntry
	for _, t := range tasks {
		day := timemap.DayIndex(t.TargetDate, now)
		if day < 0 || day >= scanDays {
			continue
		}
		start, ok := timemap.ParseClock(t.ScheduledTime)
		if !ok {
			continue
		}
		angleStart, angleEnd := timemap.ArcSpan(start, t.EstimatedMinutes, a.MinArcDegrees)
		entries = append(entries, RadarEntry{
			Task:       t,
			DayIndex:   day,
			AngleStart: angleStart,
			AngleEnd:   angleEnd,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].DayIndex != entries[j].DayIndex {
			return entries[i].DayIndex < entries[j].DayIndex
		}
		return entries[i].AngleStart < entries[j].AngleStart
	})
	return entries
}
