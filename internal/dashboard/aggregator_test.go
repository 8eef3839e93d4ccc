package dashboard

import (
	"testing"
	"time"

	"github.com/aristath/kryta/internal/lifecycle"
)

// clock builds a reference instant on a fixed date.
func clock(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.Local)
}

func task(id, scheduled string, estMinutes, dayOffset int) *lifecycle.Task {
	return &lifecycle.Task{
		ID:               id,
		Title:            "Task " + id,
		ScheduledTime:    scheduled,
		EstimatedMinutes: estMinutes,
		TargetDate:       time.Date(2026, 3, 14+dayOffset, 0, 0, 0, 0, time.Local),
		Status:           lifecycle.StatusScheduled,
		Priority:         lifecycle.PriorityNormal,
	}
}

func testAggregator() *Aggregator {
	return &Aggregator{LookaheadMinutes: 15, MinArcDegrees: 2}
}

func TestFindActiveTaskWindow(t *testing.T) {
	a := testAggregator()
	// 09:00 start, 30 minute estimate: window is [08:45, 09:30].
	tasks := []*lifecycle.Task{task("t1", "09:00", 30, 0)}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before lookahead", clock(8, 44), false},
		{"lookahead boundary", clock(8, 45), true},
		{"at start", clock(9, 0), true},
		{"mid window", clock(9, 15), true},
		{"end boundary", clock(9, 30), true},
		{"after window", clock(9, 31), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.FindActiveTask(tasks, tt.now)
			if (got != nil) != tt.want {
				t.Errorf("active = %v, want present=%v", got, tt.want)
			}
		})
	}
}

func TestFindActiveTaskNeverCompleted(t *testing.T) {
	a := testAggregator()
	done := task("t1", "09:00", 30, 0)
	done.Status = lifecycle.StatusCompleted

	if got := a.FindActiveTask([]*lifecycle.Task{done}, clock(9, 10)); got != nil {
		t.Errorf("completed task returned as active: %v", got.ID)
	}

	// Retry and partial tasks stay eligible so the user can resubmit.
	retry := task("t2", "09:00", 30, 0)
	retry.Status = lifecycle.StatusRetry
	if got := a.FindActiveTask([]*lifecycle.Task{retry}, clock(9, 10)); got == nil {
		t.Error("retry task should remain active inside its window")
	}
}

func TestFindActiveTaskEarliestWins(t *testing.T) {
	a := testAggregator()
	tasks := []*lifecycle.Task{
		task("late", "09:20", 60, 0),
		task("early", "09:00", 60, 0),
	}

	got := a.FindActiveTask(tasks, clock(9, 25))
	if got == nil || got.ID != "early" {
		t.Errorf("active = %v, want earliest start", got)
	}
}

func TestFindActiveTaskSkipsUnscheduled(t *testing.T) {
	a := testAggregator()
	tasks := []*lifecycle.Task{
		task("pending", "Pending", 30, 0),
		task("tomorrow-marker", "Tomorrow 09:00", 30, 0),
	}

	if got := a.FindActiveTask(tasks, clock(9, 0)); got != nil {
		t.Errorf("unschedulable task returned as active: %v", got.ID)
	}
}

func TestFindActiveTaskIgnoresOtherDates(t *testing.T) {
	a := testAggregator()
	tasks := []*lifecycle.Task{task("t1", "09:00", 30, 1)}

	if got := a.FindActiveTask(tasks, clock(9, 10)); got != nil {
		t.Error("tomorrow's task must not be active today")
	}
}

func TestNextTask(t *testing.T) {
	a := testAggregator()
	tasks := []*lifecycle.Task{
		task("past", "08:00", 30, 0),
		task("soon", "10:00", 30, 0),
		task("later", "14:00", 30, 0),
		task("tomorrow", "09:00", 30, 1),
	}

	got := a.NextTask(tasks, clock(9, 0))
	if got == nil || got.ID != "soon" {
		t.Errorf("next = %v, want soon", got)
	}

	if got := a.NextTask(tasks, clock(15, 0)); got != nil {
		t.Errorf("next after last start = %v, want nil", got)
	}
}

func TestFilterForDateSorted(t *testing.T) {
	a := testAggregator()
	tasks := []*lifecycle.Task{
		task("b", "14:00", 30, 0),
		task("unscheduled", "Pending", 30, 0),
		task("a", "08:00", 30, 0),
		task("other-day", "09:00", 30, 2),
	}

	day := a.FilterForDate(tasks, clock(0, 0))
	if len(day) != 3 {
		t.Fatalf("day tasks = %d, want 3", len(day))
	}
	if day[0].ID != "a" || day[1].ID != "b" {
		t.Errorf("order = %s, %s; want a, b", day[0].ID, day[1].ID)
	}
	if day[2].ID != "unscheduled" {
		t.Errorf("unscheduled task must sort last, got %s", day[2].ID)
	}
}

func TestPast(t *testing.T) {
	a := testAggregator()

	tests := []struct {
		name string
		task *lifecycle.Task
		now  time.Time
		want bool
	}{
		{"yesterday", task("t", "09:00", 30, -1), clock(8, 0), true},
		{"tomorrow", task("t", "09:00", 30, 1), clock(23, 0), false},
		{"window elapsed today", task("t", "09:00", 30, 0), clock(9, 31), true},
		{"window open today", task("t", "09:00", 30, 0), clock(9, 30), false},
		{"unscheduled today", task("t", "Pending", 30, 0), clock(23, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Past(tt.task, tt.now); got != tt.want {
				t.Errorf("Past = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRadarWindowHalfOpen(t *testing.T) {
	a := testAggregator()
	scanDays := 7
	tasks := []*lifecycle.Task{
		task("today", "09:00", 30, 0),
		task("edge-in", "09:00", 30, scanDays-1),
		task("edge-out", "09:00", 30, scanDays),
		task("past", "09:00", 30, -1),
		task("unscheduled", "Pending", 30, 2),
	}

	entries := a.RadarWindow(tasks, clock(12, 0), scanDays)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Task.ID != "today" || entries[0].DayIndex != 0 {
		t.Errorf("first entry = %s day %d", entries[0].Task.ID, entries[0].DayIndex)
	}
	if entries[1].Task.ID != "edge-in" || entries[1].DayIndex != scanDays-1 {
		t.Errorf("second entry = %s day %d", entries[1].Task.ID, entries[1].DayIndex)
	}
}

func TestRadarWindowArcFloor(t *testing.T) {
	a := testAggregator()
	tasks := []*lifecycle.Task{task("short", "12:00", 1, 0)}

	entries := a.RadarWindow(tasks, clock(8, 0), 7)
	if len(entries) != 1 {
		t.Fatal("expected one entry")
	}
	span := entries[0].AngleEnd - entries[0].AngleStart
	if span < a.MinArcDegrees {
		t.Errorf("arc span = %v, want at least %v", span, a.MinArcDegrees)
	}
	// Noon sits at angle zero on the radar.
	if entries[0].AngleStart != 0 {
		t.Errorf("noon start angle = %v, want 0", entries[0].AngleStart)
	}
}

func TestRadarWindowOrdering(t *testing.T) {
	a := testAggregator()
	tasks := []*lifecycle.Task{
		task("day2", "08:00", 30, 2),
		task("day0-late", "18:00", 30, 0),
		task("day0-early", "13:00", 30, 0),
	}

	entries := a.RadarWindow(tasks, clock(8, 0), 7)
	if len(entries) != 3 {
		t.Fatalf("entries = %d", len(entries))
	}
	want := []string{"day0-early", "day0-late", "day2"}
	for i, id := range want {
		if entries[i].Task.ID != id {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].Task.ID, id)
		}
	}
}
