// Package timemap converts wall-clock times and calendar dates into the
// coordinates used by the timeline strip and the temporal radar: linear
// offsets for the strip, noon-anchored polar angles for the radar, and
// whole-day ring indices.
//
// Every function here is pure. Malformed input never panics; unschedulable
// times are reported through the ok/false return instead.
package timemap

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the number of minutes in a wall-clock day.
const MinutesPerDay = 24 * 60

// noonOffset shifts the angular origin so 12:00 sits at 0 degrees. The radar
// centers the day on waking hours; midnight lands at the bottom (180).
const noonOffset = MinutesPerDay / 2

// ParseClock parses an "HH:MM" 24-hour time string into minutes since
// midnight. The second return is false for empty input, placeholder markers
// such as "Pending" or "Tomorrow 09:00", and anything else that is not a
// valid wall-clock time. Those tasks have no defined start and are excluded
// from timeline and radar placement.
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}

	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}

	return h*60 + m, true
}

// FormatClock renders minutes since midnight as "HH:MM". Input is normalized
// into [0, MinutesPerDay) first, so FormatClock(ParseClock(s)) round-trips
// for every valid clock string.
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	h := minutes / 60
	m := minutes % 60

	var b strings.Builder
	if h < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(h))
	b.WriteByte(':')
	if m < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(m))
	return b.String()
}

// Minutes returns the wall-clock minutes since midnight for the given
// instant. Callers poll this on a fixed cadence; nothing is cached so the
// value stays correct across machine sleep/resume.
func Minutes(now time.Time) int {
	return now.Hour()*60 + now.Minute()
}

// LinearOffset maps minutes since midnight to a horizontal offset on the
// timeline strip. Monotonic in minutes for any positive scale.
func LinearOffset(minutes int, perMinute float64) float64 {
	return float64(minutes) * perMinute
}

// SolarAngle maps minutes since midnight to a radar angle in [0, 360).
// Noon is anchored at 0 degrees: angle = ((m + 720) mod 1440) / 1440 * 360.
// The +720 offset is deliberate and must be preserved; it places 06:00 at
// 270, 18:00 at 90, and midnight at 180 so the rendered day centers on
// waking hours.
func SolarAngle(minutes int) float64 {
	solar := ((minutes+noonOffset)%MinutesPerDay + MinutesPerDay) % MinutesPerDay
	return float64(solar) / float64(MinutesPerDay) * 360
}

// ArcSpan returns the [start, end) angle pair for a task starting at
// startMinutes and lasting estMinutes. The span is floored at minArcDegrees
// so very short tasks remain visible on the radar.
func ArcSpan(startMinutes, estMinutes int, minArcDegrees float64) (float64, float64) {
	start := SolarAngle(startMinutes)
	span := float64(estMinutes) / float64(MinutesPerDay) * 360
	if span < minArcDegrees {
		span = minArcDegrees
	}
	return start, start + span
}

// Midnight truncates an instant to 00:00 of the same calendar day in the
// same location. All date comparisons in the application go through this so
// that string dates and timestamps never get compared in different shapes.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports whether two instants fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return Midnight(a).Equal(Midnight(b))
}

// DayIndex returns the whole-day difference between target and today:
// 0 for today, 1 for tomorrow, negative for past days. Out-of-window values
// are the caller's signal to drop the task from the current scan range, not
// to clamp it.
func DayIndex(target, today time.Time) int {
	diff := Midnight(target).Sub(Midnight(today))
	return int(math.Ceil(diff.Hours() / 24))
}

// ParseDate parses a calendar date at the decode boundary. Accepts a bare
// ISO date ("2006-01-02") or an RFC 3339 timestamp; either way the result is
// normalized to local midnight.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Midnight(t.Local()), true
	}
	return time.Time{}, false
}

// FormatDate renders a date in the canonical ISO form used on the wire.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// PolarToCartesian converts a radius and a radar angle into x/y around the
// given center. Angle 0 points straight up, increasing clockwise, matching
// the radar's screen orientation.
func PolarToCartesian(cx, cy, radius, angleDegrees float64) (float64, float64) {
	rad := (angleDegrees - 90) * math.Pi / 180
	return cx + radius*math.Cos(rad), cy + radius*math.Sin(rad)
}
