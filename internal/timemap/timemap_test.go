package timemap

import (
	"math"
	"testing"
	"time"
)

// TestParseClock covers valid clock strings and the unschedulable markers.
func TestParseClock(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{name: "midnight", input: "00:00", want: 0, wantOK: true},
		{name: "morning", input: "09:00", want: 540, wantOK: true},
		{name: "noon", input: "12:00", want: 720, wantOK: true},
		{name: "last minute", input: "23:59", want: 1439, wantOK: true},
		{name: "single digit hour", input: "9:05", want: 545, wantOK: true},
		{name: "surrounding whitespace", input: " 07:30 ", want: 450, wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "pending marker", input: "Pending", wantOK: false},
		{name: "tomorrow marker", input: "Tomorrow 09:00", wantOK: false},
		{name: "hour out of range", input: "24:00", wantOK: false},
		{name: "minute out of range", input: "12:60", wantOK: false},
		{name: "negative hour", input: "-1:30", wantOK: false},
		{name: "missing minutes", input: "12", wantOK: false},
		{name: "too many parts", input: "12:30:15", wantOK: false},
		{name: "garbage", input: "abc", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseClock(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseClock(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// TestFormatClockRoundTrip verifies ParseClock is the left inverse of
// FormatClock over the whole day.
func TestFormatClockRoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		s := FormatClock(m)
		got, ok := ParseClock(s)
		if !ok {
			t.Fatalf("ParseClock(FormatClock(%d)) not ok, formatted %q", m, s)
		}
		if got != m {
			t.Fatalf("round trip failed: %d -> %q -> %d", m, s, got)
		}
	}
}

func TestFormatClockNormalizes(t *testing.T) {
	if got := FormatClock(-60); got != "23:00" {
		t.Errorf("FormatClock(-60) = %q, want %q", got, "23:00")
	}
	if got := FormatClock(MinutesPerDay + 90); got != "01:30" {
		t.Errorf("FormatClock(1530) = %q, want %q", got, "01:30")
	}
}

func TestMinutes(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 5, 59, 0, time.Local)
	if got := Minutes(now); got != 545 {
		t.Errorf("Minutes(09:05:59) = %d, want 545", got)
	}
}

func TestLinearOffsetMonotonic(t *testing.T) {
	prev := math.Inf(-1)
	for m := 0; m < MinutesPerDay; m += 7 {
		off := LinearOffset(m, 4)
		if off <= prev {
			t.Fatalf("LinearOffset not monotonic at minute %d: %f <= %f", m, off, prev)
		}
		prev = off
	}
	if got := LinearOffset(540, 4); got != 2160 {
		t.Errorf("LinearOffset(540, 4) = %f, want 2160", got)
	}
}

// TestSolarAngle pins the noon-anchored convention.
func TestSolarAngle(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		want    float64
	}{
		{name: "noon is origin", minutes: 720, want: 0},
		{name: "midnight is opposite", minutes: 0, want: 180},
		{name: "six am", minutes: 360, want: 270},
		{name: "six pm", minutes: 1080, want: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SolarAngle(tt.minutes); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SolarAngle(%d) = %f, want %f", tt.minutes, got, tt.want)
			}
		})
	}
}

// TestSolarAngleMonotonicModulo verifies the angle advances with the clock,
// wrapping exactly once at noon.
func TestSolarAngleMonotonicModulo(t *testing.T) {
	wraps := 0
	prev := SolarAngle(0)
	for m := 1; m < MinutesPerDay; m++ {
		cur := SolarAngle(m)
		if cur < prev {
			wraps++
			if m != 720 {
				t.Fatalf("unexpected wrap at minute %d", m)
			}
		}
		if cur < 0 || cur >= 360 {
			t.Fatalf("SolarAngle(%d) = %f out of [0,360)", m, cur)
		}
		prev = cur
	}
	if wraps != 1 {
		t.Errorf("expected exactly one wrap across the day, got %d", wraps)
	}
}

func TestArcSpan(t *testing.T) {
	start, end := ArcSpan(720, 60, 2)
	if start != 0 {
		t.Errorf("ArcSpan start = %f, want 0", start)
	}
	if math.Abs(end-15) > 1e-9 {
		t.Errorf("ArcSpan end for 60 minutes = %f, want 15", end)
	}

	// Very short tasks get the minimum visible arc.
	start, end = ArcSpan(720, 1, 2)
	if math.Abs((end-start)-2) > 1e-9 {
		t.Errorf("short task arc = %f degrees, want 2", end-start)
	}
}

func TestDayIndex(t *testing.T) {
	today := time.Date(2026, 3, 14, 11, 45, 0, 0, time.Local)

	tests := []struct {
		name   string
		target time.Time
		want   int
	}{
		{name: "same day", target: today, want: 0},
		{name: "same day different hour", target: today.Add(10 * time.Hour), want: 0},
		{name: "tomorrow", target: today.AddDate(0, 0, 1), want: 1},
		{name: "next week", target: today.AddDate(0, 0, 7), want: 7},
		{name: "yesterday", target: today.AddDate(0, 0, -1), want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayIndex(tt.target, today); got != tt.want {
				t.Errorf("DayIndex = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestDayIndexIncrements verifies the index grows by exactly one per
// calendar day forward.
func TestDayIndexIncrements(t *testing.T) {
	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	for i := 0; i < 30; i++ {
		target := today.AddDate(0, 0, i)
		if got := DayIndex(target, today); got != i {
			t.Fatalf("DayIndex at +%d days = %d", i, got)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
	}{
		{name: "iso date", input: "2026-03-14", wantOK: true},
		{name: "rfc3339", input: "2026-03-14T18:30:00Z", wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "garbage", input: "next tuesday", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
				t.Errorf("ParseDate(%q) not normalized to midnight: %v", tt.input, got)
			}
		})
	}
}

func TestSameDate(t *testing.T) {
	a := time.Date(2026, 3, 14, 1, 0, 0, 0, time.Local)
	b := time.Date(2026, 3, 14, 23, 59, 0, 0, time.Local)
	c := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)

	if !SameDate(a, b) {
		t.Error("expected same calendar day")
	}
	if SameDate(b, c) {
		t.Error("expected different calendar days")
	}
}

func TestPolarToCartesian(t *testing.T) {
	// Angle 0 points up from the center.
	x, y := PolarToCartesian(100, 100, 50, 0)
	if math.Abs(x-100) > 1e-9 || math.Abs(y-50) > 1e-9 {
		t.Errorf("angle 0: got (%f, %f), want (100, 50)", x, y)
	}

	// Angle 90 points right.
	x, y = PolarToCartesian(100, 100, 50, 90)
	if math.Abs(x-150) > 1e-9 || math.Abs(y-100) > 1e-9 {
		t.Errorf("angle 90: got (%f, %f), want (150, 100)", x, y)
	}
}
