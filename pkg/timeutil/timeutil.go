package timeutil

import (
	"fmt"
	"regexp"
	"time"
)

var (
	datePattern  = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// FormatDate renders an ISO date string as "Sun, Oct 15, 2023". It extracts the
// first YYYY-MM-DD substring so values carrying a time-of-day suffix still
// format. Missing input yields "No date", an unparseable or impossible calendar
// date yields "Invalid Date". Formatting uses UTC calendar fields so the output
// never shifts across timezones.
func FormatDate(dateString string) string {
	if dateString == "" {
		return "No date"
	}
	match := datePattern.FindString(dateString)
	if match == "" {
		return "Invalid Date"
	}
	t, err := time.ParseInLocation("2006-01-02", match, time.UTC)
	if err != nil {
		return "Invalid Date"
	}
	return t.Format("Mon, Jan 2, 2006")
}

// ParseClock converts an H:MM or HH:MM string into minutes since midnight.
// Out-of-range components ("25:00", "09:60") are rejected.
func ParseClock(s string) (int, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	var hours, minutes int
	fmt.Sscanf(m[1], "%d", &hours)
	fmt.Sscanf(m[2], "%d", &minutes)
	if hours > 23 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// DurationMinutes returns the minute span between two clock strings. A negative
// span is treated as crossing midnight and wraps forward one day.
func DurationMinutes(start, end string) (int, bool) {
	startMin, ok := ParseClock(start)
	if !ok {
		return 0, false
	}
	endMin, ok := ParseClock(end)
	if !ok {
		return 0, false
	}
	diff := endMin - startMin
	if diff < 0 {
		diff += 24 * 60
	}
	return diff, true
}

// Duration formats the span between two clock strings as "2h 30m", or "45m"
// when under an hour. Any malformed or missing input degrades to "0h 0m"
// rather than failing; callers rely on this never erroring.
func Duration(start, end string) string {
	minutes, ok := DurationMinutes(start, end)
	if !ok {
		return "0h 0m"
	}
	return FormatMinutes(minutes)
}

// FormatMinutes renders a minute count in the same "{h}h {m}m" / "{m}m" shape
// Duration uses.
func FormatMinutes(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
