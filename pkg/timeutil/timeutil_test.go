package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{"same-day span", "09:00", "11:30", "2h 30m"},
		{"zero span", "09:00", "09:00", "0m"},
		{"under an hour", "09:00", "09:59", "59m"},
		{"exact hour", "08:00", "09:00", "1h 0m"},
		{"overnight wrap", "23:00", "01:00", "2h 0m"},
		{"wrap to same minute next day keeps zero", "12:00", "12:00", "0m"},
		{"single digit hour", "9:15", "10:00", "45m"},
		{"hour out of range", "25:00", "26:00", "0h 0m"},
		{"minute out of range", "09:60", "10:00", "0h 0m"},
		{"empty start", "", "10:00", "0h 0m"},
		{"empty end", "09:00", "", "0h 0m"},
		{"garbage", "soon", "later", "0h 0m"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Duration(tc.start, tc.end))
		})
	}
}

func TestDurationMinutes(t *testing.T) {
	minutes, ok := DurationMinutes("09:00", "10:30")
	require.True(t, ok)
	assert.Equal(t, 90, minutes)

	minutes, ok = DurationMinutes("23:30", "00:15")
	require.True(t, ok)
	assert.Equal(t, 45, minutes)

	_, ok = DurationMinutes("9am", "10am")
	assert.False(t, ok)
}

func TestFormatDate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty input", "", "No date"},
		{"plain date", "2023-10-15", "Sun, Oct 15, 2023"},
		{"with time suffix", "2025-01-01T08:30:00Z", "Wed, Jan 1, 2025"},
		{"not a date", "not-a-date", "Invalid Date"},
		{"impossible calendar date", "2023-02-30", "Invalid Date"},
		{"month out of range", "2023-13-01", "Invalid Date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatDate(tc.input))
		})
	}
}

func TestParseClock(t *testing.T) {
	m, ok := ParseClock("00:00")
	require.True(t, ok)
	assert.Equal(t, 0, m)

	m, ok = ParseClock("23:59")
	require.True(t, ok)
	assert.Equal(t, 23*60+59, m)

	_, ok = ParseClock("24:00")
	assert.False(t, ok)
}
