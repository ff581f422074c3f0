package models

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// EntryStatus tracks completion of a single entry.
type EntryStatus string

const (
	StatusPending   EntryStatus = "pending"
	StatusCompleted EntryStatus = "completed"
)

// Recurrence describes how often an entry or schedule repeats.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// ScheduleType determines which entry list is authoritative.
type ScheduleType string

const (
	TypeDateSpecific ScheduleType = "date-specific"
	TypeWeekly       ScheduleType = "weekly"
)

// Category groups schedules for filtering. The set is open ended; business
// logic only treats CategoryHousekeeping specially.
type Category string

const (
	CategoryGeneral      Category = "general"
	CategoryHousekeeping Category = "housekeeping"
	CategoryMaintenance  Category = "maintenance"
	CategoryOther        Category = "other"
)

// Weekdays enumerates the valid dayOfWeek values for weekly entries.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var (
	hourMinutePattern = regexp.MustCompile(`^(\d+)h(?:\s*(\d+)m)?$`)
	minuteOnlyPattern = regexp.MustCompile(`^(\d+)m$`)
)

// Minutes is an entry duration in whole minutes. Stored data written by older
// clients may carry the value as an hour string ("1.5", "2h 30m") instead of a
// minute count; unmarshalling normalises every form to minutes.
type Minutes int

func (m Minutes) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(m))
}

func (m *Minutes) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*m = Minutes(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*m = 0
		return nil
	}
	*m = ParseLegacyDuration(s)
	return nil
}

// ParseLegacyDuration converts a legacy duration string into minutes. Decimal
// values are hours (the legacy unit, see the "Duration (h)" export column);
// "2h 30m" and "45m" style values are parsed component-wise. Anything
// unreadable degrades to zero rather than erroring.
func ParseLegacyDuration(s string) Minutes {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if match := hourMinutePattern.FindStringSubmatch(s); match != nil {
		hours, _ := strconv.Atoi(match[1])
		mins := 0
		if match[2] != "" {
			mins, _ = strconv.Atoi(match[2])
		}
		return Minutes(hours*60 + mins)
	}
	if match := minuteOnlyPattern.FindStringSubmatch(s); match != nil {
		mins, _ := strconv.Atoi(match[1])
		return Minutes(mins)
	}
	if hours, err := strconv.ParseFloat(s, 64); err == nil {
		return Minutes(hours*60 + 0.5)
	}
	return 0
}

// Entry is one unit of work within a date-specific schedule.
type Entry struct {
	ID         string      `json:"id"`
	Time       string      `json:"time"`
	Duration   Minutes     `json:"duration"`
	Task       string      `json:"task"`
	Assignee   string      `json:"assignee"`
	Status     EntryStatus `json:"status"`
	Recurrence Recurrence  `json:"recurrence"`
	Notes      string      `json:"notes,omitempty"`
}

// WeeklyEntry is an entry pinned to a weekday instead of an absolute date.
type WeeklyEntry struct {
	Entry
	DayOfWeek string `json:"dayOfWeek"`
}

// Schedule is a named collection of entries, either date-specific or weekly.
type Schedule struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description,omitempty"`
	Category      Category      `json:"category"`
	ScheduleType  ScheduleType  `json:"scheduleType"`
	Date          string        `json:"date,omitempty"`
	Entries       []Entry       `json:"entries"`
	WeeklyEntries []WeeklyEntry `json:"weeklyEntries,omitempty"`
	Version       string        `json:"version"`
	Recurrence    Recurrence    `json:"recurrence,omitempty"`
}

// ActiveEntries returns the entry list the schedule type makes authoritative.
// Weekly entries are projected down to their embedded Entry for callers that
// only care about time, task and assignee.
func (s *Schedule) ActiveEntries() []Entry {
	if s.ScheduleType == TypeWeekly {
		entries := make([]Entry, len(s.WeeklyEntries))
		for i, we := range s.WeeklyEntries {
			entries[i] = we.Entry
		}
		return entries
	}
	return s.Entries
}

// Clone returns a deep copy safe to hand to callers.
func (s *Schedule) Clone() Schedule {
	out := *s
	if s.Entries != nil {
		out.Entries = append([]Entry(nil), s.Entries...)
	}
	if s.WeeklyEntries != nil {
		out.WeeklyEntries = append([]WeeklyEntry(nil), s.WeeklyEntries...)
	}
	return out
}
