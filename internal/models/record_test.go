package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLegacyJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want bool
	}{
		{"v1 tagged record", `{"name":"John","start":"09:00","end":"10:00","version":"1.0"}`, true},
		{"untagged record", `{"name":"John","start":"09:00","end":"10:00"}`, true},
		{"name without entries", `{"name":"John","version":"2.0"}`, true},
		{"current record", `{"id":"s1","title":"Morning","entries":[],"version":"2.0"}`, false},
		{"current record with name and entries", `{"name":"x","entries":[],"version":"2.0"}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsLegacyJSON([]byte(tc.raw)))
		})
	}
}

func TestRecordUnmarshalClassifies(t *testing.T) {
	raw := `[
		{"id":"old1","name":"John","start":"09:00","end":"10:00","version":"1.0"},
		{"id":"s1","title":"Morning","category":"housekeeping","scheduleType":"date-specific","entries":[{"id":"e1","time":"09:00","duration":30,"task":"Lobby","assignee":"Ana","status":"pending","recurrence":"none"}],"version":"2.0"}
	]`
	var records []Record
	require.NoError(t, json.Unmarshal([]byte(raw), &records))
	require.Len(t, records, 2)

	assert.Equal(t, KindLegacy, records[0].Kind)
	require.NotNil(t, records[0].Legacy)
	assert.Equal(t, "John", records[0].Legacy.Name)

	assert.Equal(t, KindCurrent, records[1].Kind)
	require.NotNil(t, records[1].Schedule)
	assert.Equal(t, "Morning", records[1].Schedule.Title)
	require.Len(t, records[1].Schedule.Entries, 1)
	assert.Equal(t, Minutes(30), records[1].Schedule.Entries[0].Duration)
}

func TestRecordMarshalRoundTrip(t *testing.T) {
	rec := Record{Kind: KindLegacy, Legacy: &LegacyRecord{ID: "old1", Name: "John", Start: "09:00", End: "10:00", Version: "1.0"}}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, KindLegacy, back.Kind)
	assert.Equal(t, rec.Legacy.Name, back.Legacy.Name)
}

func TestMinutesNormalisesLegacyDurations(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Minutes
	}{
		{"plain minutes", `90`, 90},
		{"decimal hour string", `"1.5"`, 90},
		{"whole hour string", `"2"`, 120},
		{"hour minute string", `"2h 30m"`, 150},
		{"minute only string", `"45m"`, 45},
		{"garbage degrades to zero", `"soon"`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m Minutes
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &m))
			assert.Equal(t, tc.want, m)
		})
	}
}

func TestActiveEntriesFollowsScheduleType(t *testing.T) {
	s := Schedule{
		ScheduleType: TypeWeekly,
		Entries:      []Entry{{ID: "ignored"}},
		WeeklyEntries: []WeeklyEntry{
			{Entry: Entry{ID: "w1", Task: "Windows"}, DayOfWeek: "Monday"},
		},
	}
	entries := s.ActiveEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "w1", entries[0].ID)

	s.ScheduleType = TypeDateSpecific
	entries = s.ActiveEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "ignored", entries[0].ID)
}
