package service

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/tidyrota/tidyrota-api/internal/models"
	"github.com/tidyrota/tidyrota-api/pkg/timeutil"
)

// FilterAll selects every assignee.
const FilterAll = "all"

// FilterService derives read-only views over a stored record list: the
// assignee roster for the filter dropdown and per-schedule entry subsets.
// Legacy rows are projected into synthetic entries on the fly and never
// persisted.
type FilterService struct {
	logger *zap.Logger
}

// NewFilterService instantiates FilterService.
func NewFilterService(logger *zap.Logger) *FilterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilterService{logger: logger}
}

// Assignees returns the sorted set of every entry's assignee across all
// records, union the legacy rows' names, with "all" always leading.
func (s *FilterService) Assignees(records []models.Record) []string {
	seen := map[string]struct{}{}
	for _, rec := range records {
		switch rec.Kind {
		case models.KindLegacy:
			if rec.Legacy != nil && rec.Legacy.Name != "" {
				seen[rec.Legacy.Name] = struct{}{}
			}
		case models.KindCurrent:
			if rec.Schedule == nil {
				continue
			}
			for _, entry := range rec.Schedule.ActiveEntries() {
				if entry.Assignee != "" {
					seen[entry.Assignee] = struct{}{}
				}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return append([]string{FilterAll}, names...)
}

// EntriesBySchedule maps each schedule id to its active entries matching the
// selected assignee. Legacy rows contribute one synthesized entry; legacy rows
// missing name, start or end are skipped with a log. Schedules with no
// matching entry are omitted from the result.
func (s *FilterService) EntriesBySchedule(records []models.Record, assignee string) map[string][]models.Entry {
	result := make(map[string][]models.Entry)
	for _, rec := range records {
		switch rec.Kind {
		case models.KindLegacy:
			entry, ok := s.synthesizeLegacyEntry(rec.Legacy)
			if !ok {
				continue
			}
			if assignee == FilterAll || entry.Assignee == assignee {
				result[rec.Legacy.ID] = []models.Entry{entry}
			}
		case models.KindCurrent:
			if rec.Schedule == nil {
				continue
			}
			var matched []models.Entry
			for _, entry := range rec.Schedule.ActiveEntries() {
				if assignee == FilterAll || entry.Assignee == assignee {
					matched = append(matched, entry)
				}
			}
			if len(matched) > 0 {
				result[rec.Schedule.ID] = matched
			}
		}
	}
	return result
}

// EntryCount totals the entries across a filtered map.
func (s *FilterService) EntryCount(filtered map[string][]models.Entry) int {
	count := 0
	for _, entries := range filtered {
		count += len(entries)
	}
	return count
}

// AssigneeCount counts distinct assignees across a filtered map.
func (s *FilterService) AssigneeCount(filtered map[string][]models.Entry) int {
	seen := map[string]struct{}{}
	for _, entries := range filtered {
		for _, entry := range entries {
			if entry.Assignee != "" {
				seen[entry.Assignee] = struct{}{}
			}
		}
	}
	return len(seen)
}

func (s *FilterService) synthesizeLegacyEntry(legacy *models.LegacyRecord) (models.Entry, bool) {
	if legacy == nil || legacy.Name == "" || legacy.Start == "" || legacy.End == "" {
		id := ""
		if legacy != nil {
			id = legacy.ID
		}
		s.logger.Warn("skipping incomplete legacy schedule", zap.String("schedule_id", id))
		return models.Entry{}, false
	}
	duration, ok := timeutil.DurationMinutes(legacy.Start, legacy.End)
	if !ok {
		duration = defaultMigratedDuration
	}
	task := legacy.Tasks
	if task == "" {
		task = defaultMigratedTask
	}
	return models.Entry{
		ID:         fmt.Sprintf("%s-entry-1", legacy.ID),
		Time:       legacy.Start,
		Duration:   models.Minutes(duration),
		Task:       task,
		Assignee:   legacy.Name,
		Status:     models.StatusPending,
		Recurrence: models.RecurrenceNone,
	}, true
}
