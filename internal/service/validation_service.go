package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tidyrota/tidyrota-api/internal/models"
	"github.com/tidyrota/tidyrota-api/pkg/timeutil"
)

// DefaultOversizeThreshold is the entry count past which a schedule draws an
// advisory warning. The warning never blocks a mutation.
const DefaultOversizeThreshold = 130

// ValidationService checks a schedule's active entries for duplicate-task and
// time-overlap conflicts. The pairwise comparison is quadratic, which is fine
// at the advisory threshold scale.
type ValidationService struct {
	logger    *zap.Logger
	metrics   *MetricsService
	threshold int
}

// NewValidationService instantiates ValidationService. A nil metrics service
// disables counters, a zero threshold falls back to the default.
func NewValidationService(logger *zap.Logger, metrics *MetricsService, threshold int) *ValidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if threshold <= 0 {
		threshold = DefaultOversizeThreshold
	}
	return &ValidationService{logger: logger, metrics: metrics, threshold: threshold}
}

// Validate inspects the schedule's active entry list and returns every
// conflict found. An empty result means the schedule is valid. Oversized
// schedules are logged and counted but never rejected.
func (s *ValidationService) Validate(schedule *models.Schedule) []models.Conflict {
	entries := schedule.ActiveEntries()

	if len(entries) > s.threshold {
		s.logger.Warn("schedule exceeds advisory entry limit",
			zap.String("schedule_id", schedule.ID),
			zap.Int("entry_count", len(entries)),
			zap.Int("threshold", s.threshold))
		s.metrics.CountOversizeSchedule()
	}

	var conflicts []models.Conflict
	if schedule.Category == models.CategoryHousekeeping {
		conflicts = append(conflicts, duplicateTaskConflicts(entries)...)
	}
	conflicts = append(conflicts, overlapConflicts(entries)...)
	return conflicts
}

// IsValid is the boolean form of Validate.
func (s *ValidationService) IsValid(schedule *models.Schedule) bool {
	return len(s.Validate(schedule)) == 0
}

func duplicateTaskConflicts(entries []models.Entry) []models.Conflict {
	type pair struct{ task, assignee string }
	seen := make(map[pair]models.Entry, len(entries))
	var conflicts []models.Conflict
	for _, entry := range entries {
		key := pair{entry.Task, entry.Assignee}
		if prev, ok := seen[key]; ok {
			conflicts = append(conflicts, models.Conflict{
				Type:         models.ConflictDuplicateTask,
				EntryID:      entry.ID,
				OtherEntryID: prev.ID,
				Task:         entry.Task,
				Assignee:     entry.Assignee,
				Message:      fmt.Sprintf("task %q is assigned to %q more than once", entry.Task, entry.Assignee),
			})
			continue
		}
		seen[key] = entry
	}
	return conflicts
}

func overlapConflicts(entries []models.Entry) []models.Conflict {
	var conflicts []models.Conflict
	for i := 0; i < len(entries); i++ {
		startA, ok := timeutil.ParseClock(entries[i].Time)
		if !ok {
			continue
		}
		endA := startA + int(entries[i].Duration)
		for j := i + 1; j < len(entries); j++ {
			startB, ok := timeutil.ParseClock(entries[j].Time)
			if !ok {
				continue
			}
			endB := startB + int(entries[j].Duration)
			// Identical start times always clash, even for zero-width
			// intervals; otherwise the half-open [start, end) ranges must
			// intersect.
			if startA != startB && (startA >= endB || startB >= endA) {
				continue
			}
			conflicts = append(conflicts, models.Conflict{
				Type:         models.ConflictTimeOverlap,
				EntryID:      entries[j].ID,
				OtherEntryID: entries[i].ID,
				Message: fmt.Sprintf("entry at %s (%dm) overlaps entry at %s (%dm)",
					entries[j].Time, entries[j].Duration, entries[i].Time, entries[i].Duration),
			})
		}
	}
	return conflicts
}
