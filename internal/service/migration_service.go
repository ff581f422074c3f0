package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tidyrota/tidyrota-api/internal/models"
	"github.com/tidyrota/tidyrota-api/pkg/timeutil"
)

const (
	defaultMigratedTitle    = "Migrated Schedule"
	defaultMigratedTask     = "General task"
	defaultMigratedAssignee = "Unassigned"
	defaultMigratedDuration = 60
)

// MigrationService converts legacy v1 single-entry records into the current
// v2 multi-entry schema. All transforms are pure; deciding when to run them
// (and backing up the source data first) is the store's job.
type MigrationService struct {
	logger *zap.Logger
}

// NewMigrationService instantiates MigrationService.
func NewMigrationService(logger *zap.Logger) *MigrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MigrationService{logger: logger}
}

// IsLegacyData reports whether a classified record still carries the v1 shape.
func (s *MigrationService) IsLegacyData(rec models.Record) bool {
	return rec.Kind == models.KindLegacy
}

// MigrateV1ToV2 turns each legacy record into a single-entry v2 schedule. The
// legacy name becomes both the schedule title and the entry assignee; start
// and end collapse into a start time plus a minute duration. Records missing
// an id get a synthesized one keyed by position.
func (s *MigrationService) MigrateV1ToV2(records []models.LegacyRecord) []models.Schedule {
	schedules := make([]models.Schedule, 0, len(records))
	for i, legacy := range records {
		schedules = append(schedules, s.migrateOne(legacy, i))
	}
	return schedules
}

// MigrateRecords migrates the legacy rows of a mixed stored list in place,
// passing rows already in the current shape through untouched. It returns the
// migrated list and the number of rows converted.
func (s *MigrationService) MigrateRecords(records []models.Record) ([]models.Record, int) {
	out := make([]models.Record, 0, len(records))
	migrated := 0
	for i, rec := range records {
		if rec.Kind != models.KindLegacy || rec.Legacy == nil {
			out = append(out, rec)
			continue
		}
		schedule := s.migrateOne(*rec.Legacy, i)
		out = append(out, models.Record{Kind: models.KindCurrent, Schedule: &schedule})
		migrated++
	}
	return out, migrated
}

func (s *MigrationService) migrateOne(legacy models.LegacyRecord, index int) models.Schedule {
	id := legacy.ID
	if id == "" {
		id = fmt.Sprintf("migrated-%d", index)
	}

	duration, ok := timeutil.DurationMinutes(legacy.Start, legacy.End)
	if !ok {
		s.logger.Warn("unparseable legacy time span, defaulting duration",
			zap.String("schedule_id", id),
			zap.String("start", legacy.Start),
			zap.String("end", legacy.End))
		duration = defaultMigratedDuration
	}

	task := legacy.Tasks
	if task == "" {
		task = defaultMigratedTask
	}
	assignee := legacy.Name
	if assignee == "" {
		assignee = defaultMigratedAssignee
	}
	title := legacy.Name
	if title == "" {
		title = defaultMigratedTitle
	}

	entry := models.Entry{
		ID:         fmt.Sprintf("%s-entry-1", id),
		Time:       legacy.Start,
		Duration:   models.Minutes(duration),
		Task:       task,
		Assignee:   assignee,
		Status:     models.StatusPending,
		Recurrence: models.RecurrenceNone,
	}

	return models.Schedule{
		ID:           id,
		Title:        title,
		Category:     models.CategoryGeneral,
		ScheduleType: models.TypeDateSpecific,
		Date:         legacy.Date,
		Entries:      []models.Entry{entry},
		Version:      "2.0",
	}
}
