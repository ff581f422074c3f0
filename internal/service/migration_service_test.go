package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tidyrota/tidyrota-api/internal/models"
)

func TestMigrateV1ToV2(t *testing.T) {
	svc := NewMigrationService(zap.NewNop())

	schedules := svc.MigrateV1ToV2([]models.LegacyRecord{{
		ID:    "old1",
		Name:  "John",
		Start: "09:00",
		End:   "10:00",
		Tasks: "Clean rooms",
		Date:  "2025-01-01",
	}})
	require.Len(t, schedules, 1)

	s := schedules[0]
	assert.Equal(t, "old1", s.ID)
	assert.Equal(t, "John", s.Title)
	assert.Equal(t, models.CategoryGeneral, s.Category)
	assert.Equal(t, "2.0", s.Version)
	assert.Equal(t, "2025-01-01", s.Date)

	require.Len(t, s.Entries, 1)
	entry := s.Entries[0]
	assert.Equal(t, "09:00", entry.Time)
	assert.Equal(t, models.Minutes(60), entry.Duration)
	assert.Equal(t, "Clean rooms", entry.Task)
	assert.Equal(t, "John", entry.Assignee)
	assert.Equal(t, models.StatusPending, entry.Status)
	assert.Equal(t, models.RecurrenceNone, entry.Recurrence)
}

func TestMigrateV1ToV2Defaults(t *testing.T) {
	svc := NewMigrationService(zap.NewNop())

	schedules := svc.MigrateV1ToV2([]models.LegacyRecord{{Start: "bad", End: "worse"}})
	require.Len(t, schedules, 1)

	s := schedules[0]
	assert.Equal(t, "migrated-0", s.ID)
	assert.Equal(t, "Migrated Schedule", s.Title)

	require.Len(t, s.Entries, 1)
	entry := s.Entries[0]
	assert.Equal(t, "migrated-0-entry-1", entry.ID)
	assert.Equal(t, models.Minutes(60), entry.Duration)
	assert.Equal(t, "General task", entry.Task)
	assert.Equal(t, "Unassigned", entry.Assignee)
}

func TestMigrateRecordsPassesCurrentThrough(t *testing.T) {
	svc := NewMigrationService(zap.NewNop())

	current := &models.Schedule{ID: "s1", Title: "Kept", Version: "2.0"}
	records := []models.Record{
		{Kind: models.KindLegacy, Legacy: &models.LegacyRecord{ID: "old1", Name: "John", Start: "09:00", End: "10:00"}},
		{Kind: models.KindCurrent, Schedule: current},
	}

	migrated, count := svc.MigrateRecords(records)
	require.Len(t, migrated, 2)
	assert.Equal(t, 1, count)
	assert.Equal(t, models.KindCurrent, migrated[0].Kind)
	assert.Equal(t, "old1", migrated[0].Schedule.ID)
	assert.Same(t, current, migrated[1].Schedule)
}

func TestIsLegacyData(t *testing.T) {
	svc := NewMigrationService(nil)
	assert.True(t, svc.IsLegacyData(models.Record{Kind: models.KindLegacy, Legacy: &models.LegacyRecord{Name: "John"}}))
	assert.False(t, svc.IsLegacyData(models.Record{Kind: models.KindCurrent, Schedule: &models.Schedule{ID: "s1"}}))
}
