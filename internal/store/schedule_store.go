package store

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/tidyrota/tidyrota-api/internal/models"
	appErrors "github.com/tidyrota/tidyrota-api/pkg/errors"
	"github.com/tidyrota/tidyrota-api/pkg/storage"
)

// Validator checks a schedule's entries for conflicts.
type Validator interface {
	Validate(schedule *models.Schedule) []models.Conflict
}

// Migrator converts legacy rows of a stored list to the current schema.
type Migrator interface {
	MigrateRecords(records []models.Record) ([]models.Record, int)
}

// PersistFailureCounter is notified when a storage write fails.
type PersistFailureCounter interface {
	CountPersistFailure()
}

// ConsentFunc answers whether the user agreed to migrate legacy data found at
// load time. The browser origin of this flow was a blocking confirm() dialog;
// here the decision is injected so the surface owning the user can supply it.
type ConsentFunc func() bool

// Keys names the storage slots the store persists under.
type Keys struct {
	Schedules string
	Backup    string
}

// ScheduleStore owns the authoritative list of schedule records, persisting
// the whole list to the key/value store on every mutation. Mutations are
// validated where the source system validated them and deliberately not where
// it did not: Add appends unconditionally while Update is gated. That
// asymmetry is inherited behavior, kept on purpose and covered by tests.
type ScheduleStore struct {
	mu      sync.RWMutex
	records []models.Record

	kv        *storage.KV
	keys      Keys
	validator Validator
	migrator  Migrator
	metrics   PersistFailureCounter
	consent   ConsentFunc
	logger    *zap.Logger
}

// NewScheduleStore wires a store over the given storage. Call Load before use.
func NewScheduleStore(kv *storage.KV, keys Keys, validator Validator, migrator Migrator, metrics PersistFailureCounter, consent ConsentFunc, logger *zap.Logger) *ScheduleStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keys.Schedules == "" {
		keys.Schedules = "housekeepingSchedules"
	}
	if keys.Backup == "" {
		keys.Backup = keys.Schedules + "Backup"
	}
	if consent == nil {
		consent = func() bool { return false }
	}
	return &ScheduleStore{
		kv:        kv,
		keys:      keys,
		validator: validator,
		migrator:  migrator,
		metrics:   metrics,
		consent:   consent,
		logger:    logger,
	}
}

// Load reads the stored list once. A corrupted value is cleared and replaced
// with an empty list rather than surfacing an error. When the first stored row
// is legacy and consent is granted, the raw data is backed up verbatim and the
// list migrated; declined consent leaves the legacy rows untouched for a later
// attempt.
func (s *ScheduleStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, found, err := s.kv.Get(s.keys.Schedules)
	if err != nil {
		return err
	}
	if !found || raw == "" {
		s.records = nil
		return nil
	}

	var records []models.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.Warn("stored schedules are corrupted, resetting", zap.Error(err))
		if delErr := s.kv.Delete(s.keys.Schedules); delErr != nil {
			s.logger.Error("failed to clear corrupted schedules", zap.Error(delErr))
		}
		s.records = nil
		return nil
	}

	if len(records) > 0 && records[0].Kind == models.KindLegacy && s.migrator != nil {
		if s.consent() {
			if err := s.kv.Set(s.keys.Backup, raw); err != nil {
				s.logger.Error("failed to back up legacy data, skipping migration", zap.Error(err))
				s.records = records
				return nil
			}
			migrated, count := s.migrator.MigrateRecords(records)
			s.records = migrated
			s.logger.Info("migrated legacy schedules", zap.Int("count", count))
			s.persistLocked()
			return nil
		}
		s.logger.Info("legacy schedules detected, migration declined")
	}

	s.records = records
	return nil
}

// Migrate runs a consent-granted migration over the current list, backing up
// the pre-migration data first. It reports how many rows were converted, or
// NOTHING_TO_MIGRATE when no legacy rows remain.
func (s *ScheduleStore) Migrate() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hasLegacy := false
	for _, rec := range s.records {
		if rec.Kind == models.KindLegacy {
			hasLegacy = true
			break
		}
	}
	if !hasLegacy || s.migrator == nil {
		return 0, appErrors.ErrNothingToMigrate
	}

	raw, err := json.Marshal(s.records)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to snapshot data before migration")
	}
	if err := s.kv.Set(s.keys.Backup, string(raw)); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to back up data before migration")
	}

	migrated, count := s.migrator.MigrateRecords(s.records)
	s.records = migrated
	s.persistLocked()
	return count, nil
}

// Add appends a schedule without a validation gate and persists.
func (s *ScheduleStore) Add(schedule models.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := schedule.Clone()
	s.records = append(s.records, models.Record{Kind: models.KindCurrent, Schedule: &clone})
	s.persistLocked()
}

// AddLegacy appends a legacy-shaped record, used by the CSV import path.
func (s *ScheduleStore) AddLegacy(record models.LegacyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, models.Record{Kind: models.KindLegacy, Legacy: &record})
	s.persistLocked()
}

// Update validates the replacement schedule and swaps it in place of the row
// with the same id, preserving list order. A conflicting entry set leaves the
// state unchanged and returns the specific conflict as a typed error.
func (s *ScheduleStore) Update(schedule models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.validator != nil {
		if conflicts := s.validator.Validate(&schedule); len(conflicts) > 0 {
			return conflictError(conflicts[0])
		}
	}

	for i, rec := range s.records {
		if rec.RecordID() != schedule.ID {
			continue
		}
		clone := schedule.Clone()
		s.records[i] = models.Record{Kind: models.KindCurrent, Schedule: &clone}
		s.persistLocked()
		return nil
	}
	return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
}

// Delete removes the row with the given id unconditionally. Deleting an
// unknown id is a no-op.
func (s *ScheduleStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	removed := false
	for _, rec := range s.records {
		if rec.RecordID() == id {
			removed = true
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	if removed {
		s.persistLocked()
	}
}

// Get returns a copy of the record with the given id.
func (s *ScheduleStore) Get(id string) (models.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		if rec.RecordID() == id {
			return rec.Clone(), true
		}
	}
	return models.Record{}, false
}

// Records returns a defensive copy of the full stored list, legacy rows
// included.
func (s *ScheduleStore) Records() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Record, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out
}

// Schedules returns copies of the rows already in the current shape.
func (s *ScheduleStore) Schedules() []models.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Schedule, 0, len(s.records))
	for _, rec := range s.records {
		if rec.Kind == models.KindCurrent && rec.Schedule != nil {
			out = append(out, rec.Schedule.Clone())
		}
	}
	return out
}

// persistLocked serialises the whole list and writes it to storage. Write
// failures are logged and counted, never propagated, so in-memory state can
// run ahead of disk until the next successful write.
func (s *ScheduleStore) persistLocked() {
	data, err := json.Marshal(s.records)
	if err != nil {
		s.logger.Error("failed to serialize schedules", zap.Error(err))
		if s.metrics != nil {
			s.metrics.CountPersistFailure()
		}
		return
	}
	if err := s.kv.Set(s.keys.Schedules, string(data)); err != nil {
		s.logger.Error("failed to persist schedules", zap.Error(err))
		if s.metrics != nil {
			s.metrics.CountPersistFailure()
		}
	}
}

func conflictError(c models.Conflict) error {
	switch c.Type {
	case models.ConflictDuplicateTask:
		return appErrors.Clone(appErrors.ErrDuplicateTask, c.Message)
	case models.ConflictTimeOverlap:
		return appErrors.Clone(appErrors.ErrTimeOverlap, c.Message)
	default:
		return appErrors.Clone(appErrors.ErrValidation, c.Message)
	}
}
