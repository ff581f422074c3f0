package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tidyrota/tidyrota-api/internal/models"
	"github.com/tidyrota/tidyrota-api/internal/store"
	appErrors "github.com/tidyrota/tidyrota-api/pkg/errors"
	"github.com/tidyrota/tidyrota-api/pkg/response"
)

// EntryPayload carries one entry of a create/update request.
type EntryPayload struct {
	ID         string `json:"id"`
	Time       string `json:"time" validate:"required"`
	Duration   int    `json:"duration" validate:"gte=0"`
	Task       string `json:"task" validate:"required"`
	Assignee   string `json:"assignee" validate:"required"`
	Status     string `json:"status" validate:"omitempty,oneof=pending completed"`
	Recurrence string `json:"recurrence" validate:"omitempty,oneof=none daily weekly monthly"`
	Notes      string `json:"notes"`
	DayOfWeek  string `json:"dayOfWeek" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
}

// SchedulePayload is the create/update request body.
type SchedulePayload struct {
	Title         string         `json:"title" validate:"required"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	ScheduleType  string         `json:"scheduleType" validate:"omitempty,oneof=date-specific weekly"`
	Date          string         `json:"date"`
	Entries       []EntryPayload `json:"entries" validate:"dive"`
	WeeklyEntries []EntryPayload `json:"weeklyEntries" validate:"dive"`
	Recurrence    string         `json:"recurrence" validate:"omitempty,oneof=none daily weekly monthly"`
}

// ScheduleHandler manages schedule CRUD and migration endpoints.
type ScheduleHandler struct {
	store     *store.ScheduleStore
	validator *validator.Validate
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(st *store.ScheduleStore, validate *validator.Validate) *ScheduleHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleHandler{store: st, validator: validate}
}

// List returns every stored record, legacy rows in their original shape.
func (h *ScheduleHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.store.Records())
}

// Get returns the record with the given id.
func (h *ScheduleHandler) Get(c *gin.Context) {
	rec, ok := h.store.Get(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "schedule not found"))
		return
	}
	response.JSON(c, http.StatusOK, rec)
}

// Create appends a new schedule. The add path is deliberately not gated by
// entry validation; only updates are.
func (h *ScheduleHandler) Create(c *gin.Context) {
	var payload SchedulePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload"))
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload"))
		return
	}

	schedule := payload.toSchedule(uuid.NewString())
	h.store.Add(schedule)
	response.Created(c, schedule)
}

// Update replaces the schedule with the path id wholesale. Conflicting entry
// sets leave the stored state unchanged and surface the specific conflict.
func (h *ScheduleHandler) Update(c *gin.Context) {
	var payload SchedulePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload"))
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload"))
		return
	}

	schedule := payload.toSchedule(c.Param("id"))
	if err := h.store.Update(schedule); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// Delete removes the schedule with the path id. Unknown ids are a no-op.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	h.store.Delete(c.Param("id"))
	response.NoContent(c)
}

// Migrate runs a consented legacy migration over the stored list.
func (h *ScheduleHandler) Migrate(c *gin.Context) {
	count, err := h.store.Migrate()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"migrated": count})
}

func (p SchedulePayload) toSchedule(id string) models.Schedule {
	schedule := models.Schedule{
		ID:           id,
		Title:        p.Title,
		Description:  p.Description,
		Category:     models.Category(p.Category),
		ScheduleType: models.ScheduleType(p.ScheduleType),
		Date:         p.Date,
		Version:      "2.0",
		Recurrence:   models.Recurrence(p.Recurrence),
	}
	if schedule.Category == "" {
		schedule.Category = models.CategoryGeneral
	}
	if schedule.ScheduleType == "" {
		schedule.ScheduleType = models.TypeDateSpecific
	}
	schedule.Entries = make([]models.Entry, 0, len(p.Entries))
	for _, e := range p.Entries {
		schedule.Entries = append(schedule.Entries, e.toEntry())
	}
	for _, e := range p.WeeklyEntries {
		schedule.WeeklyEntries = append(schedule.WeeklyEntries, models.WeeklyEntry{
			Entry:     e.toEntry(),
			DayOfWeek: e.DayOfWeek,
		})
	}
	return schedule
}

func (e EntryPayload) toEntry() models.Entry {
	entry := models.Entry{
		ID:         e.ID,
		Time:       e.Time,
		Duration:   models.Minutes(e.Duration),
		Task:       e.Task,
		Assignee:   e.Assignee,
		Status:     models.EntryStatus(e.Status),
		Recurrence: models.Recurrence(e.Recurrence),
		Notes:      e.Notes,
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Status == "" {
		entry.Status = models.StatusPending
	}
	if entry.Recurrence == "" {
		entry.Recurrence = models.RecurrenceNone
	}
	return entry
}
