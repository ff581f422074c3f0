package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidyrota/tidyrota-api/internal/models"
	"github.com/tidyrota/tidyrota-api/internal/service"
	"github.com/tidyrota/tidyrota-api/internal/store"
	"github.com/tidyrota/tidyrota-api/pkg/response"
)

// ViewHandler serves the derived read-only projections: the assignee list and
// per-schedule filtered entry sets.
type ViewHandler struct {
	store  *store.ScheduleStore
	filter *service.FilterService
}

// NewViewHandler constructs handler.
func NewViewHandler(st *store.ScheduleStore, filter *service.FilterService) *ViewHandler {
	return &ViewHandler{store: st, filter: filter}
}

// Assignees lists every known assignee with "all" leading.
func (h *ViewHandler) Assignees(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.filter.Assignees(h.store.Records()))
}

// Entries maps schedule ids to the active entries matching the assignee
// filter; aggregate counts ride along as metadata.
func (h *ViewHandler) Entries(c *gin.Context) {
	assignee := c.DefaultQuery("assignee", service.FilterAll)
	filtered := h.filter.EntriesBySchedule(h.store.Records(), assignee)
	if filtered == nil {
		filtered = map[string][]models.Entry{}
	}
	meta := map[string]interface{}{
		"entry_count":    h.filter.EntryCount(filtered),
		"assignee_count": h.filter.AssigneeCount(filtered),
	}
	response.JSON(c, http.StatusOK, filtered, meta)
}
