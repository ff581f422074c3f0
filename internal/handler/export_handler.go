package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidyrota/tidyrota-api/internal/models"
	"github.com/tidyrota/tidyrota-api/internal/store"
	appErrors "github.com/tidyrota/tidyrota-api/pkg/errors"
	"github.com/tidyrota/tidyrota-api/pkg/response"
)

// Exporter renders stored records into downloadable documents.
type Exporter interface {
	BuildCSV(records []models.Record, withBOM bool) ([]byte, error)
	BuildPDF(rec models.Record) ([]byte, error)
	Filename() string
}

// ExportCSVRequest is the stateless export payload.
type ExportCSVRequest struct {
	Schedules []models.Record `json:"schedules"`
}

// ExportHandler serves CSV downloads, the stateless export endpoint and the
// printable PDF view.
type ExportHandler struct {
	store    *store.ScheduleStore
	exporter Exporter
}

// NewExportHandler constructs handler.
func NewExportHandler(st *store.ScheduleStore, exporter Exporter) *ExportHandler {
	return &ExportHandler{store: st, exporter: exporter}
}

// ExportCSV is a stateless pure function of the posted schedule list: it never
// reads the store and returns the same CSV structure as the client-side
// download, minus the byte order mark.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	var req ExportCSVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "schedules must be an array of schedule objects"))
		return
	}
	if len(req.Schedules) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "schedules array is required and must not be empty"))
		return
	}

	data, err := h.exporter.BuildCSV(req.Schedules, false)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeCSV(c, h.exporter.Filename(), data)
}

// Download streams the stored schedule list as CSV, BOM included for
// spreadsheet applications.
func (h *ExportHandler) Download(c *gin.Context) {
	data, err := h.exporter.BuildCSV(h.store.Records(), true)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeCSV(c, h.exporter.Filename(), data)
}

// Print renders one schedule's active entries as a PDF.
func (h *ExportHandler) Print(c *gin.Context) {
	rec, ok := h.store.Get(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "schedule not found"))
		return
	}
	data, err := h.exporter.BuildPDF(rec)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", c.Param("id")+".pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}

func writeCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
