package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidyrota/tidyrota-api/internal/service"
	"github.com/tidyrota/tidyrota-api/internal/store"
	appErrors "github.com/tidyrota/tidyrota-api/pkg/errors"
	"github.com/tidyrota/tidyrota-api/pkg/response"
)

// ImportHandler accepts CSV uploads and merges the parsed rows into the store.
type ImportHandler struct {
	store    *store.ScheduleStore
	importer *service.ImportService
}

// NewImportHandler constructs handler.
func NewImportHandler(st *store.ScheduleStore, importer *service.ImportService) *ImportHandler {
	return &ImportHandler{store: st, importer: importer}
}

// Import reads the request body as CSV text and reports how many rows were
// accepted. Skipped rows are not an error; an import already in flight is.
func (h *ImportHandler) Import(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read csv body"))
		return
	}

	imported, err := h.importer.Import(string(body), h.store)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"imported": imported})
}
