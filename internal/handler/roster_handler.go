package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidyrota/tidyrota-api/internal/store"
	appErrors "github.com/tidyrota/tidyrota-api/pkg/errors"
	"github.com/tidyrota/tidyrota-api/pkg/response"
)

// RosterHandler manages the housekeeper name list used for assignee
// autocompletion.
type RosterHandler struct {
	roster *store.Roster
}

// NewRosterHandler constructs handler.
func NewRosterHandler(roster *store.Roster) *RosterHandler {
	return &RosterHandler{roster: roster}
}

// List returns the roster in insertion order.
func (h *RosterHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.roster.Names())
}

// Add appends a name; duplicates are a silent no-op.
func (h *RosterHandler) Add(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name is required"))
		return
	}
	h.roster.Add(req.Name)
	response.Created(c, h.roster.Names())
}

// Remove drops the named housekeeper if present.
func (h *RosterHandler) Remove(c *gin.Context) {
	h.roster.Remove(c.Param("name"))
	response.NoContent(c)
}
