package handler

import "github.com/gin-gonic/gin"

// Handlers bundles everything the router mounts.
type Handlers struct {
	Schedules *ScheduleHandler
	Views     *ViewHandler
	Export    *ExportHandler
	Import    *ImportHandler
	Roster    *RosterHandler
}

// RegisterRoutes mounts every endpoint on the given group.
func RegisterRoutes(r *gin.RouterGroup, h Handlers) {
	r.GET("/schedules", h.Schedules.List)
	r.POST("/schedules", h.Schedules.Create)
	r.GET("/schedules/:id", h.Schedules.Get)
	r.PUT("/schedules/:id", h.Schedules.Update)
	r.DELETE("/schedules/:id", h.Schedules.Delete)
	r.POST("/schedules/migrate", h.Schedules.Migrate)

	r.GET("/assignees", h.Views.Assignees)
	r.GET("/schedules/views/entries", h.Views.Entries)

	r.POST("/export-csv", h.Export.ExportCSV)
	r.GET("/schedules/export", h.Export.Download)
	r.GET("/schedules/:id/print", h.Export.Print)
	r.POST("/schedules/import", h.Import.Import)

	r.GET("/housekeepers", h.Roster.List)
	r.POST("/housekeepers", h.Roster.Add)
	r.DELETE("/housekeepers/:name", h.Roster.Remove)
}
