package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tidyrota/tidyrota-api/internal/models"
	appErrors "github.com/tidyrota/tidyrota-api/pkg/errors"
	"github.com/tidyrota/tidyrota-api/pkg/export"
	"github.com/tidyrota/tidyrota-api/pkg/timeutil"
)

// csvHeaders is the fixed export column set. "Housekeeper" is the schedule
// title (the legacy name), "Assignee" the per-entry staff member.
var csvHeaders = []string{"Housekeeper", "Assignee", "Date", "Start Time", "Duration (h)", "Tasks"}

type csvRenderer interface {
	Render(data export.Dataset, withBOM bool) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title, subtitle string) ([]byte, error)
}

// ExportService turns stored records into downloadable CSV and printable PDF
// documents. Rows missing mandatory fields are skipped with a warning rather
// than aborting the whole export; an export that yields no rows at all is a
// structured failure, not an empty file.
type ExportService struct {
	csv            csvRenderer
	pdf            pdfRenderer
	metrics        *MetricsService
	logger         *zap.Logger
	filenamePrefix string
	now            func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// defaults.
func NewExportService(csv csvRenderer, pdf pdfRenderer, metrics *MetricsService, logger *zap.Logger, filenamePrefix string) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if filenamePrefix == "" {
		filenamePrefix = "housekeeping-schedules"
	}
	return &ExportService{
		csv:            csv,
		pdf:            pdf,
		metrics:        metrics,
		logger:         logger,
		filenamePrefix: filenamePrefix,
		now:            time.Now,
	}
}

// BuildCSV renders one row per active entry (or one row per entry-less legacy
// record) across the given records. withBOM controls the UTF-8 byte order
// mark for spreadsheet downloads; the server-side endpoint omits it.
func (s *ExportService) BuildCSV(records []models.Record, withBOM bool) ([]byte, error) {
	rows := s.buildRows(records)
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyExport, "no valid schedule entries to export")
	}
	data, err := s.csv.Render(export.Dataset{Headers: csvHeaders, Rows: rows}, withBOM)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	s.metrics.CountExportedRows(len(rows))
	return data, nil
}

// Filename returns the dated download name for a CSV export.
func (s *ExportService) Filename() string {
	return fmt.Sprintf("%s-%s.csv", s.filenamePrefix, s.now().UTC().Format("2006-01-02"))
}

// BuildPDF renders the printable view of a single record: its active entries
// as a table under the schedule title and formatted date.
func (s *ExportService) BuildPDF(rec models.Record) ([]byte, error) {
	var (
		title   string
		entries []models.Entry
		weekly  []models.WeeklyEntry
		date    string
	)
	switch rec.Kind {
	case models.KindLegacy:
		if rec.Legacy == nil {
			return nil, appErrors.Clone(appErrors.ErrEmptyExport, "nothing to print")
		}
		title = rec.Legacy.Name
		date = rec.Legacy.Date
		entries = []models.Entry{{
			Time:     rec.Legacy.Start,
			Duration: legacySpan(rec.Legacy),
			Task:     rec.Legacy.Tasks,
			Assignee: rec.Legacy.Name,
		}}
	case models.KindCurrent:
		if rec.Schedule == nil {
			return nil, appErrors.Clone(appErrors.ErrEmptyExport, "nothing to print")
		}
		title = rec.Schedule.Title
		date = rec.Schedule.Date
		if rec.Schedule.ScheduleType == models.TypeWeekly {
			weekly = rec.Schedule.WeeklyEntries
		} else {
			entries = rec.Schedule.Entries
		}
	}

	dataset := export.Dataset{}
	if weekly != nil {
		dataset.Headers = []string{"Day", "Time", "Duration", "Task", "Assignee", "Status"}
		for _, we := range weekly {
			dataset.Rows = append(dataset.Rows, []string{
				we.DayOfWeek, we.Time, timeutil.FormatMinutes(int(we.Duration)),
				we.Task, we.Assignee, string(we.Status),
			})
		}
	} else {
		dataset.Headers = []string{"Time", "Duration", "Task", "Assignee", "Status"}
		for _, entry := range entries {
			dataset.Rows = append(dataset.Rows, []string{
				entry.Time, timeutil.FormatMinutes(int(entry.Duration)),
				entry.Task, entry.Assignee, string(entry.Status),
			})
		}
	}
	if len(dataset.Rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyExport, "schedule has no entries to print")
	}

	subtitle := ""
	if date != "" {
		subtitle = timeutil.FormatDate(date)
	}
	data, err := s.pdf.Render(dataset, title, subtitle)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return data, nil
}

func (s *ExportService) buildRows(records []models.Record) [][]string {
	var rows [][]string
	for _, rec := range records {
		switch rec.Kind {
		case models.KindLegacy:
			if rec.Legacy == nil || rec.Legacy.Name == "" {
				s.logger.Warn("skipping legacy schedule without a name in export")
				continue
			}
			rows = append(rows, []string{
				rec.Legacy.Name,
				rec.Legacy.Name,
				rec.Legacy.Date,
				rec.Legacy.Start,
				timeutil.Duration(rec.Legacy.Start, rec.Legacy.End),
				rec.Legacy.Tasks,
			})
		case models.KindCurrent:
			if rec.Schedule == nil {
				continue
			}
			if rec.Schedule.Title == "" {
				s.logger.Warn("skipping schedule without a title in export",
					zap.String("schedule_id", rec.Schedule.ID))
				continue
			}
			for _, entry := range rec.Schedule.ActiveEntries() {
				if entry.Assignee == "" {
					s.logger.Warn("skipping entry without an assignee in export",
						zap.String("schedule_id", rec.Schedule.ID),
						zap.String("entry_id", entry.ID))
					continue
				}
				rows = append(rows, []string{
					rec.Schedule.Title,
					entry.Assignee,
					rec.Schedule.Date,
					entry.Time,
					timeutil.FormatMinutes(int(entry.Duration)),
					entry.Task,
				})
			}
		}
	}
	return rows
}

func legacySpan(legacy *models.LegacyRecord) models.Minutes {
	minutes, ok := timeutil.DurationMinutes(legacy.Start, legacy.End)
	if !ok {
		minutes = defaultMigratedDuration
	}
	return models.Minutes(minutes)
}
