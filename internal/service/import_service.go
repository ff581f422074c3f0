package service

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tidyrota/tidyrota-api/internal/models"
	appErrors "github.com/tidyrota/tidyrota-api/pkg/errors"
	"github.com/tidyrota/tidyrota-api/pkg/timeutil"
)

// LegacySink receives accepted import rows. The store's add path satisfies it.
type LegacySink interface {
	AddLegacy(record models.LegacyRecord)
}

// ImportService parses CSV text into legacy-shaped records and merges them
// through the normal add path. Parsing splits rows naively on commas; embedded
// commas inside quoted fields are a known limitation inherited from the
// format's original producer. Only one import may run at a time; a second
// request while one is in flight is rejected rather than interleaved.
type ImportService struct {
	busy    atomic.Bool
	logger  *zap.Logger
	metrics *MetricsService
	now     func() time.Time
}

// NewImportService instantiates ImportService.
func NewImportService(metrics *MetricsService, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{logger: logger, metrics: metrics, now: time.Now}
}

// Import parses text and adds each accepted row to the sink, returning the
// number of rows imported. Malformed rows are skipped, never fatal; zero
// accepted rows is still a successful import of zero.
func (s *ImportService) Import(text string, sink LegacySink) (int, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return 0, appErrors.ErrImportInFlight
	}
	defer s.busy.Store(false)

	records := s.parse(text)
	for _, rec := range records {
		sink.AddLegacy(rec)
	}
	s.metrics.CountImportedRows(len(records))
	s.logger.Info("csv import finished", zap.Int("imported", len(records)))
	return len(records), nil
}

func (s *ImportService) parse(text string) []models.LegacyRecord {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var records []models.LegacyRecord
	counter := 0
	headerChecked := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitFields(line)
		if !headerChecked {
			headerChecked = true
			if isHeaderRow(fields) {
				continue
			}
		}
		if len(fields) < 4 {
			s.logger.Warn("skipping short csv row", zap.Int("fields", len(fields)))
			continue
		}

		rec := mapFields(fields)
		if rec.Name == "" || rec.Start == "" || rec.End == "" {
			s.logger.Warn("skipping csv row with missing name/start/end")
			continue
		}
		if strings.Contains(strings.ToLower(rec.Name), "name") {
			continue
		}

		counter++
		rec.ID = fmt.Sprintf("%d-%d", s.now().UnixMilli(), counter)
		rec.Version = "1.0"
		records = append(records, rec)
	}
	return records
}

// splitFields is a naive comma split with per-field trimming and outer-quote
// stripping. Quoted commas are not supported.
func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = stripQuotes(strings.TrimSpace(p))
	}
	return fields
}

func stripQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
		s = strings.ReplaceAll(s, `""`, `"`)
	}
	return strings.TrimSpace(s)
}

// isHeaderRow recognises the known header shapes: name,start,end,... and
// name,date,start,end,... case-insensitively.
func isHeaderRow(fields []string) bool {
	if len(fields) < 3 {
		return false
	}
	if !strings.EqualFold(fields[0], "name") {
		return false
	}
	if strings.EqualFold(fields[1], "start") && strings.EqualFold(fields[2], "end") {
		return true
	}
	return len(fields) >= 4 && strings.EqualFold(fields[2], "start") && strings.EqualFold(fields[3], "end")
}

// mapFields maps a data row onto the legacy shape, tolerating the exporter's
// 6-column layout (housekeeper,assignee,date,start,duration,tasks, with the
// end time reconstructed from start plus duration), the older 5-column
// name,date,start,end,tasks layout and the bare 4-column name,start,end,tasks
// layout.
func mapFields(fields []string) models.LegacyRecord {
	if len(fields) >= 6 {
		return models.LegacyRecord{
			Name:  fields[0],
			Date:  fields[2],
			Start: fields[3],
			End:   endFromDuration(fields[3], fields[4]),
			Tasks: fields[5],
		}
	}
	if len(fields) == 5 {
		return models.LegacyRecord{
			Name:  fields[0],
			Date:  fields[1],
			Start: fields[2],
			End:   fields[3],
			Tasks: fields[4],
		}
	}
	return models.LegacyRecord{
		Name:  fields[0],
		Start: fields[1],
		End:   fields[2],
		Tasks: fields[3],
	}
}

// endFromDuration rebuilds an end clock from a start clock and a duration
// string such as "1h 30m". An unreadable start yields an empty end, which
// rejects the row downstream.
func endFromDuration(start, duration string) string {
	startMin, ok := timeutil.ParseClock(start)
	if !ok {
		return ""
	}
	endMin := (startMin + int(models.ParseLegacyDuration(duration))) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", endMin/60, endMin%60)
}
