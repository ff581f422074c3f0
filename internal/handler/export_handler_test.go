package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tidyrota/tidyrota-api/internal/service"
	"github.com/tidyrota/tidyrota-api/internal/store"
	"github.com/tidyrota/tidyrota-api/pkg/storage"
)

func newExportHandlerForTest(t *testing.T) *ExportHandler {
	t.Helper()
	kv, err := storage.NewKV(t.TempDir())
	require.NoError(t, err)
	st := store.NewScheduleStore(kv, store.Keys{Schedules: "schedules"}, nil, nil, nil, nil, zap.NewNop())
	require.NoError(t, st.Load())
	exporter := service.NewExportService(nil, nil, nil, zap.NewNop(), "test-export")
	return NewExportHandler(st, exporter)
}

func postExportCSV(t *testing.T, h *ExportHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/export-csv", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	h.ExportCSV(c)
	return w
}

func TestExportCSVMissingSchedules(t *testing.T) {
	h := newExportHandlerForTest(t)

	for _, body := range []string{`{}`, `{"schedules":[]}`, `{"schedules":"nope"}`} {
		w := postExportCSV(t, h, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
		assert.Contains(t, w.Body.String(), "error")
	}
}

func TestExportCSVSuccess(t *testing.T) {
	h := newExportHandlerForTest(t)

	body := `{"schedules":[
		{"id":"s1","title":"Morning","date":"2025-01-01","scheduleType":"date-specific","version":"2.0",
		 "entries":[{"id":"e1","time":"09:00","duration":60,"task":"Lobby","assignee":"Ana","status":"pending","recurrence":"none"}]},
		{"id":"old1","name":"John","start":"09:00","end":"10:00","tasks":"Clean rooms","version":"1.0"}
	]}`
	w := postExportCSV(t, h, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Housekeeper,Assignee,Date,Start Time,Duration (h),Tasks", strings.TrimSpace(lines[0]))
	assert.False(t, strings.HasPrefix(w.Body.String(), "\xEF\xBB\xBF"), "server endpoint omits the BOM")
}

func TestExportCSVNoValidRows(t *testing.T) {
	h := newExportHandlerForTest(t)

	// a schedule with no exportable entries is a structured failure
	w := postExportCSV(t, h, `{"schedules":[{"id":"s1","title":"","entries":[],"version":"2.0"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "EMPTY_EXPORT")
}
