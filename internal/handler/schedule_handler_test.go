package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tidyrota/tidyrota-api/internal/service"
	"github.com/tidyrota/tidyrota-api/internal/store"
	"github.com/tidyrota/tidyrota-api/pkg/response"
	"github.com/tidyrota/tidyrota-api/pkg/storage"
)

func newScheduleHandlerForTest(t *testing.T) (*ScheduleHandler, *store.ScheduleStore) {
	t.Helper()
	kv, err := storage.NewKV(t.TempDir())
	require.NoError(t, err)
	validation := service.NewValidationService(zap.NewNop(), nil, 0)
	st := store.NewScheduleStore(kv, store.Keys{Schedules: "schedules"}, validation, nil, nil, nil, zap.NewNop())
	require.NoError(t, st.Load())
	return NewScheduleHandler(st, nil), st
}

func doJSON(t *testing.T, handle gin.HandlerFunc, method, target, body string, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	handle(c)
	c.Writer.WriteHeaderNow()
	return w
}

func TestScheduleHandlerCreate(t *testing.T) {
	h, st := newScheduleHandlerForTest(t)

	body := `{"title":"Morning","category":"housekeeping","scheduleType":"date-specific","date":"2025-01-01",
		"entries":[{"time":"09:00","duration":60,"task":"Lobby","assignee":"Ana"}]}`
	w := doJSON(t, h.Create, http.MethodPost, "/schedules", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	schedules := st.Schedules()
	require.Len(t, schedules, 1)
	assert.NotEmpty(t, schedules[0].ID)
	assert.Equal(t, "2.0", schedules[0].Version)
	require.Len(t, schedules[0].Entries, 1)
	assert.Equal(t, "pending", string(schedules[0].Entries[0].Status))
	assert.Equal(t, "none", string(schedules[0].Entries[0].Recurrence))
}

func TestScheduleHandlerCreateRejectsMissingTitle(t *testing.T) {
	h, st := newScheduleHandlerForTest(t)

	w := doJSON(t, h.Create, http.MethodPost, "/schedules", `{"entries":[]}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, st.Schedules())
}

func TestScheduleHandlerUpdateSurfacesConflict(t *testing.T) {
	h, st := newScheduleHandlerForTest(t)

	seed := `{"title":"Morning","category":"housekeeping","scheduleType":"date-specific",
		"entries":[{"time":"09:00","duration":60,"task":"Lobby","assignee":"Ana"}]}`
	w := doJSON(t, h.Create, http.MethodPost, "/schedules", seed, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := st.Schedules()[0].ID

	conflicting := `{"title":"Morning","category":"housekeeping","scheduleType":"date-specific",
		"entries":[
			{"time":"09:00","duration":60,"task":"Lobby","assignee":"Ana"},
			{"time":"09:30","duration":60,"task":"Halls","assignee":"Ben"}
		]}`
	w = doJSON(t, h.Update, http.MethodPut, "/schedules/"+id, conflicting, gin.Params{{Key: "id", Value: id}})
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "TIME_OVERLAP", envelope.Error.Code)

	// stored schedule is untouched
	require.Len(t, st.Schedules()[0].Entries, 1)
}

func TestScheduleHandlerDelete(t *testing.T) {
	h, st := newScheduleHandlerForTest(t)

	seed := `{"title":"Morning","entries":[{"time":"09:00","duration":60,"task":"Lobby","assignee":"Ana"}]}`
	w := doJSON(t, h.Create, http.MethodPost, "/schedules", seed, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := st.Schedules()[0].ID

	w = doJSON(t, h.Delete, http.MethodDelete, "/schedules/"+id, "", gin.Params{{Key: "id", Value: id}})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, st.Schedules())
}
