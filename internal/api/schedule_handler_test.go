package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ScheduleSync/internal/model"
	"ScheduleSync/internal/service"
	"ScheduleSync/internal/timeutil"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	gotDate time.Time
	err     error
}

func (f *fakeRunner) RunForDate(_ context.Context, date time.Time) (*service.PublishResult, error) {
	f.gotDate = date
	if f.err != nil {
		return nil, f.err
	}
	return &service.PublishResult{
		RunID:        "run-1",
		Date:         date.Format(timeutil.DateLayout),
		ArtifactName: "mlb_schedule/" + date.Format(timeutil.DateLayout) + ".json",
		Ack:          model.Ack{Backend: "s3", Name: "mlb_schedule/2024-05-01.json"},
		Report:       model.NewRunReport(),
	}, nil
}

type fakeRuns struct {
	date  string
	limit int
}

func (f *fakeRuns) ListRuns(_ context.Context, date string, limit int) ([]*model.ScheduleRun, error) {
	f.date, f.limit = date, limit
	return []*model.ScheduleRun{{RunUUID: "run-1", TargetDate: "2024-05-01", Status: "succeeded"}}, nil
}

func newRouter(runner ScheduleRunner, runs RunLister) (*gin.Engine, *ScheduleHandler) {
	gin.SetMode(gin.TestMode)
	l := logrus.New()
	l.SetOutput(io.Discard)
	h := NewScheduleHandler(runner, runs, timeutil.MustNew(), l)
	r := gin.New()
	r.POST("/schedule/run", h.RunSchedule)
	r.GET("/schedule/runs", h.ListRuns)
	r.GET("/healthz", h.Healthz)
	return r, h
}

func do(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRunSchedule_OK(t *testing.T) {
	runner := &fakeRunner{}
	r, _ := newRouter(runner, nil)

	w := do(r, http.MethodPost, "/schedule/run?date=2024-05-01")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-05-01", runner.gotDate.Format(timeutil.DateLayout))
	assert.Equal(t, timeutil.TargetZoneName, runner.gotDate.Location().String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "run-1", body["run_id"])
	assert.Equal(t, "mlb_schedule/2024-05-01.json", body["artifact"])
	assert.Contains(t, body, "report")
	assert.NotContains(t, body, "Records")
}

func TestRunSchedule_DefaultsToEasternToday(t *testing.T) {
	runner := &fakeRunner{}
	r, h := newRouter(runner, nil)
	// 02:00Z on the 2nd is still the 1st in New York
	h.now = func() time.Time { return time.Date(2024, 5, 2, 2, 0, 0, 0, time.UTC) }

	w := do(r, http.MethodPost, "/schedule/run")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-05-01", runner.gotDate.Format(timeutil.DateLayout))
}

func TestRunSchedule_BadDate(t *testing.T) {
	runner := &fakeRunner{}
	r, _ := newRouter(runner, nil)
	w := do(r, http.MethodPost, "/schedule/run?date=05/01/2024")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, runner.gotDate.IsZero())
}

func TestRunSchedule_ErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"fetch", &model.FetchError{Source: "the-odds-api", Err: errors.New("401")}, http.StatusBadGateway},
		{"publish", &model.PublishError{Name: "x.json", Err: errors.New("denied")}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newRouter(&fakeRunner{err: tc.err}, nil)
			w := do(r, http.MethodPost, "/schedule/run?date=2024-05-01")
			assert.Equal(t, tc.want, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestListRuns(t *testing.T) {
	runs := &fakeRuns{}
	r, _ := newRouter(&fakeRunner{}, runs)

	w := do(r, http.MethodGet, "/schedule/runs?date=2024-05-01&limit=5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-05-01", runs.date)
	assert.Equal(t, 5, runs.limit)
	assert.Contains(t, w.Body.String(), "run-1")

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/schedule/runs?date=yesterday").Code)
}

func TestListRuns_Disabled(t *testing.T) {
	r, _ := newRouter(&fakeRunner{}, nil)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/schedule/runs").Code)
}

func TestHealthz(t *testing.T) {
	r, _ := newRouter(&fakeRunner{}, nil)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthz").Code)
}
