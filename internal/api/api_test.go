package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitgrid/internal/analytics"
	"github.com/julianstephens/habitgrid/internal/config"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/service"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

type testEnv struct {
	store  *sqlite.Store
	router http.Handler
}

func newTestEnv(t *testing.T, cfg config.ServerConfig) *testEnv {
	t.Helper()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitgrid.db"))
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := service.New(store,
		service.WithLocation(time.UTC),
		service.WithClock(func() time.Time { return now }),
	)

	return &testEnv{store: store, router: NewRouter(svc, cfg)}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func (e *testEnv) createHabit(t *testing.T, name string) models.HabitView {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/habits/", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.HabitView](t, rec)
}

func (e *testEnv) checkIn(t *testing.T, habitID, date string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/api/checkins/", map[string]string{"habit": habitID, "date": date})
}

func TestHabitLifecycle(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	created := env.createHabit(t, "Read")
	assert.Equal(t, "Read", created.Name)
	assert.Equal(t, "#4ade80", created.Color)
	assert.NotEmpty(t, created.ID)

	// Trailing slash is optional.
	for _, path := range []string{"/api/habits/" + created.ID + "/", "/api/habits/" + created.ID} {
		rec := env.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, created.ID, decode[models.HabitView](t, rec).ID)
	}

	rec := env.do(t, http.MethodPut, "/api/habits/"+created.ID+"/", map[string]string{"name": "Read more", "color": "#000000"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.HabitView](t, rec)
	assert.Equal(t, "Read more", updated.Name)
	assert.Equal(t, "#000000", updated.Color)

	rec = env.do(t, http.MethodPatch, "/api/habits/"+created.ID+"/", map[string]string{"description": "nightly"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	patched := decode[models.HabitView](t, rec)
	assert.Equal(t, "Read more", patched.Name)
	assert.Equal(t, "nightly", patched.Description)

	rec = env.do(t, http.MethodGet, "/api/habits", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.HabitView](t, rec), 1)

	rec = env.do(t, http.MethodDelete, "/api/habits/"+created.ID+"/", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/habits/"+created.ID+"/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, decode[ErrorBody](t, rec).Error.Code)

	rec = env.do(t, http.MethodDelete, "/api/habits/"+created.ID+"/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmptyHabitListIsArray(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	rec := env.do(t, http.MethodGet, "/api/habits/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestCreateHabitErrors(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	tests := []struct {
		name     string
		body     any
		wantCode string
	}{
		{"missing name", map[string]string{"description": "x"}, CodeValidation},
		{"bad color", map[string]string{"name": "Read", "color": "red"}, CodeValidation},
		{"malformed json", `{"name":`, CodeBadRequest},
		{"empty body", "", CodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/habits/", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, decode[ErrorBody](t, rec).Error.Code)
		})
	}
}

func TestValidationErrorListsFields(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	rec := env.do(t, http.MethodPost, "/api/habits/", map[string]string{"color": "nope"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[ErrorBody](t, rec)
	fields := make([]string, 0, len(body.Error.Fields))
	for _, f := range body.Error.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "color"}, fields)
}

func TestCheckInEndpoints(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})
	habit := env.createHabit(t, "Run")

	rec := env.checkIn(t, habit.ID, "2024-03-09")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.CheckInView](t, rec)
	assert.Equal(t, "2024-03-09", created.Date)
	assert.Equal(t, habit.ID, created.HabitID)
	assert.Equal(t, analytics.ColorLight, created.Color)

	rec = env.checkIn(t, habit.ID, "2024-03-09")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, CodeConflict, decode[ErrorBody](t, rec).Error.Code)

	rec = env.checkIn(t, "00000000-0000-0000-0000-000000000000", "2024-03-09")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeValidation, decode[ErrorBody](t, rec).Error.Code)

	rec = env.checkIn(t, habit.ID, "2024-03-10")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/checkins/?habit_id="+habit.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]models.CheckInView](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-03-10", list[0].Date)
	assert.Equal(t, "2024-03-09", list[1].Date)

	rec = env.do(t, http.MethodGet, "/api/checkins/"+created.ID+"/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[models.CheckInView](t, rec).ID)

	rec = env.do(t, http.MethodPut, "/api/checkins/"+created.ID+"/", map[string]string{"date": "2024-03-01"})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/checkins/"+created.ID+"/", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/checkins/"+created.ID+"/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHabitDeleteCascadesCheckIns(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})
	habit := env.createHabit(t, "Run")
	require.Equal(t, http.StatusCreated, env.checkIn(t, habit.ID, "2024-03-09").Code)

	require.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/habits/"+habit.ID, nil).Code)

	rec := env.do(t, http.MethodGet, "/api/checkins/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHeatmapEndpoint(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})
	a := env.createHabit(t, "Read")
	b := env.createHabit(t, "Run")
	require.Equal(t, http.StatusCreated, env.checkIn(t, a.ID, "2024-03-02").Code)
	require.Equal(t, http.StatusCreated, env.checkIn(t, b.ID, "2024-03-02").Code)

	rec := env.do(t, http.MethodGet, "/api/heatmap/?from=2024-03-01&to=2024-03-03", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `[
		{"date":"2024-03-01","count":0,"color":"#ebedf0"},
		{"date":"2024-03-02","count":2,"color":"#9be9a8"},
		{"date":"2024-03-03","count":0,"color":"#ebedf0"}
	]`, rec.Body.String())

	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{"missing both", "", CodeMissingParameter},
		{"missing to", "?from=2024-03-01", CodeMissingParameter},
		{"unparsable", "?from=2024-13-01&to=2024-12-31", CodeInvalidRange},
		{"inverted", "?from=2024-03-05&to=2024-03-01", CodeInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/heatmap/"+tt.query, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decode[ErrorBody](t, rec).Error.Code)
		})
	}
}

func TestStatsEndpoint(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})
	habit := env.createHabit(t, "Read")
	require.Equal(t, http.StatusCreated, env.checkIn(t, habit.ID, "2024-03-10").Code)

	rec := env.do(t, http.MethodGet, "/api/stats/?habit_id="+habit.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"total_completed": 1,
		"completion_percentage": 100,
		"current_streak": 1,
		"longest_streak": 1
	}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/stats/", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeMissingParameter, decode[ErrorBody](t, rec).Error.Code)

	rec = env.do(t, http.MethodGet, "/api/stats/?habit_id=00000000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	rec := env.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	require.NoError(t, env.store.Close())
	rec = env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})
	env.createHabit(t, "Read")

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "habitgrid_http_requests_total")
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	rec := env.do(t, http.MethodGet, "/api/habits/missing/", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	id := rec.Header().Get("X-Request-Id")
	require.NotEmpty(t, id)
	assert.Equal(t, id, decode[ErrorBody](t, rec).Error.RequestID)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	rec := env.do(t, http.MethodGet, "/api/nothing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, decode[ErrorBody](t, rec).Error.Code)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{
		RateLimitEnabled:  true,
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	})

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/habits/", nil).Code)
	}
	rec := env.do(t, http.MethodGet, "/api/habits/", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, CodeRateLimited, decode[ErrorBody](t, rec).Error.Code)

	// Health checks are outside the limited group.
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthz", nil).Code)
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{CORSOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/habits/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
