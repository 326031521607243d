package analytics

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulseview/activity-analytics/internal/event"
)

func newTestRouter(store EventStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(NewService(store, zap.NewNop()), zap.NewNop())
	handler.RegisterRoutes(router)
	return router
}

func TestGetStatsEndpoint(t *testing.T) {
	store := &fakeStore{events: []event.Event{
		makeEvent("page_view", "u1", "/home", nil, localTime(9)),
		makeEvent("search", "u1", "", event.Meta{"code": "P0300"}, localTime(14)),
	}}
	router := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/stats?start=2026-03-01T00:00:00Z&end=2026-03-08T00:00:00Z&eventType=", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalPageViews)
	assert.Equal(t, 1, stats.TotalSearches)
	require.NotNil(t, store.lastFilter.Start)
	require.NotNil(t, store.lastFilter.End)
}

func TestGetStatsEndpointRejectsBadTimestamp(t *testing.T) {
	router := newTestRouter(&fakeStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/stats?start=yesterday", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "start")
}

func TestGetStatsEndpointWithoutFilters(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, store.lastFilter.Start)
	assert.Nil(t, store.lastFilter.End)
	assert.Empty(t, store.lastFilter.EventType)

	// Empty lists serialize as [], not null.
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, `[]`, string(body["pageViews"]))
	assert.JSONEq(t, `[]`, string(body["activityByHour"]))
}

func TestGetEventEndpoint(t *testing.T) {
	known := makeEvent("search", "u1", "", event.Meta{"code": "P0171"}, localTime(9))
	router := newTestRouter(&fakeStore{events: []event.Event{known}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+known.ID.String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), known.ID.String())
}

func TestGetEventEndpointNotFound(t *testing.T) {
	router := newTestRouter(&fakeStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEventEndpointRejectsBadID(t *testing.T) {
	router := newTestRouter(&fakeStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpointUnavailableWhenStoreDown(t *testing.T) {
	router := newTestRouter(&fakeStore{pingErr: errors.New("connection refused")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unavailable")
}

func TestGetUserActivityEndpoint(t *testing.T) {
	store := &fakeStore{events: []event.Event{
		makeEvent("click", "u1", "", nil, localTime(9)),
	}}
	router := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/activity?limit=5", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalEvents":1`)
}

func TestGetUserActivityEndpointRejectsBadLimit(t *testing.T) {
	router := newTestRouter(&fakeStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/activity?limit=-3", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
