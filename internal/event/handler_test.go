package event

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(producer KafkaProducer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(NewService(producer, zap.NewNop()), zap.NewNop())
	handler.RegisterRoutes(router)
	return router
}

func TestTrackEventEndpoint(t *testing.T) {
	producer := &fakeProducer{}
	router := newTestRouter(producer)

	body := `{
		"eventType": "search",
		"userId": "u1",
		"meta": {"code": "P0171", "brand": "toyota"},
		"timestamp": "2026-03-14T09:30:00Z"
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "eventId")
	require.Len(t, producer.sent, 1)
	assert.Equal(t, "u1", producer.sent[0])
}

func TestTrackEventEndpointRejectsMissingType(t *testing.T) {
	router := newTestRouter(&fakeProducer{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(`{"userId":"u1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackEventBatchEndpoint(t *testing.T) {
	producer := &fakeProducer{}
	router := newTestRouter(producer)

	body := `[
		{"eventType": "page_view", "path": "/home", "deviceId": "d1"},
		{"eventType": "click", "deviceId": "d1", "meta": {"label": "cta"}}
	]`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"processedCount":2`)
	assert.Len(t, producer.sent, 2)
}

func TestTrackEventBatchEndpointRejectsEmptyList(t *testing.T) {
	router := newTestRouter(&fakeProducer{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/batch", strings.NewReader(`[]`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := newTestRouter(&fakeProducer{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kafka")
}
