package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerFallsBackToInfoOnBadLevel(t *testing.T) {
	log, err := NewLogger("not-a-level", "production")
	require.NoError(t, err)

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestWithServiceTagsEntries(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := WithService(zap.New(core), "query-service")

	log.Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "query-service", entries[0].ContextMap()["service"])
}

func TestRequestLoggerLogsOneLinePerRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/ping", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
}

func TestRequestLoggerRaisesLevelOnHandlerError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) {
		c.Error(assert.AnError) //nolint:errcheck
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.FilterMessage("HTTP request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}
