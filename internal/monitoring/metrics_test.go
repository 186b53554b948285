package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tasktracker/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(m *Monitor) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	router.GET("/health", m.HealthHandler())
	router.GET("/health/ready", m.ReadinessHandler())
	router.GET("/health/live", m.LivenessHandler())
	router.GET("/metrics", m.MetricsHandler())
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMiddleware_Counts(t *testing.T) {
	m := NewMonitor(testutil.NewLogger())
	router := newTestRouter(m)

	get(router, "/ok")
	get(router, "/ok")
	get(router, "/fail")
	get(router, "/nowhere")

	snap := m.Snapshot()
	assert.Equal(t, int64(4), snap.RequestCount)
	assert.Equal(t, int64(2), snap.ErrorCount)
	assert.Equal(t, int64(0), snap.ActiveRequests)
	assert.Equal(t, int64(2), snap.StatusCodes[http.StatusOK])
	assert.Equal(t, int64(2), snap.Endpoints["GET /ok"])
	assert.Equal(t, int64(1), snap.Endpoints["GET /fail"])
	assert.Len(t, snap.Endpoints, 2)
}

func TestHealthHandlers(t *testing.T) {
	m := NewMonitor(testutil.NewLogger())
	dbErr := error(nil)
	m.RegisterHealthCheck("database", func(ctx context.Context) error { return dbErr })
	m.RegisterHealthCheck("redis", func(ctx context.Context) error { return nil })
	router := newTestRouter(m)

	w := get(router, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string                 `json:"status"`
		Checks map[string]HealthCheck `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, StatusHealthy, body.Status)
	assert.Len(t, body.Checks, 2)

	assert.Equal(t, http.StatusOK, get(router, "/health/ready").Code)

	dbErr = errors.New("connection refused")

	w = get(router, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, StatusUnhealthy, body.Status)
	assert.Equal(t, "connection refused", body.Checks["database"].Message)
	assert.Equal(t, StatusHealthy, body.Checks["redis"].Status)

	assert.Equal(t, http.StatusServiceUnavailable, get(router, "/health/ready").Code)
	assert.Equal(t, http.StatusOK, get(router, "/health/live").Code)
}

func TestMetricsHandler(t *testing.T) {
	m := NewMonitor(testutil.NewLogger())
	router := newTestRouter(m)

	get(router, "/ok")
	w := get(router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Application Snapshot      `json:"application"`
		System      SystemMetrics `json:"system"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Application.RequestCount)
	assert.NotEmpty(t, body.System.GoVersion)
}
