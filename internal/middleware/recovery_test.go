package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tasktracker/internal/logger"
	"tasktracker/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryWithLog_PassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	router := gin.New()
	router.Use(middleware.RecoveryWithLog(logger.NewWithOutput("info", "json", &buf)))
	router.GET("/tasks", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tasks": []string{}})
	})

	req, _ := http.NewRequest("GET", "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tasks":[]}`, w.Body.String())
	assert.Zero(t, buf.Len())
}

func TestRecoveryWithLog_Panic(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	router := gin.New()
	router.Use(middleware.RecoveryWithLog(logger.NewWithOutput("info", "json", &buf)))

	downstreamRan := false
	router.POST("/tasks/:id/status",
		func(c *gin.Context) {
			panic("db password is hunter2")
		},
		func(c *gin.Context) {
			downstreamRan = true
			c.Status(http.StatusOK)
		},
	)

	req, _ := http.NewRequest("POST", "/tasks/7/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.False(t, downstreamRan, "handlers after the panic must not run")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "recovered from panic", entry["msg"])
	assert.Equal(t, "db password is hunter2", entry["panic"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/tasks/7/status", entry["path"])
	assert.NotEmpty(t, entry["stack"])
}
