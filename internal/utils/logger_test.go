package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer) Logger {
	return NewSlogLogger(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func newLoggedRouter(logger Logger, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggerMiddleware(logger))
	router.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	})
	router.Use(ContextLogger(logger))
	router.GET("/api/v1/stats/summary", func(c *gin.Context) {
		GetLoggerFromContext(c, nil).Info("building summary", "period", "month")
		c.String(http.StatusOK, RequestIDFromContext(c.Request.Context()))
	})
	return router
}

func TestContextLogger_TagsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	router := newLoggedRouter(jsonLogger(&buf), "user-42")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/summary", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-7", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-7", w.Body.String())

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)

	handlerLine := lines[0]
	assert.Equal(t, "building summary", handlerLine["msg"])
	assert.Equal(t, "req-7", handlerLine["request_id"])
	assert.Equal(t, "user-42", handlerLine["user_id"])
	assert.Equal(t, "/api/v1/stats/summary", handlerLine["path"])
	assert.Equal(t, "month", handlerLine["period"])

	accessLine := lines[1]
	assert.Equal(t, "HTTP Request", accessLine["msg"])
	assert.Equal(t, "INFO", accessLine["level"])
	assert.Equal(t, "req-7", accessLine["request_id"])
	assert.Equal(t, "user-42", accessLine["user_id"])
	assert.EqualValues(t, http.StatusOK, accessLine["status_code"])
}

func TestContextLogger_GeneratesRequestID(t *testing.T) {
	var buf bytes.Buffer
	router := newLoggedRouter(jsonLogger(&buf), "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats/summary", nil))

	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	lines := logLines(t, &buf)
	require.NotEmpty(t, lines)
	assert.Equal(t, generated, lines[0]["request_id"])
	assert.NotContains(t, lines[0], "user_id")
}

func TestGetLoggerFromContext_Fallback(t *testing.T) {
	var buf bytes.Buffer
	fallback := jsonLogger(&buf)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Same(t, fallback, GetLoggerFromContext(c, fallback))
}

func TestLogRequest_Levels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusUnprocessableEntity, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			jsonLogger(&buf).LogRequest(http.MethodGet, "/api/v1/stats/export", tt.status, "3ms")

			lines := logLines(t, &buf)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.level, lines[0]["level"])
		})
	}
}

func TestTextLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTextLogger(&buf, slog.LevelWarn)

	logger.Debug("attempts loaded", "valid", 3)
	logger.LogError(errors.New("disk full"), "writing export")

	out := buf.String()
	assert.NotContains(t, out, "attempts loaded")
	assert.Contains(t, out, "writing export")
	assert.Contains(t, out, "error=\"disk full\"")
}

func TestToSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	ToSlogLogger(jsonLogger(&buf)).Info("exam prep service starting")

	assert.Contains(t, buf.String(), "exam prep service starting")
}
