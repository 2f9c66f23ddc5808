package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedServer(buf *bytes.Buffer, handler echo.HandlerFunc) *echo.Echo {
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	e := echo.New()
	e.Use(RequestLogger(logger, "user_id"))
	e.GET("/api/posts", handler)
	return e
}

func TestRequestLogger_EmitsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	e := loggedServer(&buf, okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/posts", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Contains(t, entry, "latency")
	assert.NotContains(t, entry, "user_id")
}

func TestRequestLogger_IncludesResolvedUser(t *testing.T) {
	var buf bytes.Buffer
	e := loggedServer(&buf, func(c echo.Context) error {
		c.Set("user_id", "user-7")
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "user-7", entry["user_id"])
}

func TestRequestLogger_RecordsErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	e := loggedServer(&buf, func(c echo.Context) error {
		return c.String(http.StatusNotFound, "not found")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
}

func TestRecover_TurnsPanicInto500(t *testing.T) {
	e := echo.New()
	e.Use(Recover())
	e.GET("/api/posts", func(c echo.Context) error {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
