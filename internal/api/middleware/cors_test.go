package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func corsServer(origins []string) *echo.Echo {
	e := echo.New()
	e.Use(CORS(origins))
	e.GET("/api/posts", okHandler)
	return e
}

func corsRequest(e *echo.Echo, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Origin", origin)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCORS_AllowedOrigin(t *testing.T) {
	e := corsServer([]string{"https://campus.klias.edu", "http://localhost:3000"})

	rec := corsRequest(e, "https://campus.klias.edu")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://campus.klias.edu", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_UnknownOrigin(t *testing.T) {
	e := corsServer([]string{"https://campus.klias.edu"})

	rec := corsRequest(e, "https://elsewhere.example.com")

	// The request itself succeeds; the browser enforces the missing header
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardDiscarded(t *testing.T) {
	e := corsServer([]string{"*"})

	rec := corsRequest(e, "https://elsewhere.example.com")

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_EmptyFallsBackToLocalhost(t *testing.T) {
	e := corsServer(nil)

	rec := corsRequest(e, "http://localhost:3000")

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_TrimsWhitespace(t *testing.T) {
	e := corsServer([]string{"  https://campus.klias.edu  "})

	rec := corsRequest(e, "https://campus.klias.edu")

	assert.Equal(t, "https://campus.klias.edu", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightAllowsUserIDHeader(t *testing.T) {
	e := corsServer([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), UserIDHeader)
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
