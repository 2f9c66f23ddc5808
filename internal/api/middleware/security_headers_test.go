package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func hardenedResponse(t *testing.T, tls bool) http.Header {
	t.Helper()
	e := echo.New()
	e.Use(SecureHeaders())
	e.GET("/api/posts", okHandler)

	target := "http://campus.test/api/posts"
	if tls {
		target = "https://campus.test/api/posts"
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if tls {
		req.Header.Set("X-Forwarded-Proto", "https")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	return rec.Header()
}

func TestSecureHeaders_BrowserHardening(t *testing.T) {
	h := hardenedResponse(t, false)

	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "1; mode=block", h.Get("X-XSS-Protection"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Equal(t, "geolocation=(), microphone=(), camera=()", h.Get("Permissions-Policy"))
}

func TestSecureHeaders_CSPAllowsWebsocket(t *testing.T) {
	h := hardenedResponse(t, false)

	csp := h.Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "connect-src 'self' ws: wss:")
	assert.Contains(t, csp, "frame-ancestors 'none'")
}

func TestSecureHeaders_HSTSOnlyOverHTTPS(t *testing.T) {
	plain := hardenedResponse(t, false)
	assert.Empty(t, plain.Get("Strict-Transport-Security"))

	secure := hardenedResponse(t, true)
	assert.Equal(t, "max-age=31536000; includeSubDomains", secure.Get("Strict-Transport-Security"))
}
