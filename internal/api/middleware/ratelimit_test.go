package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func rateLimitedServer(perSecond float64, burst int) *echo.Echo {
	e := echo.New()
	e.Use(RateLimit(perSecond, burst, nil))
	e.GET("/api/posts", okHandler)
	return e
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	e := rateLimitedServer(10, 20)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_RejectsBeyondBurst(t *testing.T) {
	e := rateLimitedServer(1, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimit_SeparateBucketsPerIP(t *testing.T) {
	e := rateLimitedServer(1, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("X-Real-IP", "10.1.0.7")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A second client is not affected by the first one's exhausted bucket
	req = httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("X-Real-IP", "10.1.0.8")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIPRateLimiter_ReusesLimiterPerIP(t *testing.T) {
	l := NewIPRateLimiter(5, 10)

	first := l.GetLimiter("192.168.1.20")
	second := l.GetLimiter("192.168.1.20")
	other := l.GetLimiter("192.168.1.21")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}

func TestIPRateLimiter_EvictDropsStaleVisitors(t *testing.T) {
	l := NewIPRateLimiter(5, 10)
	l.GetLimiter("192.168.1.20")

	time.Sleep(time.Millisecond)
	l.Evict(time.Nanosecond)

	l.mu.Lock()
	remaining := len(l.visitors)
	l.mu.Unlock()
	assert.Zero(t, remaining)
}

func TestIPRateLimiter_EvictKeepsRecentVisitors(t *testing.T) {
	l := NewIPRateLimiter(5, 10)
	l.GetLimiter("192.168.1.20")

	l.Evict(time.Hour)

	l.mu.Lock()
	remaining := len(l.visitors)
	l.mu.Unlock()
	assert.Equal(t, 1, remaining)
}
