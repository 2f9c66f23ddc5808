package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testAPIKey = "campus-api-secret"

func authContext(authorization string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/users")
	return c, rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestAPIKeyAuth_MissingHeader(t *testing.T) {
	c, _ := authContext("")

	err := APIKeyAuth(testAPIKey, nil)(okHandler)(c)

	assert.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAPIKeyAuth_WrongKey(t *testing.T) {
	c, _ := authContext("Bearer not-the-key")

	err := APIKeyAuth(testAPIKey, nil)(okHandler)(c)

	assert.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	c, rec := authContext("Bearer "+testAPIKey)

	err := APIKeyAuth(testAPIKey, nil)(okHandler)(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyAuth_BareToken(t *testing.T) {
	// A token without the Bearer prefix still works
	c, rec := authContext(testAPIKey)

	err := APIKeyAuth(testAPIKey, nil)(okHandler)(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyAuth_EmptyKeyDisablesCheck(t *testing.T) {
	c, rec := authContext("")

	err := APIKeyAuth("", nil)(okHandler)(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
