package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// defaultOrigins covers local frontend development (Next.js and Vite ports).
var defaultOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// CORS returns CORS middleware restricted to the given origins. Wildcard
// entries are discarded; the browser clients send credentials, and a
// credentialed wildcard is rejected by browsers anyway. With no usable
// origins the local development defaults apply.
func CORS(origins []string) echo.MiddlewareFunc {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" || o == "*" {
			continue
		}
		allowed = append(allowed, o)
	}
	if len(allowed) == 0 {
		allowed = defaultOrigins
	}

	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     allowed,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, UserIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
