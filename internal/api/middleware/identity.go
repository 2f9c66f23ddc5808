package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/swaraj0405/klias-campus-backend/internal/repository"
)

// UserIDHeader carries the acting user's id on every API request.
const UserIDHeader = "X-User-ID"

// Identity resolves the X-User-ID header against the user directory and
// stores the id in the request context under contextKey. Requests without a
// resolvable user are rejected; every API operation acts on behalf of
// someone.
func Identity(users repository.UserRepository, contextKey string, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get(UserIDHeader)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]string{
					"error": "missing " + UserIDHeader + " header",
					"code":  "UNAUTHORIZED",
				})
			}

			if _, err := users.GetByID(c.Request().Context(), userID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					if logger != nil {
						logger.Warn("unknown user id",
							slog.String("ip", c.RealIP()),
							slog.String("user_id", userID))
					}
					return echo.NewHTTPError(http.StatusUnauthorized, map[string]string{
						"error": "unknown user",
						"code":  "UNAUTHORIZED",
					})
				}
				return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{
					"error": "failed to resolve user",
					"code":  "INTERNAL_ERROR",
				})
			}

			c.Set(contextKey, userID)
			return next(c)
		}
	}
}
