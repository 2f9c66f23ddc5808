package handlers

import (
	"github.com/labstack/echo/v4"
)

// UserIDContextKey is where the auth middleware stores the resolved user id.
const UserIDContextKey = "user_id"

// currentUserID returns the acting user's id placed in the context by the
// auth middleware, or "" when the request is anonymous.
func currentUserID(c echo.Context) string {
	id, _ := c.Get(UserIDContextKey).(string)
	return id
}

// confirmed reports whether the request carries confirm=true, the second
// phase of the destructive-operation protocol.
func confirmed(c echo.Context) bool {
	return c.QueryParam("confirm") == "true"
}
