package handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/swaraj0405/klias-campus-backend/internal/api/response"
	"github.com/swaraj0405/klias-campus-backend/internal/repository"
)

// UserHandler handles directory-related HTTP requests
type UserHandler struct {
	userRepo repository.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// List handles GET /api/users
func (h *UserHandler) List(c echo.Context) error {
	if term := c.QueryParam("q"); term != "" {
		limit := 20
		if l := c.QueryParam("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		users, err := h.userRepo.Search(c.Request().Context(), term, limit)
		if err != nil {
			return response.InternalError(c, "failed to search users")
		}
		return response.Success(c, users)
	}

	users, err := h.userRepo.List(c.Request().Context())
	if err != nil {
		return response.InternalError(c, "failed to list users")
	}
	return response.Success(c, users)
}

// Get handles GET /api/users/:id
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userRepo.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "user not found")
		}
		return response.InternalError(c, "failed to get user")
	}
	return response.Success(c, user)
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.userRepo.GetByID(c.Request().Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "user not found")
		}
		return response.InternalError(c, "failed to get user")
	}
	return response.Success(c, user)
}
