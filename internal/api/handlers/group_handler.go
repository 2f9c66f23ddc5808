package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/swaraj0405/klias-campus-backend/internal/api/response"
	"github.com/swaraj0405/klias-campus-backend/internal/services"
)

// GroupHandler handles group HTTP requests
type GroupHandler struct {
	groupService  services.GroupService
	threadService services.ThreadService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupService services.GroupService, threadService services.ThreadService) *GroupHandler {
	return &GroupHandler{
		groupService:  groupService,
		threadService: threadService,
	}
}

// createGroupRequest is the payload for creating a group
type createGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
}

// updateGroupRequest is the payload for renaming a group
type updateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// memberIDsRequest is the payload for adding members
type memberIDsRequest struct {
	UserIDs []string `json:"user_ids"`
}

// List handles GET /api/groups
func (h *GroupHandler) List(c echo.Context) error {
	items, err := h.groupService.ListGroups(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, items)
}

// Create handles POST /api/groups
func (h *GroupHandler) Create(c echo.Context) error {
	var req createGroupRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	group, err := h.groupService.CreateGroup(c.Request().Context(), currentUserID(c), req.Name, req.MemberIDs)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, group)
}

// Get handles GET /api/groups/:id
func (h *GroupHandler) Get(c echo.Context) error {
	group, err := h.groupService.GetGroup(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, group)
}

// Update handles PUT /api/groups/:id
func (h *GroupHandler) Update(c echo.Context) error {
	var req updateGroupRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	group, err := h.groupService.UpdateGroup(c.Request().Context(), currentUserID(c), c.Param("id"), req.Name, req.Description)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, group)
}

// Delete handles DELETE /api/groups/:id
func (h *GroupHandler) Delete(c echo.Context) error {
	if err := h.groupService.DeleteGroup(c.Request().Context(), currentUserID(c), c.Param("id"), confirmed(c)); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

// AddMembers handles POST /api/groups/:id/members
func (h *GroupHandler) AddMembers(c echo.Context) error {
	var req memberIDsRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if len(req.UserIDs) == 0 {
		return response.BadRequest(c, "user_ids is required")
	}

	group, err := h.groupService.AddMembers(c.Request().Context(), currentUserID(c), c.Param("id"), req.UserIDs)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, group)
}

// RemoveMember handles DELETE /api/groups/:id/members/:user_id
func (h *GroupHandler) RemoveMember(c echo.Context) error {
	group, err := h.groupService.RemoveMember(c.Request().Context(), currentUserID(c), c.Param("id"), c.Param("user_id"), confirmed(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, group)
}

// Promote handles POST /api/groups/:id/admins/:user_id
func (h *GroupHandler) Promote(c echo.Context) error {
	group, err := h.groupService.Promote(c.Request().Context(), currentUserID(c), c.Param("id"), c.Param("user_id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, group)
}

// Demote handles DELETE /api/groups/:id/admins/:user_id
func (h *GroupHandler) Demote(c echo.Context) error {
	group, err := h.groupService.Demote(c.Request().Context(), currentUserID(c), c.Param("id"), c.Param("user_id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, group)
}

// Leave handles POST /api/groups/:id/leave
func (h *GroupHandler) Leave(c echo.Context) error {
	if err := h.groupService.Leave(c.Request().Context(), currentUserID(c), c.Param("id"), confirmed(c)); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessWithMessage(c, nil, "left the group")
}

// ListMessages handles GET /api/groups/:id/messages
func (h *GroupHandler) ListMessages(c echo.Context) error {
	viewerID := currentUserID(c)
	groupID := c.Param("id")

	if _, err := h.groupService.GetGroup(c.Request().Context(), viewerID, groupID); err != nil {
		return response.Error(c, err)
	}
	messages, err := h.threadService.ListMessages(c.Request().Context(), groupID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, renderMessages(messages))
}

// Append handles POST /api/groups/:id/messages
func (h *GroupHandler) Append(c echo.Context) error {
	viewerID := currentUserID(c)
	groupID := c.Param("id")

	var req appendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if _, err := h.groupService.GetGroup(c.Request().Context(), viewerID, groupID); err != nil {
		return response.Error(c, err)
	}
	message, err := h.threadService.AppendMessage(c.Request().Context(), groupID, viewerID, req.Text)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

// DeleteMessage handles DELETE /api/groups/:id/messages/:message_id
func (h *GroupHandler) DeleteMessage(c echo.Context) error {
	viewerID := currentUserID(c)
	groupID := c.Param("id")

	if _, err := h.groupService.GetGroup(c.Request().Context(), viewerID, groupID); err != nil {
		return response.Error(c, err)
	}
	if err := h.threadService.DeleteMessage(c.Request().Context(), groupID, c.Param("message_id"), confirmed(c)); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

// MarkRead handles POST /api/groups/:id/read
func (h *GroupHandler) MarkRead(c echo.Context) error {
	viewerID := currentUserID(c)
	groupID := c.Param("id")

	if _, err := h.groupService.GetGroup(c.Request().Context(), viewerID, groupID); err != nil {
		return response.Error(c, err)
	}
	if err := h.threadService.MarkRead(c.Request().Context(), viewerID, groupID); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessWithMessage(c, nil, "group marked as read")
}
