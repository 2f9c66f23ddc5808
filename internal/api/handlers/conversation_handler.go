package handlers

import (
	"html/template"

	"github.com/labstack/echo/v4"
	"github.com/swaraj0405/klias-campus-backend/internal/api/response"
	"github.com/swaraj0405/klias-campus-backend/internal/markup"
	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"github.com/swaraj0405/klias-campus-backend/internal/services"
)

// ConversationHandler handles direct-conversation HTTP requests
type ConversationHandler struct {
	threadService services.ThreadService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(threadService services.ThreadService) *ConversationHandler {
	return &ConversationHandler{threadService: threadService}
}

// startConversationRequest is the payload for starting a conversation
type startConversationRequest struct {
	UserID string `json:"user_id"`
}

// appendMessageRequest is the payload for appending a message
type appendMessageRequest struct {
	Text string `json:"text"`
}

// messageView is a message with its text rendered to safe markup
type messageView struct {
	models.Message
	HTML template.HTML `json:"html"`
}

func renderMessages(messages []models.Message) []messageView {
	views := make([]messageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, messageView{Message: m, HTML: markup.Format(m.Text)})
	}
	return views
}

// List handles GET /api/conversations
func (h *ConversationHandler) List(c echo.Context) error {
	items, err := h.threadService.ListConversations(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, items)
}

// Start handles POST /api/conversations
func (h *ConversationHandler) Start(c echo.Context) error {
	var req startConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if req.UserID == "" {
		return response.BadRequest(c, "user_id is required")
	}

	conversation, err := h.threadService.StartConversation(c.Request().Context(), currentUserID(c), req.UserID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, conversation)
}

// Get handles GET /api/conversations/:id
func (h *ConversationHandler) Get(c echo.Context) error {
	conversation, err := h.threadService.GetConversation(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversation)
}

// ListMessages handles GET /api/conversations/:id/messages
func (h *ConversationHandler) ListMessages(c echo.Context) error {
	viewerID := currentUserID(c)
	conversationID := c.Param("id")

	if _, err := h.threadService.GetConversation(c.Request().Context(), viewerID, conversationID); err != nil {
		return response.Error(c, err)
	}
	messages, err := h.threadService.ListMessages(c.Request().Context(), conversationID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, renderMessages(messages))
}

// Append handles POST /api/conversations/:id/messages
func (h *ConversationHandler) Append(c echo.Context) error {
	viewerID := currentUserID(c)
	conversationID := c.Param("id")

	var req appendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if _, err := h.threadService.GetConversation(c.Request().Context(), viewerID, conversationID); err != nil {
		return response.Error(c, err)
	}
	message, err := h.threadService.AppendMessage(c.Request().Context(), conversationID, viewerID, req.Text)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

// DeleteMessage handles DELETE /api/conversations/:id/messages/:message_id
func (h *ConversationHandler) DeleteMessage(c echo.Context) error {
	viewerID := currentUserID(c)
	conversationID := c.Param("id")

	if _, err := h.threadService.GetConversation(c.Request().Context(), viewerID, conversationID); err != nil {
		return response.Error(c, err)
	}
	if err := h.threadService.DeleteMessage(c.Request().Context(), conversationID, c.Param("message_id"), confirmed(c)); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

// MarkRead handles POST /api/conversations/:id/read
func (h *ConversationHandler) MarkRead(c echo.Context) error {
	viewerID := currentUserID(c)
	conversationID := c.Param("id")

	if _, err := h.threadService.GetConversation(c.Request().Context(), viewerID, conversationID); err != nil {
		return response.Error(c, err)
	}
	if err := h.threadService.MarkRead(c.Request().Context(), viewerID, conversationID); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessWithMessage(c, nil, "conversation marked as read")
}
