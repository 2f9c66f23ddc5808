package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/swaraj0405/klias-campus-backend/internal/api/response"
	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"github.com/swaraj0405/klias-campus-backend/internal/services"
)

// MailboxHandler handles mailbox HTTP requests
type MailboxHandler struct {
	mailboxService services.MailboxService
}

// NewMailboxHandler creates a new MailboxHandler
func NewMailboxHandler(mailboxService services.MailboxService) *MailboxHandler {
	return &MailboxHandler{mailboxService: mailboxService}
}

// sendEmailRequest is the payload for composing an email
type sendEmailRequest struct {
	RecipientIDs []string `json:"recipient_ids"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
}

// replyEmailRequest is the payload for replying to an email
type replyEmailRequest struct {
	Body string `json:"body"`
}

// List handles GET /api/emails/:folder
func (h *MailboxHandler) List(c echo.Context) error {
	folder := models.Folder(c.Param("folder"))
	query := c.QueryParam("q")
	rf := models.ReadFilter(c.QueryParam("read"))

	emails, err := h.mailboxService.List(c.Request().Context(), currentUserID(c), folder, query, rf)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, emails)
}

// Get handles GET /api/emails/id/:id
func (h *MailboxHandler) Get(c echo.Context) error {
	email, err := h.mailboxService.Get(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, email)
}

// Send handles POST /api/emails
func (h *MailboxHandler) Send(c echo.Context) error {
	var req sendEmailRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	sent, err := h.mailboxService.Send(c.Request().Context(), currentUserID(c), req.RecipientIDs, req.Subject, req.Body)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, sent)
}

// Reply handles POST /api/emails/id/:id/reply
func (h *MailboxHandler) Reply(c echo.Context) error {
	var req replyEmailRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	reply, err := h.mailboxService.Reply(c.Request().Context(), currentUserID(c), c.Param("id"), req.Body)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, reply)
}

// MarkRead handles PATCH /api/emails/id/:id/read
func (h *MailboxHandler) MarkRead(c echo.Context) error {
	isRead := c.QueryParam("value") != "false"
	if err := h.mailboxService.MarkRead(c.Request().Context(), currentUserID(c), c.Param("id"), isRead); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessWithMessage(c, nil, "email read state updated")
}

// Trash handles POST /api/emails/id/:id/trash
func (h *MailboxHandler) Trash(c echo.Context) error {
	if err := h.mailboxService.MoveToTrash(c.Request().Context(), currentUserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessWithMessage(c, nil, "email moved to trash")
}

// Restore handles POST /api/emails/id/:id/restore
func (h *MailboxHandler) Restore(c echo.Context) error {
	if err := h.mailboxService.Restore(c.Request().Context(), currentUserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessWithMessage(c, nil, "email restored to inbox")
}

// Delete handles DELETE /api/emails/id/:id
func (h *MailboxHandler) Delete(c echo.Context) error {
	if err := h.mailboxService.DeletePermanently(c.Request().Context(), currentUserID(c), c.Param("id"), confirmed(c)); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

// UnreadCount handles GET /api/emails/unread-count
func (h *MailboxHandler) UnreadCount(c echo.Context) error {
	count, err := h.mailboxService.UnreadCount(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int64{"unread": count})
}
