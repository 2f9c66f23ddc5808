package handlers

import (
	"html/template"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/swaraj0405/klias-campus-backend/internal/api/response"
	"github.com/swaraj0405/klias-campus-backend/internal/markup"
	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"github.com/swaraj0405/klias-campus-backend/internal/services"
	"github.com/swaraj0405/klias-campus-backend/internal/validator"
)

// FeedHandler handles feed, event and broadcast HTTP requests
type FeedHandler struct {
	feedService services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// createPostRequest is the payload for publishing a post
type createPostRequest struct {
	Content          string `json:"content"`
	Image            string `json:"image"`
	ImageDescription string `json:"image_description"`
}

// createEventRequest is the payload for scheduling an event
type createEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
}

// createBroadcastRequest is the payload for publishing a broadcast
type createBroadcastRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Target  string `json:"target"`
}

// postView carries a post with its content rendered to safe markup,
// hashtags included
type postView struct {
	models.Post
	HTML template.HTML `json:"html"`
}

// ListPosts handles GET /api/posts
func (h *FeedHandler) ListPosts(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	// Report the clamped values the service actually uses
	limit, offset = validator.ValidatePagination(limit, offset)

	posts, total, err := h.feedService.ListPosts(c.Request().Context(), limit, offset)
	if err != nil {
		return response.Error(c, err)
	}

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, postView{Post: p, HTML: markup.FormatPost(p.Content)})
	}
	return response.Paginated(c, views, total, limit, offset)
}

// CreatePost handles POST /api/posts
func (h *FeedHandler) CreatePost(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	post, err := h.feedService.CreatePost(c.Request().Context(), currentUserID(c), req.Content, req.Image, req.ImageDescription)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, post)
}

// LikePost handles POST /api/posts/:id/like
func (h *FeedHandler) LikePost(c echo.Context) error {
	if err := h.feedService.LikePost(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessWithMessage(c, nil, "post liked")
}

// UnlikePost handles DELETE /api/posts/:id/like
func (h *FeedHandler) UnlikePost(c echo.Context) error {
	if err := h.feedService.UnlikePost(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessWithMessage(c, nil, "post unliked")
}

// ListEvents handles GET /api/events
func (h *FeedHandler) ListEvents(c echo.Context) error {
	events, err := h.feedService.ListEvents(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, events)
}

// CreateEvent handles POST /api/events
func (h *FeedHandler) CreateEvent(c echo.Context) error {
	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	event, err := h.feedService.CreateEvent(c.Request().Context(), currentUserID(c), req.Title, req.Description, req.Location, req.Date)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, event)
}

// Attend handles POST /api/events/:id/attend
func (h *FeedHandler) Attend(c echo.Context) error {
	if err := h.feedService.Attend(c.Request().Context(), c.Param("id"), currentUserID(c)); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessWithMessage(c, nil, "attending event")
}

// Unattend handles DELETE /api/events/:id/attend
func (h *FeedHandler) Unattend(c echo.Context) error {
	if err := h.feedService.Unattend(c.Request().Context(), c.Param("id"), currentUserID(c)); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessWithMessage(c, nil, "no longer attending event")
}

// ListBroadcasts handles GET /api/broadcasts
func (h *FeedHandler) ListBroadcasts(c echo.Context) error {
	broadcasts, err := h.feedService.ListBroadcasts(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, broadcasts)
}

// CreateBroadcast handles POST /api/broadcasts
func (h *FeedHandler) CreateBroadcast(c echo.Context) error {
	var req createBroadcastRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	broadcast, err := h.feedService.CreateBroadcast(c.Request().Context(), currentUserID(c), req.Title, req.Content, req.Target)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, broadcast)
}
