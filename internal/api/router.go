package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/swaraj0405/klias-campus-backend/internal/api/handlers"
	"github.com/swaraj0405/klias-campus-backend/internal/api/middleware"
	"github.com/swaraj0405/klias-campus-backend/internal/repository"
	"github.com/swaraj0405/klias-campus-backend/internal/services"
	"github.com/swaraj0405/klias-campus-backend/internal/websocket"
	"gorm.io/gorm"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB       *gorm.DB
	Notifier services.Notifier
	Hub      *websocket.Hub
	Logger   *slog.Logger
	// Security configuration
	APIKey         string   // API key for authentication (empty = disabled)
	AllowedOrigins []string // Allowed CORS origins
	RateLimit      int      // Requests per second (0 = default)
	RateBurst      int      // Burst size for rate limiter
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Security middleware, outermost first
	e.Use(middleware.Recover())
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.CORS(cfg.AllowedOrigins))

	rps := float64(cfg.RateLimit)
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 20
	}
	e.Use(middleware.RateLimit(rps, burst, cfg.Logger))

	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger, handlers.UserIDContextKey))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(cfg.DB)
	threadRepo := repository.NewThreadRepository(cfg.DB)
	conversationRepo := repository.NewConversationRepository(cfg.DB)
	groupRepo := repository.NewGroupRepository(cfg.DB)
	emailRepo := repository.NewEmailRepository(cfg.DB)
	postRepo := repository.NewPostRepository(cfg.DB)
	eventRepo := repository.NewEventRepository(cfg.DB)
	broadcastRepo := repository.NewBroadcastRepository(cfg.DB)

	// Initialize services
	threadService := services.NewThreadService(threadRepo, conversationRepo, userRepo, cfg.Notifier)
	groupService := services.NewGroupService(groupRepo, threadService, userRepo)
	mailboxService := services.NewMailboxService(emailRepo, userRepo, cfg.Notifier)
	feedService := services.NewFeedService(postRepo, eventRepo, broadcastRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	userHandler := handlers.NewUserHandler(userRepo)
	conversationHandler := handlers.NewConversationHandler(threadService)
	groupHandler := handlers.NewGroupHandler(groupService, threadService)
	mailboxHandler := handlers.NewMailboxHandler(mailboxService)
	feedHandler := handlers.NewFeedHandler(feedService)

	// Health routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// WebSocket endpoint (origin-checked by the upgrader)
	if cfg.Hub != nil {
		wsHandler := handlers.NewWebSocketHandler(cfg.Hub, cfg.AllowedOrigins, cfg.Logger)
		e.GET("/ws", wsHandler.Serve)
	}

	// API routes. Health and websocket endpoints stay outside the key check.
	api := e.Group("/api")
	api.Use(middleware.APIKeyAuth(cfg.APIKey, cfg.Logger))

	// Every API operation acts as a directory user
	api.Use(middleware.Identity(userRepo, handlers.UserIDContextKey, cfg.Logger))

	// Directory routes
	users := api.Group("/users")
	users.GET("", userHandler.List)
	users.GET("/me", userHandler.Me)
	users.GET("/:id", userHandler.Get)

	// Conversation routes
	conversations := api.Group("/conversations")
	conversations.GET("", conversationHandler.List)
	conversations.POST("", conversationHandler.Start)
	conversations.GET("/:id", conversationHandler.Get)
	conversations.GET("/:id/messages", conversationHandler.ListMessages)
	conversations.POST("/:id/messages", conversationHandler.Append)
	conversations.DELETE("/:id/messages/:message_id", conversationHandler.DeleteMessage)
	conversations.POST("/:id/read", conversationHandler.MarkRead)

	// Group routes
	groups := api.Group("/groups")
	groups.GET("", groupHandler.List)
	groups.POST("", groupHandler.Create)
	groups.GET("/:id", groupHandler.Get)
	groups.PUT("/:id", groupHandler.Update)
	groups.DELETE("/:id", groupHandler.Delete)
	groups.POST("/:id/members", groupHandler.AddMembers)
	groups.DELETE("/:id/members/:user_id", groupHandler.RemoveMember)
	groups.POST("/:id/admins/:user_id", groupHandler.Promote)
	groups.DELETE("/:id/admins/:user_id", groupHandler.Demote)
	groups.POST("/:id/leave", groupHandler.Leave)
	groups.GET("/:id/messages", groupHandler.ListMessages)
	groups.POST("/:id/messages", groupHandler.Append)
	groups.DELETE("/:id/messages/:message_id", groupHandler.DeleteMessage)
	groups.POST("/:id/read", groupHandler.MarkRead)

	// Mailbox routes
	emails := api.Group("/emails")
	emails.POST("", mailboxHandler.Send)
	emails.GET("/unread-count", mailboxHandler.UnreadCount)
	emails.GET("/id/:id", mailboxHandler.Get)
	emails.POST("/id/:id/reply", mailboxHandler.Reply)
	emails.PATCH("/id/:id/read", mailboxHandler.MarkRead)
	emails.POST("/id/:id/trash", mailboxHandler.Trash)
	emails.POST("/id/:id/restore", mailboxHandler.Restore)
	emails.DELETE("/id/:id", mailboxHandler.Delete)
	emails.GET("/:folder", mailboxHandler.List)

	// Feed routes
	posts := api.Group("/posts")
	posts.GET("", feedHandler.ListPosts)
	posts.POST("", feedHandler.CreatePost)
	posts.POST("/:id/like", feedHandler.LikePost)
	posts.DELETE("/:id/like", feedHandler.UnlikePost)

	events := api.Group("/events")
	events.GET("", feedHandler.ListEvents)
	events.POST("", feedHandler.CreateEvent)
	events.POST("/:id/attend", feedHandler.Attend)
	events.DELETE("/:id/attend", feedHandler.Unattend)

	broadcasts := api.Group("/broadcasts")
	broadcasts.GET("", feedHandler.ListBroadcasts)
	broadcasts.POST("", feedHandler.CreateBroadcast)

	return e
}
