package smtp

import (
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/swaraj0405/klias-campus-backend/internal/repository"
	"github.com/swaraj0405/klias-campus-backend/internal/services"
)

// Security limits
const (
	DefaultMaxMessageSize = 25 * 1024 * 1024 // 25 MB
	DefaultMaxRecipients  = 100
	DefaultReadTimeout    = 60 * time.Second
	DefaultWriteTimeout   = 60 * time.Second
	DefaultMaxLineLength  = 2000
)

// Backend implements the go-smtp Backend interface. Inbound mail is routed
// to campus users by recipient address; mail for unknown addresses is
// rejected at RCPT time.
type Backend struct {
	userRepo repository.UserRepository
	mailbox  services.MailboxService
	logger   *slog.Logger
}

// BackendConfig holds configuration for the SMTP backend
type BackendConfig struct {
	UserRepo repository.UserRepository
	Mailbox  services.MailboxService
	Logger   *slog.Logger
}

// NewBackend creates a new SMTP backend
func NewBackend(cfg *BackendConfig) *Backend {
	return &Backend{
		userRepo: cfg.UserRepo,
		mailbox:  cfg.Mailbox,
		logger:   cfg.Logger,
	}
}

// NewSession creates a new SMTP session
func (b *Backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	if b.logger != nil {
		b.logger.Info("new SMTP connection", slog.String("remote_addr", c.Conn().RemoteAddr().String()))
	}
	return NewSession(b), nil
}

// ServerConfig holds security configuration for the SMTP server
type ServerConfig struct {
	Addr           string
	Domain         string
	MaxMessageSize int64
	MaxRecipients  int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowInsecure  bool
	TLSConfig      *tls.Config
}

// NewSecureServer builds the listener around the backend. Zero values in
// cfg fall back to the package limits; insecure auth stays off unless
// explicitly enabled.
func NewSecureServer(backend *Backend, cfg *ServerConfig) *smtp.Server {
	s := smtp.NewServer(backend)

	s.Addr = cfg.Addr
	s.Domain = cfg.Domain

	s.MaxMessageBytes = cfg.MaxMessageSize
	if s.MaxMessageBytes <= 0 {
		s.MaxMessageBytes = DefaultMaxMessageSize
	}
	s.MaxRecipients = cfg.MaxRecipients
	if s.MaxRecipients <= 0 {
		s.MaxRecipients = DefaultMaxRecipients
	}
	s.ReadTimeout = cfg.ReadTimeout
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	s.WriteTimeout = cfg.WriteTimeout
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}

	s.AllowInsecureAuth = cfg.AllowInsecure
	if cfg.TLSConfig != nil {
		s.TLSConfig = cfg.TLSConfig
	}

	// Oversized lines are a classic smuggling vector
	s.MaxLineLength = DefaultMaxLineLength

	return s
}
