package smtp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-smtp"
	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"github.com/swaraj0405/klias-campus-backend/internal/repository"
)

// Session implements the go-smtp Session interface
type Session struct {
	backend    *Backend
	from       string
	recipients []string
}

// NewSession creates a new SMTP session
func NewSession(backend *Backend) *Session {
	return &Session{
		backend:    backend,
		recipients: make([]string, 0),
	}
}

// AuthPlain handles PLAIN authentication (not required for receiving)
func (s *Session) AuthPlain(username, password string) error {
	// No authentication required for receiving emails
	return nil
}

// Mail handles the MAIL FROM command
func (s *Session) Mail(from string, opts *smtp.MailOptions) error {
	s.from = from
	if s.backend.logger != nil {
		s.backend.logger.Debug("MAIL FROM", slog.String("from", from))
	}
	return nil
}

// Rcpt handles the RCPT TO command. Only addresses of directory users are
// accepted.
func (s *Session) Rcpt(to string, opts *smtp.RcptOptions) error {
	address, err := normalizeAddress(to)
	if err != nil {
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 1, 1},
			Message:      "Invalid recipient address",
		}
	}

	ctx := context.Background()
	if _, err := s.backend.userRepo.GetByEmail(ctx, address); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &smtp.SMTPError{
				Code:         550,
				EnhancedCode: smtp.EnhancedCode{5, 1, 1},
				Message:      "Recipient not found",
			}
		}
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 3, 0},
			Message:      "Temporary error",
		}
	}

	s.recipients = append(s.recipients, address)
	if s.backend.logger != nil {
		s.backend.logger.Debug("RCPT TO", slog.String("to", address))
	}
	return nil
}

// Data handles the DATA command - receives the email content
func (s *Session) Data(r io.Reader) error {
	if len(s.recipients) == 0 {
		return &smtp.SMTPError{
			Code:         503,
			EnhancedCode: smtp.EnhancedCode{5, 5, 1},
			Message:      "No recipients specified",
		}
	}

	parsedEmail, err := ParseEmail(r)
	if err != nil {
		if s.backend.logger != nil {
			s.backend.logger.Error("failed to parse email", slog.Any("error", err))
		}
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "Failed to parse email",
		}
	}

	// Override sender from envelope if not in headers
	if parsedEmail.SenderEmail == "" {
		parsedEmail.SenderEmail = s.from
	}

	ctx := context.Background()

	// Process for each recipient
	for _, recipient := range s.recipients {
		if err := s.deliverEmail(ctx, recipient, parsedEmail); err != nil {
			if s.backend.logger != nil {
				s.backend.logger.Error("failed to deliver email",
					slog.String("recipient", recipient),
					slog.Any("error", err))
			}
			// Continue processing other recipients
		}
	}

	if s.backend.logger != nil {
		s.backend.logger.Info("email received",
			slog.String("from", s.from),
			slog.Int("recipients", len(s.recipients)),
			slog.String("subject", parsedEmail.Subject))
	}

	return nil
}

// deliverEmail stores the email in a single recipient's inbox
func (s *Session) deliverEmail(ctx context.Context, recipient string, parsed *ParsedEmail) error {
	user, err := s.backend.userRepo.GetByEmail(ctx, recipient)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}

	body := parsed.BodyText
	if body == "" {
		body = parsed.BodyHTML
	}

	senderName := parsed.SenderName
	if senderName == "" {
		senderName = parsed.SenderEmail
	}
	email := &models.Email{
		OwnerID: user.ID,
		Sender: models.EmailParticipant{
			Name:    senderName,
			Email:   parsed.SenderEmail,
			Initial: models.NameInitial(senderName),
			Color:   "bg-gray-200 text-gray-800",
		},
		Recipient: models.ParticipantSnapshot(user),
		Subject:   parsed.Subject,
		Preview:   parsed.Snippet,
		Body:      body,
	}

	if err := s.backend.mailbox.Deliver(ctx, email); err != nil {
		return fmt.Errorf("failed to deliver email: %w", err)
	}
	return nil
}

// Reset resets the session state
func (s *Session) Reset() {
	s.from = ""
	s.recipients = make([]string, 0)
}

// Logout handles the end of the session
func (s *Session) Logout() error {
	return nil
}

// normalizeAddress strips angle brackets and lowercases an address
func normalizeAddress(address string) (string, error) {
	address = strings.TrimPrefix(address, "<")
	address = strings.TrimSuffix(address, ">")
	address = strings.ToLower(strings.TrimSpace(address))

	parts := strings.Split(address, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("invalid email address: %s", address)
	}
	return address, nil
}
