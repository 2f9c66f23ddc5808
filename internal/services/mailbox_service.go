package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/swaraj0405/klias-campus-backend/internal/errors"
	"github.com/swaraj0405/klias-campus-backend/internal/markup"
	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"github.com/swaraj0405/klias-campus-backend/internal/repository"
	"github.com/swaraj0405/klias-campus-backend/internal/validator"
)

// PreviewLength is how much of a stripped body the list view shows.
const PreviewLength = 100

// MailboxService manages a user's inbox, sent and trash folders. Folder
// moves follow a fixed transition table: inbox to trash, trash back to
// inbox, and permanent deletion only out of sent or trash. Anything else is
// an invalid transition, so restored mail always lands back in the inbox
// and nothing is hard-deleted while still sitting there.
type MailboxService interface {
	Send(ctx context.Context, senderID string, recipientIDs []string, subject, body string) ([]*models.Email, error)
	Reply(ctx context.Context, ownerID, emailID, body string) (*models.Email, error)
	Deliver(ctx context.Context, email *models.Email) error
	Get(ctx context.Context, ownerID, emailID string) (*models.Email, error)
	List(ctx context.Context, ownerID string, folder models.Folder, query string, rf models.ReadFilter) ([]models.Email, error)
	MarkRead(ctx context.Context, ownerID, emailID string, isRead bool) error
	MoveToTrash(ctx context.Context, ownerID, emailID string) error
	Restore(ctx context.Context, ownerID, emailID string) error
	DeletePermanently(ctx context.Context, ownerID, emailID string, confirmed bool) error
	UnreadCount(ctx context.Context, ownerID string) (int64, error)
}

// mailboxService implements MailboxService
type mailboxService struct {
	emails   repository.EmailRepository
	users    repository.UserRepository
	notifier Notifier

	now   func() time.Time
	newID func() string
}

// NewMailboxService creates a new MailboxService instance
func NewMailboxService(emails repository.EmailRepository, users repository.UserRepository, notifier Notifier) MailboxService {
	return &mailboxService{
		emails:   emails,
		users:    users,
		notifier: notifier,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Send composes a message to one or more recipients. The sender gets one
// copy per recipient in Sent, already read; each recipient gets an unread
// copy in their inbox. Participants are snapshotted at this moment.
func (s *mailboxService) Send(ctx context.Context, senderID string, recipientIDs []string, subject, body string) ([]*models.Email, error) {
	if len(recipientIDs) == 0 {
		return nil, apperrors.Validationf("at least one recipient is required")
	}
	if err := validator.ValidateSubject(subject); err != nil {
		return nil, apperrors.Validationf("invalid subject: %v", err)
	}
	if err := validator.ValidateBody(body); err != nil {
		return nil, apperrors.Validationf("invalid body: %v", err)
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundf("user '%s'", senderID)
		}
		return nil, err
	}

	sentAt := s.now()
	preview := Preview(body)
	var sentCopies []*models.Email
	for _, recipientID := range recipientIDs {
		recipient, err := s.users.GetByID(ctx, recipientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFoundf("user '%s'", recipientID)
			}
			return nil, err
		}

		sent := &models.Email{
			ID:        s.newID(),
			OwnerID:   senderID,
			Folder:    models.FolderSent,
			Sender:    models.ParticipantSnapshot(sender),
			Recipient: models.ParticipantSnapshot(recipient),
			Subject:   subject,
			Preview:   preview,
			Body:      body,
			IsRead:    true,
			SentAt:    sentAt,
		}
		if err := s.emails.Create(ctx, sent); err != nil {
			return nil, fmt.Errorf("store sent copy: %w", err)
		}

		inbound := *sent
		inbound.ID = s.newID()
		inbound.OwnerID = recipientID
		inbound.Folder = models.FolderInbox
		inbound.IsRead = false
		if err := s.emails.Create(ctx, &inbound); err != nil {
			return nil, fmt.Errorf("deliver email: %w", err)
		}
		if s.notifier != nil {
			s.notifier.EmailReceived(recipientID, &inbound)
		}
		sentCopies = append(sentCopies, sent)
	}
	return sentCopies, nil
}

// Reply answers an email in the owner's mailbox. The recipient is the
// original sender's snapshot and the subject gains a single "Re: " prefix;
// replying to a reply never stacks prefixes.
func (s *mailboxService) Reply(ctx context.Context, ownerID, emailID, body string) (*models.Email, error) {
	original, err := s.Get(ctx, ownerID, emailID)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateBody(body); err != nil {
		return nil, apperrors.Validationf("invalid body: %v", err)
	}

	sender, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundf("user '%s'", ownerID)
		}
		return nil, err
	}

	reply := &models.Email{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Folder:    models.FolderSent,
		Sender:    models.ParticipantSnapshot(sender),
		Recipient: original.Sender,
		Subject:   ReplySubject(original.Subject),
		Preview:   Preview(body),
		Body:      body,
		IsRead:    true,
		SentAt:    s.now(),
	}
	if err := s.emails.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("store reply: %w", err)
	}

	// Deliver to the original sender's inbox when they are a local user.
	if recipient, err := s.users.GetByEmail(ctx, original.Sender.Email); err == nil {
		inbound := *reply
		inbound.ID = s.newID()
		inbound.OwnerID = recipient.ID
		inbound.Folder = models.FolderInbox
		inbound.IsRead = false
		if err := s.emails.Create(ctx, &inbound); err != nil {
			return nil, fmt.Errorf("deliver reply: %w", err)
		}
		if s.notifier != nil {
			s.notifier.EmailReceived(recipient.ID, &inbound)
		}
	}
	return reply, nil
}

// Deliver stores an externally originated email, filling in id, folder and
// timestamps. Inbound SMTP uses this path.
func (s *mailboxService) Deliver(ctx context.Context, email *models.Email) error {
	if email.ID == "" {
		email.ID = s.newID()
	}
	email.Folder = models.FolderInbox
	email.IsRead = false
	if email.SentAt.IsZero() {
		email.SentAt = s.now()
	}
	if email.Preview == "" {
		email.Preview = Preview(email.Body)
	}
	if err := s.emails.Create(ctx, email); err != nil {
		return fmt.Errorf("deliver email: %w", err)
	}
	if s.notifier != nil {
		s.notifier.EmailReceived(email.OwnerID, email)
	}
	return nil
}

// Get retrieves a single email from the owner's mailbox.
func (s *mailboxService) Get(ctx context.Context, ownerID, emailID string) (*models.Email, error) {
	email, err := s.emails.GetByID(ctx, ownerID, emailID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundf("email '%s'", emailID)
		}
		return nil, err
	}
	return email, nil
}

// List returns a folder's emails newest first, filtered by free-text query
// and, in the inbox, by read state.
func (s *mailboxService) List(ctx context.Context, ownerID string, folder models.Folder, query string, rf models.ReadFilter) ([]models.Email, error) {
	if !folder.Valid() {
		return nil, apperrors.Validationf("unknown folder '%s'", folder)
	}
	if rf == "" {
		rf = models.ReadFilterAll
	}
	if !rf.Valid() {
		return nil, apperrors.Validationf("unknown read filter '%s'", rf)
	}
	return s.emails.List(ctx, ownerID, folder, query, rf)
}

// MarkRead toggles an email's read flag.
func (s *mailboxService) MarkRead(ctx context.Context, ownerID, emailID string, isRead bool) error {
	if err := s.emails.SetRead(ctx, ownerID, emailID, isRead); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundf("email '%s'", emailID)
		}
		return err
	}
	return nil
}

// MoveToTrash moves an inbox email to trash.
func (s *mailboxService) MoveToTrash(ctx context.Context, ownerID, emailID string) error {
	email, err := s.Get(ctx, ownerID, emailID)
	if err != nil {
		return err
	}
	if email.Folder != models.FolderInbox {
		return apperrors.InvalidTransitionf("cannot trash an email in '%s'", email.Folder)
	}
	return s.emails.SetFolder(ctx, ownerID, emailID, models.FolderTrash)
}

// Restore moves a trashed email back to the inbox.
func (s *mailboxService) Restore(ctx context.Context, ownerID, emailID string) error {
	email, err := s.Get(ctx, ownerID, emailID)
	if err != nil {
		return err
	}
	if email.Folder != models.FolderTrash {
		return apperrors.InvalidTransitionf("cannot restore an email in '%s'", email.Folder)
	}
	return s.emails.SetFolder(ctx, ownerID, emailID, models.FolderInbox)
}

// DeletePermanently removes an email for good. Only sent and trashed mail
// can be hard-deleted; inbox mail must pass through trash first. The first
// call without confirmation reports what would happen and changes nothing.
func (s *mailboxService) DeletePermanently(ctx context.Context, ownerID, emailID string, confirmed bool) error {
	email, err := s.Get(ctx, ownerID, emailID)
	if err != nil {
		return err
	}
	if email.Folder != models.FolderSent && email.Folder != models.FolderTrash {
		return apperrors.InvalidTransitionf("cannot permanently delete an email in '%s'", email.Folder)
	}
	if !confirmed {
		return apperrors.ErrConfirmationRequired
	}
	if err := s.emails.Delete(ctx, ownerID, emailID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundf("email '%s'", emailID)
		}
		return err
	}
	return nil
}

// UnreadCount counts unread inbox emails.
func (s *mailboxService) UnreadCount(ctx context.Context, ownerID string) (int64, error) {
	return s.emails.CountUnread(ctx, ownerID)
}

// Preview derives the list snippet from a body: markup stripped, truncated
// to PreviewLength with an ellipsis.
func Preview(body string) string {
	plain := markup.StripTags(body)
	runes := []rune(plain)
	if len(runes) <= PreviewLength {
		return plain
	}
	return string(runes[:PreviewLength]) + "..."
}

// ReplySubject prefixes a subject with "Re: " exactly once.
func ReplySubject(subject string) string {
	if strings.HasPrefix(subject, "Re: ") {
		return subject
	}
	return "Re: " + subject
}
