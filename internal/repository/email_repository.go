package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"gorm.io/gorm"
)

// EmailRepository stores mailbox entries. All access is scoped by owner so
// one user's folders are invisible to another's.
type EmailRepository interface {
	Create(ctx context.Context, email *models.Email) error
	GetByID(ctx context.Context, ownerID, id string) (*models.Email, error)
	List(ctx context.Context, ownerID string, folder models.Folder, query string, rf models.ReadFilter) ([]models.Email, error)
	SetFolder(ctx context.Context, ownerID, id string, folder models.Folder) error
	SetRead(ctx context.Context, ownerID, id string, isRead bool) error
	Delete(ctx context.Context, ownerID, id string) error
	CountUnread(ctx context.Context, ownerID string) (int64, error)
}

// emailRepository implements EmailRepository using GORM
type emailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new EmailRepository instance
func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{db: db}
}

// Create inserts a mailbox entry.
func (r *emailRepository) Create(ctx context.Context, email *models.Email) error {
	if err := r.db.WithContext(ctx).Create(email).Error; err != nil {
		return fmt.Errorf("failed to create email: %w", err)
	}
	return nil
}

// GetByID retrieves an owner's email by id.
func (r *emailRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Email, error) {
	var email models.Email
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get email: %w", result.Error)
	}
	return &email, nil
}

// List returns a folder's emails newest first. The free-text query matches
// subject and counterparty display name case-insensitively; in Sent the
// counterparty is the recipient, elsewhere the sender. The read filter only
// applies to the inbox. Filters compose by AND and are derived on every call,
// never stored.
func (r *emailRepository) List(ctx context.Context, ownerID string, folder models.Folder, query string, rf models.ReadFilter) ([]models.Email, error) {
	q := r.db.WithContext(ctx).
		Where("owner_id = ? AND folder = ?", ownerID, folder)

	if term := strings.ToLower(strings.TrimSpace(query)); term != "" {
		pattern := "%" + term + "%"
		counterparty := "sender_name"
		if folder == models.FolderSent {
			counterparty = "recipient_name"
		}
		q = q.Where("LOWER(subject) LIKE ? OR LOWER("+counterparty+") LIKE ?", pattern, pattern)
	}

	if folder == models.FolderInbox {
		switch rf {
		case models.ReadFilterRead:
			q = q.Where("is_read = ?", true)
		case models.ReadFilterUnread:
			q = q.Where("is_read = ?", false)
		}
	}

	var emails []models.Email
	if err := q.Order("sent_at DESC").Find(&emails).Error; err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	return emails, nil
}

// SetFolder moves an email between folders. Transition legality is the
// service's concern; this just records the containment state.
func (r *emailRepository) SetFolder(ctx context.Context, ownerID, id string, folder models.Folder) error {
	result := r.db.WithContext(ctx).Model(&models.Email{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Update("folder", folder)
	if result.Error != nil {
		return fmt.Errorf("failed to move email: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRead toggles the read flag.
func (r *emailRepository) SetRead(ctx context.Context, ownerID, id string, isRead bool) error {
	result := r.db.WithContext(ctx).Model(&models.Email{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Update("is_read", isRead)
	if result.Error != nil {
		return fmt.Errorf("failed to update read flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an email permanently.
func (r *emailRepository) Delete(ctx context.Context, ownerID, id string) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&models.Email{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete email: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUnread counts unread inbox emails for badge rendering.
func (r *emailRepository) CountUnread(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Email{}).
		Where("owner_id = ? AND folder = ? AND is_read = ?", ownerID, models.FolderInbox, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread emails: %w", err)
	}
	return count, nil
}
