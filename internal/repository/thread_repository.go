package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"gorm.io/gorm"
)

// ThreadRepository owns the ordered message collections. A thread is any
// message sequence keyed by a single id; conversations and groups are the two
// owners.
type ThreadRepository interface {
	CreateThread(ctx context.Context, thread *models.Thread) error
	ThreadExists(ctx context.Context, id string) (bool, error)
	Append(ctx context.Context, message *models.Message) error
	DeleteMessage(ctx context.Context, threadID, messageID string) error
	LastMessage(ctx context.Context, threadID string) (*models.Message, error)
	ListMessages(ctx context.Context, threadID string) ([]models.Message, error)
	CountUnread(ctx context.Context, threadID, viewerID string) (int64, error)
	MarkRead(ctx context.Context, threadID, viewerID string) error
	DeleteThread(ctx context.Context, threadID string) error
}

// threadRepository implements ThreadRepository using GORM
type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new ThreadRepository instance
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

// CreateThread creates the anchor row for a message sequence.
func (r *threadRepository) CreateThread(ctx context.Context, thread *models.Thread) error {
	if err := r.db.WithContext(ctx).Create(thread).Error; err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}
	return nil
}

// ThreadExists reports whether a thread id is known.
func (r *threadRepository) ThreadExists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Thread{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check thread: %w", err)
	}
	return count > 0, nil
}

// Append assigns the next per-thread sequence number and inserts the message
// in one transaction. The unique (thread_id, seq) index keeps append order
// authoritative; concurrent appends to the same thread serialize on it.
func (r *threadRepository) Append(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Thread{}).Where("id = ?", message.ThreadID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check thread: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}

		var maxSeq uint64
		row := tx.Model(&models.Message{}).
			Where("thread_id = ?", message.ThreadID).
			Select("COALESCE(MAX(seq), 0)").
			Row()
		if err := row.Scan(&maxSeq); err != nil {
			return fmt.Errorf("failed to read thread sequence: %w", err)
		}
		message.Seq = maxSeq + 1

		if err := tx.Create(message).Error; err != nil {
			return fmt.Errorf("failed to append message: %w", err)
		}
		return nil
	})
}

// DeleteMessage removes a single message. Deletion is permanent.
func (r *threadRepository) DeleteMessage(ctx context.Context, threadID, messageID string) error {
	result := r.db.WithContext(ctx).
		Where("thread_id = ? AND id = ?", threadID, messageID).
		Delete(&models.Message{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LastMessage returns the newest entry, or nil for an empty thread. An empty
// thread is a valid result, not an error.
func (r *threadRepository) LastMessage(ctx context.Context, threadID string) (*models.Message, error) {
	var message models.Message
	result := r.db.WithContext(ctx).
		Preload("Sender").
		Where("thread_id = ?", threadID).
		Order("seq DESC").
		First(&message)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last message: %w", result.Error)
	}
	return &message, nil
}

// ListMessages returns the full sequence in append order.
func (r *threadRepository) ListMessages(ctx context.Context, threadID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("thread_id = ?", threadID).
		Order("seq ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// CountUnread counts messages the viewer has not read. Unread state is
// derived from the message rows on every call; no counter is stored anywhere.
func (r *threadRepository) CountUnread(ctx context.Context, threadID, viewerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("thread_id = ? AND is_read = ? AND (sender_id IS NULL OR sender_id <> ?)", threadID, false, viewerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// MarkRead flags every message not authored by the viewer as read.
func (r *threadRepository) MarkRead(ctx context.Context, threadID, viewerID string) error {
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("thread_id = ? AND is_read = ? AND (sender_id IS NULL OR sender_id <> ?)", threadID, false, viewerID).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark thread read: %w", err)
	}
	return nil
}

// DeleteThread removes the anchor row; messages cascade with it.
func (r *threadRepository) DeleteThread(ctx context.Context, threadID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", threadID).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("failed to delete thread messages: %w", err)
		}
		result := tx.Where("id = ?", threadID).Delete(&models.Thread{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete thread: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
