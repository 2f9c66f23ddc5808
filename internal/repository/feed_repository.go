package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository stores feed posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]models.Post, int64, error)
	IncrementLikes(ctx context.Context, id string, delta int) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository instance
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	result := r.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", result.Error)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]models.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, total, nil
}

func (r *postRepository) IncrementLikes(ctx context.Context, id string, delta int) error {
	result := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("likes", gorm.Expr("likes + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to update likes: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// EventRepository stores campus events and their attendee sets.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	AddAttendee(ctx context.Context, eventID, userID string) error
	RemoveAttendee(ctx context.Context, eventID, userID string) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository instance
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	result := r.db.WithContext(ctx).Preload("Creator").Preload("Attendees").First(&event, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", result.Error)
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Preload("Creator").Preload("Attendees").
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// AddAttendee is a no-op when the user already attends.
func (r *eventRepository) AddAttendee(ctx context.Context, eventID, userID string) error {
	attendee := models.EventAttendee{EventID: eventID, UserID: userID}
	err := r.db.WithContext(ctx).Create(&attendee).Error
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to add attendee: %w", err)
	}
	return nil
}

func (r *eventRepository) RemoveAttendee(ctx context.Context, eventID, userID string) error {
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.EventAttendee{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove attendee: %w", err)
	}
	return nil
}

// BroadcastRepository stores role-targeted announcements.
type BroadcastRepository interface {
	Create(ctx context.Context, broadcast *models.Broadcast) error
	ListForRole(ctx context.Context, role models.Role) ([]models.Broadcast, error)
}

type broadcastRepository struct {
	db *gorm.DB
}

// NewBroadcastRepository creates a new BroadcastRepository instance
func NewBroadcastRepository(db *gorm.DB) BroadcastRepository {
	return &broadcastRepository{db: db}
}

func (r *broadcastRepository) Create(ctx context.Context, broadcast *models.Broadcast) error {
	if err := r.db.WithContext(ctx).Create(broadcast).Error; err != nil {
		return fmt.Errorf("failed to create broadcast: %w", err)
	}
	return nil
}

// ListForRole returns broadcasts addressed to the role or to everyone,
// newest first.
func (r *broadcastRepository) ListForRole(ctx context.Context, role models.Role) ([]models.Broadcast, error) {
	var broadcasts []models.Broadcast
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("target = ? OR target = ?", string(role), models.BroadcastTargetAll).
		Order("created_at DESC").
		Find(&broadcasts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list broadcasts: %w", err)
	}
	return broadcasts, nil
}
