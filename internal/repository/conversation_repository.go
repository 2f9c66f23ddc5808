package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"gorm.io/gorm"
)

// ConversationRepository manages direct two-participant conversations.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *models.Conversation, participantIDs []string) error
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	ListByUser(ctx context.Context, userID string) ([]models.Conversation, error)
	FindDirect(ctx context.Context, userA, userB string) (*models.Conversation, error)
}

// conversationRepository implements ConversationRepository using GORM
type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository instance
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// Create inserts the thread anchor, the conversation and its participant
// links in one transaction.
func (r *conversationRepository) Create(ctx context.Context, conversation *models.Conversation, participantIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		thread := &models.Thread{ID: conversation.ID, Kind: models.ThreadDirect}
		if err := tx.Create(thread).Error; err != nil {
			return fmt.Errorf("failed to create thread: %w", err)
		}
		if err := tx.Create(conversation).Error; err != nil {
			return fmt.Errorf("failed to create conversation: %w", err)
		}
		for _, userID := range participantIDs {
			link := models.ConversationParticipant{ConversationID: conversation.ID, UserID: userID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to add participant: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a conversation with its participants.
func (r *conversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	result := r.db.WithContext(ctx).
		Preload("Participants.User").
		First(&conversation, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", result.Error)
	}
	return &conversation, nil
}

// ListByUser retrieves the conversations a user participates in.
func (r *conversationRepository) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants.User").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Order("conversations.created_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// FindDirect looks up the conversation between exactly two users, if any.
func (r *conversationRepository) FindDirect(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	var id string
	row := r.db.WithContext(ctx).
		Model(&models.ConversationParticipant{}).
		Select("conversation_id").
		Where("user_id IN ?", []string{userA, userB}).
		Group("conversation_id").
		Having("COUNT(DISTINCT user_id) = 2").
		Row()
	if err := row.Scan(&id); err != nil {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}
