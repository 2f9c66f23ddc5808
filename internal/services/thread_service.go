package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/swaraj0405/klias-campus-backend/internal/errors"
	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"github.com/swaraj0405/klias-campus-backend/internal/repository"
	"github.com/swaraj0405/klias-campus-backend/internal/validator"
)

// ThreadService is the shared message-sequence engine behind direct
// conversations and group chats. Both surfaces use the same operations, so
// ordering and deletion semantics cannot drift between them.
type ThreadService interface {
	AppendMessage(ctx context.Context, threadID, senderID, text string) (*models.Message, error)
	AppendSystemMessage(ctx context.Context, threadID, text string) (*models.Message, error)
	DeleteMessage(ctx context.Context, threadID, messageID string, confirmed bool) error
	LastMessage(ctx context.Context, threadID string) (*models.Message, error)
	ListMessages(ctx context.Context, threadID string) ([]models.Message, error)
	MarkRead(ctx context.Context, viewerID, threadID string) error
	UnreadCount(ctx context.Context, viewerID, threadID string) (int64, error)

	StartConversation(ctx context.Context, userID, otherUserID string) (*models.Conversation, error)
	GetConversation(ctx context.Context, viewerID, conversationID string) (*models.Conversation, error)
	ListConversations(ctx context.Context, viewerID string) ([]models.ConversationListItem, error)
}

// threadService implements ThreadService
type threadService struct {
	threads       repository.ThreadRepository
	conversations repository.ConversationRepository
	users         repository.UserRepository
	notifier      Notifier

	// appendMu serializes appends per thread id so sequence allocation never
	// races. Operations on distinct threads proceed independently.
	appendMu sync.Map

	now   func() time.Time
	newID func() string
}

// NewThreadService creates a new ThreadService instance
func NewThreadService(threads repository.ThreadRepository, conversations repository.ConversationRepository, users repository.UserRepository, notifier Notifier) ThreadService {
	return &threadService{
		threads:       threads,
		conversations: conversations,
		users:         users,
		notifier:      notifier,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

func (s *threadService) lockThread(threadID string) func() {
	muAny, _ := s.appendMu.LoadOrStore(threadID, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// AppendMessage constructs a message with a fresh id and the current time and
// appends it strictly to the end of the thread. No reordering, no
// deduplication.
func (s *threadService) AppendMessage(ctx context.Context, threadID, senderID, text string) (*models.Message, error) {
	if err := validator.ValidateMessageText(text); err != nil {
		return nil, apperrors.Validationf("invalid message text: %v", err)
	}
	if _, err := s.users.GetByID(ctx, senderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundf("sender '%s'", senderID)
		}
		return nil, err
	}

	unlock := s.lockThread(threadID)
	defer unlock()

	sender := senderID
	message := &models.Message{
		ID:       s.newID(),
		ThreadID: threadID,
		Kind:     models.MessageUser,
		SenderID: &sender,
		Text:     text,
		SentAt:   s.now(),
	}
	if err := s.threads.Append(ctx, message); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundf("thread '%s'", threadID)
		}
		return nil, fmt.Errorf("append message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.MessageAppended(threadID, message)
	}
	return message, nil
}

// AppendSystemMessage records a sender-less notice (membership changes and
// the like) in the thread.
func (s *threadService) AppendSystemMessage(ctx context.Context, threadID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Validationf("system message text is empty")
	}

	unlock := s.lockThread(threadID)
	defer unlock()

	message := &models.Message{
		ID:       s.newID(),
		ThreadID: threadID,
		Kind:     models.MessageSystem,
		Text:     text,
		IsRead:   true,
		SentAt:   s.now(),
	}
	if err := s.threads.Append(ctx, message); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundf("thread '%s'", threadID)
		}
		return nil, fmt.Errorf("append system message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.MessageAppended(threadID, message)
	}
	return message, nil
}

// DeleteMessage removes a message permanently. The first phase (confirmed =
// false) only validates that the message exists and reports that
// confirmation is needed; nothing is mutated until the caller confirms.
func (s *threadService) DeleteMessage(ctx context.Context, threadID, messageID string, confirmed bool) error {
	if !confirmed {
		last, err := s.threads.ListMessages(ctx, threadID)
		if err != nil {
			return err
		}
		for _, m := range last {
			if m.ID == messageID {
				return apperrors.ErrConfirmationRequired
			}
		}
		return apperrors.NotFoundf("message '%s'", messageID)
	}
	if err := s.threads.DeleteMessage(ctx, threadID, messageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundf("message '%s'", messageID)
		}
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// LastMessage returns the newest entry or nil for an empty thread.
func (s *threadService) LastMessage(ctx context.Context, threadID string) (*models.Message, error) {
	exists, err := s.threads.ThreadExists(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFoundf("thread '%s'", threadID)
	}
	return s.threads.LastMessage(ctx, threadID)
}

// ListMessages returns the thread's messages in append order.
func (s *threadService) ListMessages(ctx context.Context, threadID string) ([]models.Message, error) {
	exists, err := s.threads.ThreadExists(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFoundf("thread '%s'", threadID)
	}
	return s.threads.ListMessages(ctx, threadID)
}

// MarkRead flags everything the viewer has not authored as read.
func (s *threadService) MarkRead(ctx context.Context, viewerID, threadID string) error {
	exists, err := s.threads.ThreadExists(ctx, threadID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFoundf("thread '%s'", threadID)
	}
	return s.threads.MarkRead(ctx, threadID, viewerID)
}

// UnreadCount derives the viewer's unread total from the message rows.
func (s *threadService) UnreadCount(ctx context.Context, viewerID, threadID string) (int64, error) {
	return s.threads.CountUnread(ctx, threadID, viewerID)
}

// StartConversation returns the existing direct conversation with the other
// user, creating it when absent.
func (s *threadService) StartConversation(ctx context.Context, userID, otherUserID string) (*models.Conversation, error) {
	if userID == otherUserID {
		return nil, apperrors.Validationf("cannot start a conversation with yourself")
	}
	if _, err := s.users.GetByID(ctx, otherUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundf("user '%s'", otherUserID)
		}
		return nil, err
	}

	existing, err := s.conversations.FindDirect(ctx, userID, otherUserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	conversation := &models.Conversation{ID: s.newID()}
	if err := s.conversations.Create(ctx, conversation, []string{userID, otherUserID}); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return s.conversations.GetByID(ctx, conversation.ID)
}

// GetConversation retrieves a conversation the viewer participates in.
func (s *threadService) GetConversation(ctx context.Context, viewerID, conversationID string) (*models.Conversation, error) {
	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundf("conversation '%s'", conversationID)
		}
		return nil, err
	}
	for _, p := range conversation.Participants {
		if p.UserID == viewerID {
			return conversation, nil
		}
	}
	return nil, apperrors.Forbiddenf("user '%s' is not a participant", viewerID)
}

// ListConversations returns the viewer's conversations with last message and
// derived unread count for list-preview rendering.
func (s *threadService) ListConversations(ctx context.Context, viewerID string) ([]models.ConversationListItem, error) {
	conversations, err := s.conversations.ListByUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	items := make([]models.ConversationListItem, 0, len(conversations))
	for _, c := range conversations {
		last, err := s.threads.LastMessage(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		unread, err := s.threads.CountUnread(ctx, c.ID, viewerID)
		if err != nil {
			return nil, err
		}
		items = append(items, models.ConversationListItem{
			Conversation: c,
			LastMessage:  last,
			UnreadCount:  unread,
		})
	}
	return items, nil
}
