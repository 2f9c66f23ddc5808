package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/swaraj0405/klias-campus-backend/internal/errors"
	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"github.com/swaraj0405/klias-campus-backend/internal/repository"
	"github.com/swaraj0405/klias-campus-backend/internal/validator"
)

// FeedService manages the campus feed: posts, events and role-targeted
// broadcasts.
type FeedService interface {
	CreatePost(ctx context.Context, authorID, content, image, imageDescription string) (*models.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]models.Post, int64, error)
	LikePost(ctx context.Context, postID string) error
	UnlikePost(ctx context.Context, postID string) error

	CreateEvent(ctx context.Context, creatorID, title, description, location string, date time.Time) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	Attend(ctx context.Context, eventID, userID string) error
	Unattend(ctx context.Context, eventID, userID string) error

	CreateBroadcast(ctx context.Context, authorID, title, content, target string) (*models.Broadcast, error)
	ListBroadcasts(ctx context.Context, viewerID string) ([]models.Broadcast, error)
}

// feedService implements FeedService
type feedService struct {
	posts      repository.PostRepository
	events     repository.EventRepository
	broadcasts repository.BroadcastRepository
	users      repository.UserRepository

	newID func() string
}

// NewFeedService creates a new FeedService instance
func NewFeedService(posts repository.PostRepository, events repository.EventRepository, broadcasts repository.BroadcastRepository, users repository.UserRepository) FeedService {
	return &feedService{
		posts:      posts,
		events:     events,
		broadcasts: broadcasts,
		users:      users,
		newID:      uuid.NewString,
	}
}

// CreatePost publishes a feed post. Content is stored raw; rendering to
// safe markup happens when the post is served.
func (s *feedService) CreatePost(ctx context.Context, authorID, content, image, imageDescription string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Validationf("post content cannot be empty")
	}
	if _, err := s.requireUser(ctx, authorID); err != nil {
		return nil, err
	}
	post := &models.Post{
		ID:               s.newID(),
		AuthorID:         authorID,
		Content:          content,
		Image:            image,
		ImageDescription: imageDescription,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, post.ID)
}

// ListPosts returns a page of posts newest first plus the total count.
func (s *feedService) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, int64, error) {
	limit, offset = validator.ValidatePagination(limit, offset)
	return s.posts.List(ctx, limit, offset)
}

// LikePost increments a post's like counter.
func (s *feedService) LikePost(ctx context.Context, postID string) error {
	return s.adjustLikes(ctx, postID, 1)
}

// UnlikePost decrements a post's like counter.
func (s *feedService) UnlikePost(ctx context.Context, postID string) error {
	return s.adjustLikes(ctx, postID, -1)
}

func (s *feedService) adjustLikes(ctx context.Context, postID string, delta int) error {
	if err := s.posts.IncrementLikes(ctx, postID, delta); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundf("post '%s'", postID)
		}
		return err
	}
	return nil
}

// CreateEvent schedules a campus event.
func (s *feedService) CreateEvent(ctx context.Context, creatorID, title, description, location string, date time.Time) (*models.Event, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.Validationf("event title cannot be empty")
	}
	if date.IsZero() {
		return nil, apperrors.Validationf("event date is required")
	}
	if _, err := s.requireUser(ctx, creatorID); err != nil {
		return nil, err
	}
	event := &models.Event{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		Location:    location,
		Date:        date,
		CreatorID:   creatorID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return s.events.GetByID(ctx, event.ID)
}

// ListEvents returns all events, soonest first.
func (s *feedService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.events.List(ctx)
}

// Attend marks a user as attending. Attending twice is a no-op.
func (s *feedService) Attend(ctx context.Context, eventID, userID string) error {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	if err := s.events.AddAttendee(ctx, eventID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundf("event '%s'", eventID)
		}
		return err
	}
	return nil
}

// Unattend removes a user from an event's attendee set.
func (s *feedService) Unattend(ctx context.Context, eventID, userID string) error {
	if err := s.events.RemoveAttendee(ctx, eventID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundf("event '%s'", eventID)
		}
		return err
	}
	return nil
}

// CreateBroadcast publishes an announcement. Only teachers and admins may
// broadcast; the target is a role name or "All".
func (s *feedService) CreateBroadcast(ctx context.Context, authorID, title, content, target string) (*models.Broadcast, error) {
	author, err := s.requireUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author.Role != models.RoleTeacher && author.Role != models.RoleAdmin {
		return nil, apperrors.Forbiddenf("user '%s' may not broadcast", authorID)
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, apperrors.Validationf("broadcast title and content are required")
	}
	if target != models.BroadcastTargetAll && !models.Role(target).Valid() {
		return nil, apperrors.Validationf("unknown broadcast target '%s'", target)
	}
	broadcast := &models.Broadcast{
		ID:       s.newID(),
		Title:    title,
		Content:  content,
		AuthorID: authorID,
		Target:   target,
	}
	if err := s.broadcasts.Create(ctx, broadcast); err != nil {
		return nil, err
	}
	return broadcast, nil
}

// ListBroadcasts returns broadcasts addressed to the viewer's role or to
// everyone.
func (s *feedService) ListBroadcasts(ctx context.Context, viewerID string) ([]models.Broadcast, error) {
	viewer, err := s.requireUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return s.broadcasts.ListForRole(ctx, viewer.Role)
}

func (s *feedService) requireUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundf("user '%s'", userID)
		}
		return nil, err
	}
	return user, nil
}
