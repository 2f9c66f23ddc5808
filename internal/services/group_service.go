package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/swaraj0405/klias-campus-backend/internal/errors"
	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"github.com/swaraj0405/klias-campus-backend/internal/repository"
	"github.com/swaraj0405/klias-campus-backend/internal/validator"
)

// GroupService manages groups and their membership under role-gated
// operations. Two invariants hold after every mutation: admins are always a
// subset of members, and the admin set is never empty while members remain.
// Violating operations fail before any state changes.
type GroupService interface {
	CreateGroup(ctx context.Context, actorID, name string, memberIDs []string) (*models.Group, error)
	GetGroup(ctx context.Context, viewerID, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context, viewerID string) ([]models.GroupListItem, error)
	UpdateGroup(ctx context.Context, actorID, groupID, name, description string) (*models.Group, error)
	AddMembers(ctx context.Context, actorID, groupID string, userIDs []string) (*models.Group, error)
	RemoveMember(ctx context.Context, actorID, groupID, userID string, confirmed bool) (*models.Group, error)
	Promote(ctx context.Context, actorID, groupID, userID string) (*models.Group, error)
	Demote(ctx context.Context, actorID, groupID, userID string) (*models.Group, error)
	Leave(ctx context.Context, actorID, groupID string, confirmed bool) error
	DeleteGroup(ctx context.Context, actorID, groupID string, confirmed bool) error
}

// groupService implements GroupService
type groupService struct {
	groups  repository.GroupRepository
	threads ThreadService
	users   repository.UserRepository

	now   func() time.Time
	newID func() string
}

// NewGroupService creates a new GroupService instance
func NewGroupService(groups repository.GroupRepository, threads ThreadService, users repository.UserRepository) GroupService {
	return &groupService{
		groups:  groups,
		threads: threads,
		users:   users,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// CreateGroup creates a group with the actor as its sole admin. The actor is
// always the first member regardless of the supplied list, so members[0]
// lines up with the leadership-transfer rule from day one.
func (s *groupService) CreateGroup(ctx context.Context, actorID, name string, memberIDs []string) (*models.Group, error) {
	if err := validator.ValidateGroupName(name); err != nil {
		return nil, apperrors.Validationf("invalid group name: %v", err)
	}

	ids := []string{actorID}
	seen := map[string]bool{actorID: true}
	for _, id := range memberIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) < 2 {
		return nil, apperrors.Validationf("a group needs at least two members")
	}
	for _, id := range ids {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFoundf("user '%s'", id)
			}
			return nil, err
		}
	}

	group := &models.Group{
		ID:     s.newID(),
		Name:   name,
		Avatar: fmt.Sprintf("https://picsum.photos/seed/%s/200", name),
	}
	for i, id := range ids {
		group.Members = append(group.Members, models.GroupMember{
			UserID:   id,
			IsAdmin:  id == actorID,
			Position: i + 1,
			JoinedAt: s.now(),
		})
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return s.groups.GetByID(ctx, group.ID)
}

// GetGroup retrieves a group the viewer belongs to.
func (s *groupService) GetGroup(ctx context.Context, viewerID, groupID string) (*models.Group, error) {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(viewerID) {
		return nil, apperrors.Forbiddenf("user '%s' is not a member", viewerID)
	}
	return group, nil
}

// ListGroups returns the viewer's groups with last-message previews.
func (s *groupService) ListGroups(ctx context.Context, viewerID string) ([]models.GroupListItem, error) {
	groups, err := s.groups.ListByUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	items := make([]models.GroupListItem, 0, len(groups))
	for _, g := range groups {
		last, err := s.threads.LastMessage(ctx, g.ID)
		if err != nil && !apperrors.IsNotFound(err) {
			return nil, err
		}
		items = append(items, models.GroupListItem{
			Group:       g,
			LastMessage: last,
			MemberCount: len(g.Members),
		})
	}
	return items, nil
}

// UpdateGroup renames the group or changes its description. Admin only.
func (s *groupService) UpdateGroup(ctx context.Context, actorID, groupID, name, description string) (*models.Group, error) {
	group, err := s.requireAdmin(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateGroupName(name); err != nil {
		return nil, apperrors.Validationf("invalid group name: %v", err)
	}
	if err := s.groups.Update(ctx, group.ID, name, description); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return s.groups.GetByID(ctx, groupID)
}

// AddMembers appends users who are not already members; duplicates are
// skipped silently. Admin only.
func (s *groupService) AddMembers(ctx context.Context, actorID, groupID string, userIDs []string) (*models.Group, error) {
	group, err := s.requireAdmin(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}

	position := 0
	for _, m := range group.Members {
		if m.Position > position {
			position = m.Position
		}
	}

	var newMembers []models.GroupMember
	var names []string
	for _, id := range userIDs {
		if group.IsMember(id) {
			continue
		}
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFoundf("user '%s'", id)
			}
			return nil, err
		}
		position++
		newMembers = append(newMembers, models.GroupMember{
			UserID:   id,
			Position: position,
			JoinedAt: s.now(),
		})
		names = append(names, user.Name)
	}

	if len(newMembers) > 0 {
		if err := s.groups.AddMembers(ctx, groupID, newMembers); err != nil {
			return nil, fmt.Errorf("add members: %w", err)
		}
		for _, name := range names {
			if _, err := s.threads.AppendSystemMessage(ctx, groupID, name+" joined the group"); err != nil {
				return nil, err
			}
		}
	}
	return s.groups.GetByID(ctx, groupID)
}

// RemoveMember removes a member and strips their admin flag with them.
// Removing the sole admin while other members remain would leave the group
// leaderless, so it fails instead of guessing a successor; demote-then-remove
// or the leave flow are the sanctioned paths.
func (s *groupService) RemoveMember(ctx context.Context, actorID, groupID, userID string, confirmed bool) (*models.Group, error) {
	group, err := s.requireAdmin(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(userID) {
		return nil, apperrors.NotFoundf("member '%s'", userID)
	}
	if !confirmed {
		return nil, apperrors.ErrConfirmationRequired
	}
	if group.IsAdmin(userID) && len(group.AdminIDs()) == 1 && len(group.Members) > 1 {
		return nil, apperrors.InvariantViolationf("removing the only admin would leave the group without one")
	}

	if err := s.groups.RemoveMember(ctx, groupID, userID, ""); err != nil {
		return nil, fmt.Errorf("remove member: %w", err)
	}
	if user, err := s.users.GetByID(ctx, userID); err == nil {
		if _, err := s.threads.AppendSystemMessage(ctx, groupID, user.Name+" was removed from the group"); err != nil {
			return nil, err
		}
	}
	return s.groups.GetByID(ctx, groupID)
}

// Promote grants admin to a member. Admin only.
func (s *groupService) Promote(ctx context.Context, actorID, groupID, userID string) (*models.Group, error) {
	group, err := s.requireAdmin(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(userID) {
		return nil, apperrors.NotFoundf("member '%s'", userID)
	}
	if err := s.groups.SetAdmin(ctx, groupID, userID, true); err != nil {
		return nil, fmt.Errorf("promote member: %w", err)
	}
	return s.groups.GetByID(ctx, groupID)
}

// Demote revokes admin from a member. Fails when it would empty the admin
// set while members remain.
func (s *groupService) Demote(ctx context.Context, actorID, groupID, userID string) (*models.Group, error) {
	group, err := s.requireAdmin(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(userID) {
		return nil, apperrors.NotFoundf("admin '%s'", userID)
	}
	if len(group.AdminIDs()) <= 1 && len(group.Members) > 0 {
		return nil, apperrors.InvariantViolationf("a group must keep at least one admin")
	}
	if err := s.groups.SetAdmin(ctx, groupID, userID, false); err != nil {
		return nil, fmt.Errorf("demote member: %w", err)
	}
	return s.groups.GetByID(ctx, groupID)
}

// Leave removes the caller from members and admins. No admin privilege is
// required. When the last admin leaves and members remain, leadership
// transfers to the longest-standing member (lowest position) in the same
// transaction, so the group is never observably leaderless.
func (s *groupService) Leave(ctx context.Context, actorID, groupID string, confirmed bool) error {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.IsMember(actorID) {
		return apperrors.NotFoundf("member '%s'", actorID)
	}
	if !confirmed {
		return apperrors.ErrConfirmationRequired
	}

	promoteUserID := ""
	if group.IsAdmin(actorID) && len(group.AdminIDs()) == 1 {
		for _, m := range group.Members {
			if m.UserID != actorID {
				promoteUserID = m.UserID
				break
			}
		}
	}

	if err := s.groups.RemoveMember(ctx, groupID, actorID, promoteUserID); err != nil {
		return fmt.Errorf("leave group: %w", err)
	}
	if user, err := s.users.GetByID(ctx, actorID); err == nil {
		if _, err := s.threads.AppendSystemMessage(ctx, groupID, user.Name+" left the group"); err != nil {
			return err
		}
	}
	return nil
}

// DeleteGroup removes the group, its membership and its whole message
// history. Admin only, irreversible, and gated by confirmation.
func (s *groupService) DeleteGroup(ctx context.Context, actorID, groupID string, confirmed bool) error {
	if _, err := s.requireAdmin(ctx, actorID, groupID); err != nil {
		return err
	}
	if !confirmed {
		return apperrors.ErrConfirmationRequired
	}
	if err := s.groups.Delete(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundf("group '%s'", groupID)
		}
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

func (s *groupService) load(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundf("group '%s'", groupID)
		}
		return nil, err
	}
	return group, nil
}

func (s *groupService) requireAdmin(ctx context.Context, actorID, groupID string) (*models.Group, error) {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(actorID) {
		return nil, apperrors.Forbiddenf("user '%s' is not a group admin", actorID)
	}
	return group, nil
}
