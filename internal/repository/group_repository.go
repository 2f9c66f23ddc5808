package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"gorm.io/gorm"
)

// GroupRepository manages groups and their membership rows. Multi-row
// mutations are transactional so a failure never leaves the admin set and
// member set disagreeing.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id string) (*models.Group, error)
	ListByUser(ctx context.Context, userID string) ([]models.Group, error)
	Update(ctx context.Context, id, name, description string) error
	AddMembers(ctx context.Context, groupID string, members []models.GroupMember) error
	RemoveMember(ctx context.Context, groupID, userID, promoteUserID string) error
	SetAdmin(ctx context.Context, groupID, userID string, isAdmin bool) error
	Delete(ctx context.Context, id string) error
}

// groupRepository implements GroupRepository using GORM
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository instance
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// Create inserts the thread anchor, the group and its pre-populated member
// rows in one transaction. Member positions must already be assigned.
func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		thread := &models.Thread{ID: group.ID, Kind: models.ThreadGroup}
		if err := tx.Create(thread).Error; err != nil {
			return fmt.Errorf("failed to create thread: %w", err)
		}
		members := group.Members
		group.Members = nil
		if err := tx.Create(group).Error; err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		for i := range members {
			members[i].GroupID = group.ID
			if err := tx.Create(&members[i]).Error; err != nil {
				return fmt.Errorf("failed to add member: %w", err)
			}
		}
		group.Members = members
		return nil
	})
}

// GetByID retrieves a group with members in insertion order.
func (r *groupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	var group models.Group
	result := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("group_members.position ASC")
		}).
		Preload("Members.User").
		First(&group, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", result.Error)
	}
	return &group, nil
}

// ListByUser retrieves the groups a user belongs to.
func (r *groupRepository) ListByUser(ctx context.Context, userID string) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("group_members.position ASC")
		}).
		Preload("Members.User").
		Joins("JOIN group_members gm ON gm.group_id = groups.id").
		Where("gm.user_id = ?", userID).
		Order("groups.created_at DESC").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// Update changes the group's name and description.
func (r *groupRepository) Update(ctx context.Context, id, name, description string) error {
	result := r.db.WithContext(ctx).Model(&models.Group{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "description": description})
	if result.Error != nil {
		return fmt.Errorf("failed to update group: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMembers inserts membership rows. Positions must already be assigned by
// the caller; duplicates are the caller's responsibility to filter.
func (r *groupRepository) AddMembers(ctx context.Context, groupID string, members []models.GroupMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range members {
			members[i].GroupID = groupID
			if err := tx.Create(&members[i]).Error; err != nil {
				if isDuplicateKeyError(err) {
					return fmt.Errorf("user '%s' is already a member: %w", members[i].UserID, ErrDuplicateEntry)
				}
				return fmt.Errorf("failed to add member: %w", err)
			}
		}
		return nil
	})
}

// RemoveMember deletes a membership row and, when promoteUserID is set,
// grants admin to that user in the same transaction. The combined operation
// is what keeps the admin-non-empty invariant from ever being observable as
// broken.
func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID, promoteUserID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&models.GroupMember{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove member: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if promoteUserID != "" {
			promote := tx.Model(&models.GroupMember{}).
				Where("group_id = ? AND user_id = ?", groupID, promoteUserID).
				Update("is_admin", true)
			if promote.Error != nil {
				return fmt.Errorf("failed to promote successor: %w", promote.Error)
			}
			if promote.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
}

// SetAdmin flips the admin flag on a membership row.
func (r *groupRepository) SetAdmin(ctx context.Context, groupID, userID string, isAdmin bool) error {
	result := r.db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("is_admin", isAdmin)
	if result.Error != nil {
		return fmt.Errorf("failed to set admin flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the group, its membership rows, its thread and all
// messages.
func (r *groupRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.GroupMember{}).Error; err != nil {
			return fmt.Errorf("failed to delete members: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&models.Group{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete group: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("thread_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Thread{}).Error; err != nil {
			return fmt.Errorf("failed to delete thread: %w", err)
		}
		return nil
	})
}
