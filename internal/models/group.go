package models

import (
	"time"
)

// Group is a named multi-member thread with a distinguished admin subset.
// Invariants enforced by the group service: every admin is a member, and the
// admin set is never empty while members remain.
type Group struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Avatar      string    `gorm:"size:512" json:"avatar,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Members []GroupMember `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"members"`
}

// TableName returns the table name for Group
func (Group) TableName() string {
	return "groups"
}

// AdminIDs returns the ids of the admin members in insertion order.
func (g *Group) AdminIDs() []string {
	var ids []string
	for _, m := range g.Members {
		if m.IsAdmin {
			ids = append(ids, m.UserID)
		}
	}
	return ids
}

// IsAdmin reports whether userID is an admin of the group.
func (g *Group) IsAdmin(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID && m.IsAdmin {
			return true
		}
	}
	return false
}

// IsMember reports whether userID belongs to the group.
func (g *Group) IsMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// GroupMember links a user into a group. Position records insertion order;
// the longest-standing member has the lowest position and inherits leadership
// when the last admin leaves.
type GroupMember struct {
	GroupID  string    `gorm:"primaryKey;size:36" json:"group_id"`
	UserID   string    `gorm:"primaryKey;size:36" json:"user_id"`
	IsAdmin  bool      `gorm:"default:false" json:"is_admin"`
	Position int       `gorm:"not null" json:"position"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

// TableName returns the table name for GroupMember
func (GroupMember) TableName() string {
	return "group_members"
}

// GroupListItem is a lightweight projection for group list views.
type GroupListItem struct {
	Group
	LastMessage *Message `json:"last_message,omitempty"`
	MemberCount int      `json:"member_count"`
}
