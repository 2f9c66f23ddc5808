package models

import (
	"time"
)

// Role is a user's role on the platform
type Role string

const (
	RoleStudent Role = "Student"
	RoleTeacher Role = "Teacher"
	RoleAdmin   Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User represents a member of the campus directory. Records are seeded at
// startup and are read-only within the core.
type User struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Name       string    `gorm:"not null;size:255" json:"name"`
	Username   string    `gorm:"uniqueIndex;not null;size:64" json:"username"`
	Email      string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Avatar     string    `gorm:"size:512" json:"avatar,omitempty"`
	CoverPhoto string    `gorm:"size:512" json:"cover_photo,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	StudentID  string    `gorm:"size:64" json:"student_id,omitempty"`
	Linkedin   string    `gorm:"size:512" json:"linkedin,omitempty"`
	Role       Role      `gorm:"not null;size:16" json:"role"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	LastSeen   string    `gorm:"size:64" json:"last_seen,omitempty"`
	Followers  int       `json:"followers"`
	Following  int       `json:"following"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
