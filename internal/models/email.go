package models

import (
	"strings"
	"time"
)

// Folder is the containment state of an email. An email is in exactly one
// folder at a time.
type Folder string

const (
	FolderInbox Folder = "inbox"
	FolderSent  Folder = "sent"
	FolderTrash Folder = "trash"
)

// Valid reports whether f names a known folder.
func (f Folder) Valid() bool {
	switch f {
	case FolderInbox, FolderSent, FolderTrash:
		return true
	}
	return false
}

// EmailParticipant is a denormalized snapshot of a user taken at send time.
// Unlike a thread message's sender reference, later profile changes do not
// alter how a historical email displays.
type EmailParticipant struct {
	Name    string `gorm:"size:255" json:"name"`
	Email   string `gorm:"size:255" json:"email"`
	Initial string `gorm:"size:4" json:"initial"`
	Color   string `gorm:"size:128" json:"color"`
}

// ParticipantSnapshot denormalizes a user into an email participant at send
// time. Role decides the badge color, as the original display convention
// does.
func ParticipantSnapshot(user *User) EmailParticipant {
	color := "bg-green-200 text-green-800"
	if user.Role == RoleStudent {
		color = "bg-blue-200 text-blue-800"
	}
	return EmailParticipant{
		Name:    user.Name,
		Email:   user.Email,
		Initial: NameInitial(user.Name),
		Color:   color,
	}
}

// NameInitial returns the display initial for a name: its first rune,
// uppercased. Slicing the first byte would mangle multi-byte names.
func NameInitial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return ""
}

// Email is a mailbox entry owned by a single user.
type Email struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string           `gorm:"not null;index;size:36" json:"owner_id"`
	Folder    Folder           `gorm:"not null;index;size:16" json:"folder"`
	Sender    EmailParticipant `gorm:"embedded;embeddedPrefix:sender_" json:"sender"`
	Recipient EmailParticipant `gorm:"embedded;embeddedPrefix:recipient_" json:"recipient"`
	Subject   string           `gorm:"size:512" json:"subject"`
	Preview   string           `gorm:"size:255" json:"preview"`
	Body      string           `json:"body"`
	IsRead    bool             `gorm:"default:false" json:"is_read"`
	SentAt    time.Time        `gorm:"not null" json:"sent_at"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

// TableName returns the table name for Email
func (Email) TableName() string {
	return "emails"
}

// ReadFilter narrows inbox listings by read state.
type ReadFilter string

const (
	ReadFilterAll    ReadFilter = "all"
	ReadFilterRead   ReadFilter = "read"
	ReadFilterUnread ReadFilter = "unread"
)

// Valid reports whether rf is a known read filter.
func (rf ReadFilter) Valid() bool {
	switch rf {
	case ReadFilterAll, ReadFilterRead, ReadFilterUnread:
		return true
	}
	return false
}
