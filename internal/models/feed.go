package models

import (
	"time"
)

// Post is a feed entry. Content is raw author text; formatting to safe
// markup happens at render time, never here.
type Post struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	AuthorID         string    `gorm:"not null;index;size:36" json:"author_id"`
	Content          string    `gorm:"not null" json:"content"`
	Image            string    `gorm:"size:512" json:"image,omitempty"`
	ImageDescription string    `gorm:"size:512" json:"image_description,omitempty"`
	Likes            int       `json:"likes"`
	Comments         int       `json:"comments"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"author"`
}

// TableName returns the table name for Post
func (Post) TableName() string {
	return "posts"
}

// Event is a campus event with an attendee set.
type Event struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `gorm:"size:255" json:"location,omitempty"`
	Date        time.Time `gorm:"not null" json:"date"`
	CreatorID   string    `gorm:"not null;size:36" json:"creator_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Creator   User            `gorm:"foreignKey:CreatorID" json:"creator"`
	Attendees []EventAttendee `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"attendees"`
}

// TableName returns the table name for Event
func (Event) TableName() string {
	return "events"
}

// EventAttendee marks a user as attending an event.
type EventAttendee struct {
	EventID string `gorm:"primaryKey;size:36" json:"event_id"`
	UserID  string `gorm:"primaryKey;size:36" json:"user_id"`
}

// TableName returns the table name for EventAttendee
func (EventAttendee) TableName() string {
	return "event_attendees"
}

// BroadcastTargetAll addresses a broadcast to every role.
const BroadcastTargetAll = "All"

// Broadcast is a role-targeted announcement.
type Broadcast struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"not null;size:255" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	AuthorID  string    `gorm:"not null;size:36" json:"author_id"`
	Target    string    `gorm:"not null;size:16" json:"target"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"author"`
}

// TableName returns the table name for Broadcast
func (Broadcast) TableName() string {
	return "broadcasts"
}
