package models

import (
	"time"
)

// ThreadKind distinguishes the two owners of a message sequence.
type ThreadKind string

const (
	ThreadDirect ThreadKind = "direct"
	ThreadGroup  ThreadKind = "group"
)

// Thread is the anchor row for an ordered message collection. Both direct
// conversations and groups share a thread id with their messages.
type Thread struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Kind      ThreadKind `gorm:"not null;size:16" json:"kind"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Thread
func (Thread) TableName() string {
	return "threads"
}

// MessageKind distinguishes user-authored messages from system notices
// (membership changes and the like) that have no sender.
type MessageKind string

const (
	MessageUser   MessageKind = "user"
	MessageSystem MessageKind = "system"
)

// Message is a single entry in a thread. Seq is a per-thread monotonic
// counter; the unique (thread_id, seq) index makes append order authoritative
// even when timestamps collide.
type Message struct {
	ID       string      `gorm:"primaryKey;size:36" json:"id"`
	ThreadID string      `gorm:"not null;index;size:36;uniqueIndex:idx_thread_seq" json:"thread_id"`
	Seq      uint64      `gorm:"not null;uniqueIndex:idx_thread_seq" json:"seq"`
	Kind     MessageKind `gorm:"not null;size:16" json:"kind"`
	SenderID *string     `gorm:"size:36;index" json:"sender_id,omitempty"`
	Text     string      `gorm:"not null" json:"text"`
	IsRead   bool        `gorm:"default:false" json:"is_read"`
	SentAt   time.Time   `gorm:"not null" json:"sent_at"`

	Thread Thread `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"-"`
	Sender *User  `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// Conversation is a direct two-participant thread.
type Conversation struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"participants"`
}

// TableName returns the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// ConversationParticipant links a user into a conversation.
type ConversationParticipant struct {
	ConversationID string `gorm:"primaryKey;size:36" json:"conversation_id"`
	UserID         string `gorm:"primaryKey;size:36" json:"user_id"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

// TableName returns the table name for ConversationParticipant
func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}

// ConversationListItem is a lightweight projection for list views: the
// newest message plus a derived unread count. Unread is always computed from
// the message rows, never stored.
type ConversationListItem struct {
	Conversation
	LastMessage *Message `json:"last_message,omitempty"`
	UnreadCount int64    `json:"unread_count"`
}
