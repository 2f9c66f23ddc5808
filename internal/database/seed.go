package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"gorm.io/gorm"
)

// Seed loads the demo campus dataset: the user directory plus sample
// conversations, groups, mailboxes, posts, events and broadcasts. It is
// idempotent; a database that already has users is left alone.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()

	users := []models.User{
		{
			ID: "user-1", Name: "Alex Johnson", Username: "alexj", Email: "alex.j@example.com",
			Avatar: "https://i.pravatar.cc/150?u=user-1", Bio: "Student at KLIAS. Passionate about web development and open source.",
			StudentID: "KLIAS-12345", Role: models.RoleStudent, LastSeen: "Online", Followers: 184, Following: 256,
		},
		{
			ID: "user-2", Name: "Emily Reed", Username: "ereed", Email: "e.reed@example.com",
			Avatar: "https://i.pravatar.cc/150?u=user-2", Bio: "Professor of Computer Science at KLIAS.",
			Role: models.RoleTeacher, LastSeen: "Active 15 minutes ago", Followers: 1250, Following: 89,
		},
		{
			ID: "user-3", Name: "Michael Chen", Username: "mchen", Email: "m.chen@example.com",
			Avatar: "https://i.pravatar.cc/150?u=user-3", Bio: "Admin at KLIAS. Making sure everything runs smoothly.",
			Role: models.RoleAdmin, LastSeen: "Offline", Followers: 5, Following: 200,
		},
		{
			ID: "user-4", Name: "Sophia Rodriguez", Username: "sophia.r", Email: "s.rodriguez@example.com",
			Avatar: "https://i.pravatar.cc/150?u=user-4", Bio: "Design student. Coffee and typography.",
			Role: models.RoleStudent, LastSeen: "Online", Followers: 320, Following: 180,
		},
		{
			ID: "user-5", Name: "David Osei", Username: "dosei", Email: "d.osei@example.com",
			Avatar: "https://i.pravatar.cc/150?u=user-5", Bio: "Lecturer, Department of Mathematics.",
			Role: models.RoleTeacher, LastSeen: "Offline", Followers: 410, Following: 52,
		},
		{
			ID: "user-6", Name: "Priya Nair", Username: "pnair", Email: "p.nair@example.com",
			Avatar: "https://i.pravatar.cc/150?u=user-6", Bio: "Second-year economics student.",
			Role: models.RoleStudent, LastSeen: "Online", Followers: 98, Following: 143,
		},
		{
			ID: "user-7", Name: "Tom Becker", Username: "tbecker", Email: "t.becker@example.com",
			Avatar: "https://i.pravatar.cc/150?u=user-7", Bio: "CS student, part-time barista.",
			Role: models.RoleStudent, LastSeen: "Active 1 hour ago", Followers: 77, Following: 120,
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range users {
			if err := tx.Create(&users[i]).Error; err != nil {
				return fmt.Errorf("failed to seed user: %w", err)
			}
		}

		seedConversation(tx, "conv-1", []string{"user-1", "user-4"}, []seedMessage{
			{"user-1", "Hey Sophia! Loved your design project.", now.Add(-20 * time.Minute), true},
			{"user-4", "Thanks Alex! I appreciate that. How are your studies going?", now.Add(-19 * time.Minute), true},
			{"user-1", "Going well, just stuck on some recursion stuff for my assignment.", now.Add(-18 * time.Minute), false},
		})
		seedConversation(tx, "conv-2", []string{"user-1", "user-2"}, []seedMessage{
			{"user-1", "Professor Reed, I had a question about the lecture on Monday.", now.Add(-48 * time.Hour), true},
			{"user-2", "Of course, Alex. What can I help you with?", now.Add(-48*time.Hour + 10*time.Second), true},
		})

		seedGroup(tx, seedGroupSpec{
			id: "group-1", name: "CS Study Group",
			avatar:      "https://picsum.photos/seed/cs-group/200",
			description: "Collaborate on computer science topics.",
			members:     []string{"user-1", "user-4", "user-7"},
			admins:      []string{"user-1"},
			messages: []seedMessage{
				{"user-1", "Anyone free to review data structures tonight?", now.Add(-time.Hour), true},
				{"user-4", "I can in about an hour!", now.Add(-59 * time.Minute), true},
			},
		})
		seedGroup(tx, seedGroupSpec{
			id: "group-2", name: "Faculty Announcements",
			avatar:  "https://picsum.photos/seed/faculty-group/200",
			members: []string{"user-2", "user-5", "user-3"},
			admins:  []string{"user-2", "user-3"},
			messages: []seedMessage{
				{"user-2", "Reminder: Faculty meeting tomorrow at 10 AM in the main conference room.", now.Add(-5 * time.Hour), true},
			},
		})

		emails := []models.Email{
			{
				ID: "email-1", OwnerID: "user-1", Folder: models.FolderInbox,
				Sender:    models.ParticipantSnapshot(&users[1]),
				Recipient: models.ParticipantSnapshot(&users[0]),
				Subject:   "Mid-term Exam Grades",
				Preview:   "Hi Alex, the grades for the mid-term exam have been posted. Please check the student portal. Best, Prof. Reed",
				Body:      "Hi Alex,\n\nThe grades for the mid-term exam have been posted. Please check the student portal.\n\nBest,\nProf. Reed",
				IsRead:    false, SentAt: now.Add(-24 * time.Hour),
			},
			{
				ID: "email-2", OwnerID: "user-1", Folder: models.FolderInbox,
				Sender:    models.ParticipantSnapshot(&users[2]),
				Recipient: models.ParticipantSnapshot(&users[0]),
				Subject:   "Campus Maintenance Notification",
				Preview:   "Dear students, please be advised that the main library will be closed this weekend for scheduled maintenance.",
				Body:      "Dear students,\n\nPlease be advised that the main library will be closed this weekend for scheduled maintenance.\n\nThank you,\nKLIAS Administration",
				IsRead:    true, SentAt: now.Add(-48 * time.Hour),
			},
			{
				ID: "sent-1", OwnerID: "user-1", Folder: models.FolderSent,
				Sender:    models.ParticipantSnapshot(&users[0]),
				Recipient: models.ParticipantSnapshot(&users[1]),
				Subject:   "Re: Mid-term Exam Grades",
				Preview:   "Thank you, Professor. I will check them now.",
				Body:      "Thank you, Professor. I will check them now.",
				IsRead:    true, SentAt: now.Add(-23 * time.Hour),
			},
		}
		for i := range emails {
			if err := tx.Create(&emails[i]).Error; err != nil {
				return fmt.Errorf("failed to seed email: %w", err)
			}
		}

		posts := []models.Post{
			{
				ID: "post-1", AuthorID: "user-2",
				Content:   "Office hours moved to **Thursday 2pm** this week. #NewResearch",
				Likes:     42, Comments: 7, CreatedAt: now.Add(-6 * time.Hour),
			},
			{
				ID: "post-2", AuthorID: "user-4",
				Content: "Trying out a new cafe downtown.",
				Image:   "https://picsum.photos/seed/post-5/800/800", ImageDescription: "A cup of latte art on a wooden table",
				Likes: 312, Comments: 29, CreatedAt: now.Add(-72 * time.Hour),
			},
		}
		for i := range posts {
			if err := tx.Create(&posts[i]).Error; err != nil {
				return fmt.Errorf("failed to seed post: %w", err)
			}
		}

		events := []models.Event{
			{
				ID: "event-1", Title: "Annual Tech Summit",
				Description: "Join us for a day of insightful talks and workshops from industry leaders in technology.",
				Location:    "Grand Auditorium", Date: now.Add(5 * 24 * time.Hour), CreatorID: "user-3",
				Attendees: []models.EventAttendee{
					{UserID: "user-1"}, {UserID: "user-2"}, {UserID: "user-4"}, {UserID: "user-5"},
				},
			},
			{
				ID: "event-2", Title: "Guest Lecture: The Future of AI",
				Description: "A special lecture on the ethical implications and future of artificial intelligence.",
				Location:    "Science Hall - Room 201", Date: now.Add(10 * 24 * time.Hour), CreatorID: "user-2",
				Attendees: []models.EventAttendee{
					{UserID: "user-1"}, {UserID: "user-5"},
				},
			},
		}
		for i := range events {
			if err := tx.Create(&events[i]).Error; err != nil {
				return fmt.Errorf("failed to seed event: %w", err)
			}
		}

		broadcasts := []models.Broadcast{
			{
				ID: "broadcast-1", Title: "Welcome Back Students!",
				Content:  "Welcome to the new semester! We wish you all the best in your studies.",
				AuthorID: "user-3", Target: models.BroadcastTargetAll, CreatedAt: now.Add(-7 * 24 * time.Hour),
			},
			{
				ID: "broadcast-2", Title: "Faculty Meeting Reminder",
				Content:  "A reminder that the quarterly faculty meeting is scheduled for this Friday at 2 PM.",
				AuthorID: "user-2", Target: string(models.RoleTeacher), CreatedAt: now.Add(-2 * 24 * time.Hour),
			},
		}
		for i := range broadcasts {
			if err := tx.Create(&broadcasts[i]).Error; err != nil {
				return fmt.Errorf("failed to seed broadcast: %w", err)
			}
		}

		slog.Info("Seeded demo dataset",
			slog.Int("users", len(users)),
			slog.Int("emails", len(emails)))
		return nil
	})
}

type seedMessage struct {
	senderID string
	text     string
	sentAt   time.Time
	read     bool
}

func seedConversation(tx *gorm.DB, id string, participantIDs []string, messages []seedMessage) {
	tx.Create(&models.Thread{ID: id, Kind: models.ThreadDirect})
	tx.Create(&models.Conversation{ID: id})
	for _, userID := range participantIDs {
		tx.Create(&models.ConversationParticipant{ConversationID: id, UserID: userID})
	}
	seedMessages(tx, id, messages)
}

type seedGroupSpec struct {
	id          string
	name        string
	avatar      string
	description string
	members     []string
	admins      []string
	messages    []seedMessage
}

func seedGroup(tx *gorm.DB, spec seedGroupSpec) {
	tx.Create(&models.Thread{ID: spec.id, Kind: models.ThreadGroup})
	tx.Create(&models.Group{ID: spec.id, Name: spec.name, Avatar: spec.avatar, Description: spec.description})
	adminSet := make(map[string]bool, len(spec.admins))
	for _, id := range spec.admins {
		adminSet[id] = true
	}
	for i, userID := range spec.members {
		tx.Create(&models.GroupMember{
			GroupID: spec.id, UserID: userID,
			IsAdmin: adminSet[userID], Position: i + 1,
		})
	}
	seedMessages(tx, spec.id, spec.messages)
}

func seedMessages(tx *gorm.DB, threadID string, messages []seedMessage) {
	for i, m := range messages {
		senderID := m.senderID
		tx.Create(&models.Message{
			ID:       fmt.Sprintf("%s-msg-%d", threadID, i+1),
			ThreadID: threadID,
			Seq:      uint64(i + 1),
			Kind:     models.MessageUser,
			SenderID: &senderID,
			Text:     m.text,
			IsRead:   m.read,
			SentAt:   m.sentAt,
		})
	}
}
