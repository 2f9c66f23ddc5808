package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swaraj0405/klias-campus-backend/internal/models"
)

func TestNewHub_Initialized(t *testing.T) {
	hub := NewHub(nil)

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.subscriptions)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
}

func TestHub_MessageAppendedWithoutSubscribers(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	msg := &models.Message{
		ID:       "msg-1",
		ThreadID: "thread-1",
		Text:     "hello",
	}

	// No subscribers yet; the broadcast must simply be dropped
	hub.MessageAppended("thread-1", msg)
}

func TestHub_EmailReceivedWithoutSubscribers(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	email := &models.Email{
		ID:      "email-1",
		OwnerID: "user-1",
		Subject: "Orientation schedule",
	}

	hub.EmailReceived("user-1", email)
}

func TestHub_TopicHelpers(t *testing.T) {
	assert.Equal(t, "thread:thread-1", ThreadTopic("thread-1"))
	assert.Equal(t, "mailbox:user-1", MailboxTopic("user-1"))
}
