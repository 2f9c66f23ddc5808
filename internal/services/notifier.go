package services

import (
	"github.com/swaraj0405/klias-campus-backend/internal/models"
)

// Notifier receives change notifications after a mutation commits, so
// presentation layers can re-render. The WebSocket hub implements it; a nil
// notifier disables notifications.
type Notifier interface {
	MessageAppended(threadID string, message *models.Message)
	EmailReceived(ownerID string, email *models.Email)
}
