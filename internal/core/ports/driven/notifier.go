package driven

import "github.com/custodia-labs/gitsync/internal/core/domain"

// Notifier delivers user-facing notifications.
// Notify is fire-and-forget: it must not block the caller and has no error.
type Notifier interface {
	Notify(n domain.Notification)
}
