package domain

import "time"

// NotificationTitle is the title of every user-facing notification.
const NotificationTitle = "GitSync"

// Notification bodies.
const (
	NotifyFetchSucceeded = "Git fetching successfully."
	NotifyPullSucceeded  = "Git pulling successfully."
)

// Severity grades a notification.
type Severity string

// Notification severities.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a fire-and-forget message for the user.
type Notification struct {
	Title      string
	Body       string
	Folder     string
	Severity   Severity
	OccurredAt time.Time
}

// NewNotification creates an info notification about folder.
func NewNotification(folder, body string) Notification {
	return Notification{
		Title:      NotificationTitle,
		Body:       body,
		Folder:     folder,
		Severity:   SeverityInfo,
		OccurredAt: time.Now(),
	}
}
