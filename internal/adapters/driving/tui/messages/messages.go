// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/gitsync/internal/core/domain"
)

// RefreshRequested asks the model to poll the scheduler again.
type RefreshRequested struct{}

// StatusRefreshed carries a scheduler snapshot.
type StatusRefreshed struct {
	Status domain.SchedulerStatus
}

// HistoryLoaded carries the latest runs from the history store.
type HistoryLoaded struct {
	Runs []domain.FolderRun
	Err  error
}

// NotificationReceived carries one notification from the hub.
type NotificationReceived struct {
	Notification domain.Notification
}

// NotificationsClosed is sent when the notification stream ends.
type NotificationsClosed struct{}

// ToggleCompleted reports the result of enabling or disabling watching.
type ToggleCompleted struct {
	Enabled bool
	Err     error
}

// TriggerCompleted reports the result of a manual trigger.
type TriggerCompleted struct {
	RoundID string
	Err     error
}
