package driving

import "github.com/custodia-labs/gitsync/internal/core/domain"

// SettingsEditor edits a draft configuration before it is applied.
type SettingsEditor interface {
	// Draft returns a copy of the configuration being edited.
	Draft() domain.Configuration

	// AddFolder appends an existing directory to the draft.
	AddFolder(path string) error

	// RemoveFolder removes a folder from the draft.
	RemoveFolder(path string) error

	// SetInterval changes the draft poll interval.
	SetInterval(seconds int) error

	// Reset discards the draft and reloads the saved configuration.
	Reset() error

	// Save applies the draft.
	Save() error
}
