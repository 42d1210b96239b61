package driving

import (
	"context"

	"github.com/custodia-labs/gitsync/internal/core/domain"
)

// ConfigurationApplier adopts a new watch configuration.
type ConfigurationApplier interface {
	// ApplyConfiguration validates, adopts and persists cfg.
	// Returns a *domain.ValidationError and changes nothing if cfg is invalid.
	ApplyConfiguration(cfg domain.Configuration) error
}

// WatchScheduler runs rounds of folder synchronisation on a timer.
// All operations are safe for concurrent use.
type WatchScheduler interface {
	ConfigurationApplier

	// Trigger cancels the current round and starts a new one immediately.
	// Returns the new round ID, or an empty ID when no folder is configured.
	Trigger() (string, error)

	// SetEnabled starts or stops periodic triggering.
	SetEnabled(enabled bool) error

	// Shutdown cancels the current round and stops the timer for good.
	// It does not wait for git processes that are still running.
	Shutdown() error

	// Status returns a snapshot of the scheduler state.
	Status() domain.SchedulerStatus

	// Wait blocks until the round that is current at call time has no live
	// folder run, or ctx is done.
	Wait(ctx context.Context) error
}
