// Package tui provides an interactive terminal monitor for gitsync.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
	"github.com/custodia-labs/gitsync/internal/core/ports/driving"
)

// Ports aggregates what the monitor needs from the core.
type Ports struct {
	// Scheduler is toggled and triggered from the keyboard.
	Scheduler driving.WatchScheduler

	// History provides the last run per folder. Optional.
	History driven.RunHistoryStore

	// Notifications streams notifications to display. Optional.
	Notifications <-chan domain.Notification
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Scheduler == nil {
		return ErrMissingScheduler
	}
	return nil
}
