package driving

import (
	"context"

	"github.com/custodia-labs/gitsync/internal/core/domain"
)

// SyncSequencer runs the fetch, status and conditional pull protocol for one folder.
type SyncSequencer interface {
	// Run synchronises folder on the calling goroutine.
	// ctx is checked between stages only; a git process that is already
	// running is never interrupted.
	Run(ctx context.Context, folder string) (domain.SyncReport, error)
}
