package driven

import (
	"context"

	"github.com/custodia-labs/gitsync/internal/core/domain"
)

// RunHistoryStore persists the outcome of folder runs.
type RunHistoryStore interface {
	// RecordRun stores a completed folder run.
	RecordRun(ctx context.Context, run domain.FolderRun) error

	// ListRuns returns recent runs for a folder, or for every folder when
	// folder is empty. Results are ordered by start time descending.
	ListRuns(ctx context.Context, folder string, limit int) ([]domain.FolderRun, error)

	// PruneRuns removes old runs beyond the retention limit.
	// Keeps the most recent 'keep' runs per folder.
	PruneRuns(ctx context.Context, keep int) error
}
