package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
)

// Ensure RunHistoryStore implements the interface.
var _ driven.RunHistoryStore = (*RunHistoryStore)(nil)

// RunHistoryStore is an in-memory implementation of driven.RunHistoryStore.
type RunHistoryStore struct {
	mu   sync.RWMutex
	runs map[string]domain.FolderRun
}

// NewRunHistoryStore creates a new in-memory run history store.
func NewRunHistoryStore() *RunHistoryStore {
	return &RunHistoryStore{
		runs: make(map[string]domain.FolderRun),
	}
}

// RecordRun stores or replaces a run by ID.
func (s *RunHistoryStore) RecordRun(_ context.Context, run domain.FolderRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

// ListRuns returns runs newest first, optionally for one folder.
func (s *RunHistoryStore) ListRuns(_ context.Context, folder string, limit int) ([]domain.FolderRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.FolderRun, 0, len(s.runs))
	for _, run := range s.runs {
		if folder == "" || run.Folder == folder {
			runs = append(runs, run)
		}
	}
	sortNewestFirst(runs)

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// PruneRuns keeps the most recent keep runs per folder.
func (s *RunHistoryStore) PruneRuns(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	perFolder := make(map[string][]domain.FolderRun)
	for _, run := range s.runs {
		perFolder[run.Folder] = append(perFolder[run.Folder], run)
	}
	for _, runs := range perFolder {
		if len(runs) <= keep {
			continue
		}
		sortNewestFirst(runs)
		for _, old := range runs[keep:] {
			delete(s.runs, old.ID)
		}
	}
	return nil
}

func sortNewestFirst(runs []domain.FolderRun) {
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
}
