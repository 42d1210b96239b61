package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
)

// timeLayout is fixed-width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Ensure runHistoryStore implements the interface.
var _ driven.RunHistoryStore = (*runHistoryStore)(nil)

// runHistoryStore implements driven.RunHistoryStore.
type runHistoryStore struct {
	store *Store
}

// RecordRun stores a completed folder run, replacing any run with the same ID.
func (s *runHistoryStore) RecordRun(ctx context.Context, run domain.FolderRun) error {
	if run.ID == "" || run.Folder == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO folder_runs (id, round_id, folder, started_at, ended_at, outcome, fetch_attempts, pulled, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			round_id = excluded.round_id,
			folder = excluded.folder,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			outcome = excluded.outcome,
			fetch_attempts = excluded.fetch_attempts,
			pulled = excluded.pulled,
			error = excluded.error
	`, run.ID, run.RoundID, run.Folder,
		formatTime(run.StartedAt),
		formatTime(run.EndedAt),
		string(run.Outcome),
		run.FetchAttempts,
		boolToInt(run.Pulled),
		nullString(run.Error))

	if err != nil {
		return fmt.Errorf("recording folder run: %w", err)
	}
	return nil
}

// ListRuns returns recent runs, most recent first.
// An empty folder lists every folder; a non-positive limit lists everything.
func (s *runHistoryStore) ListRuns(ctx context.Context, folder string, limit int) ([]domain.FolderRun, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, round_id, folder, started_at, ended_at, outcome, fetch_attempts, pulled, error
		FROM folder_runs
		WHERE ? = '' OR folder = ?
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, folder, folder, limit)
	if err != nil {
		return nil, fmt.Errorf("querying folder runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.FolderRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanFolderRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating folder runs: %w", err)
	}

	return runs, nil
}

// PruneRuns removes old runs beyond the retention limit.
// Keeps the most recent 'keep' runs per folder.
func (s *runHistoryStore) PruneRuns(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM folder_runs
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY folder ORDER BY started_at DESC, id DESC) as rn
				FROM folder_runs
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning folder runs: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanFolderRun scans a folder run from *sql.Rows.
func scanFolderRun(rows *sql.Rows) (*domain.FolderRun, error) {
	var run domain.FolderRun
	var startedAt, endedAt, outcome string
	var pulled int
	var errMsg sql.NullString

	if err := rows.Scan(&run.ID, &run.RoundID, &run.Folder, &startedAt, &endedAt,
		&outcome, &run.FetchAttempts, &pulled, &errMsg); err != nil {
		return nil, fmt.Errorf("scanning folder run: %w", err)
	}

	run.StartedAt = parseTime(startedAt)
	run.EndedAt = parseTime(endedAt)
	run.Outcome = domain.RunOutcome(outcome)
	run.Pulled = pulled == 1
	if errMsg.Valid {
		run.Error = errMsg.String
	}

	return &run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
