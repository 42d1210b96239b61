package domain

import "time"

// RunOutcome describes how a folder run ended.
type RunOutcome string

// Folder run outcomes.
const (
	// RunSucceeded means the whole fetch/status/pull sequence completed.
	RunSucceeded RunOutcome = "succeeded"

	// RunFailed means a git command could not be launched.
	RunFailed RunOutcome = "failed"

	// RunCancelled means the round was superseded or stopped before completion.
	RunCancelled RunOutcome = "cancelled"
)

// SyncReport summarises what one sequencer run did.
type SyncReport struct {
	// Folder is the working copy that was synchronised.
	Folder string

	// FetchAttempts counts fetch invocations, including transient failures.
	FetchAttempts int

	// Pulled indicates whether a pull was issued.
	Pulled bool
}

// FolderRun records the execution of one sequencer run within a round.
type FolderRun struct {
	// ID is the unique identifier for the run.
	ID string

	// RoundID identifies the round the run belongs to.
	RoundID string

	// Folder is the synchronised working copy.
	Folder string

	// StartedAt is when the run started.
	StartedAt time.Time

	// EndedAt is when the run completed.
	EndedAt time.Time

	// Outcome is how the run ended.
	Outcome RunOutcome

	// FetchAttempts counts fetch invocations.
	FetchAttempts int

	// Pulled indicates whether a pull was issued.
	Pulled bool

	// Error contains the error message if Outcome is RunFailed.
	Error string
}

// Duration returns how long the run took.
func (r FolderRun) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// SchedulerStatus is a point-in-time snapshot of the watch scheduler.
type SchedulerStatus struct {
	// Enabled indicates whether the periodic timer is active.
	Enabled bool

	// Closed indicates the scheduler has been shut down.
	Closed bool

	// Configuration is the active configuration.
	Configuration Configuration

	// RoundID identifies the current round. Empty before the first trigger.
	RoundID string

	// LiveFolders lists folders whose run in the current round is still going.
	LiveFolders []string
}
