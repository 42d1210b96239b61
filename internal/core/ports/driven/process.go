package driven

import "github.com/custodia-labs/gitsync/internal/core/domain"

// ProcessRunner runs external commands synchronously.
type ProcessRunner interface {
	// Run starts name with args in dir and blocks until the process exits.
	// There is no timeout and no cancellation: the call returns only when the
	// process is gone. A non-zero exit status is not an error.
	// Returns a *domain.ProcessLaunchError if the process could not be started.
	Run(dir, name string, args ...string) (domain.ProcessOutput, error)
}
