package domain

import "strings"

// Git subcommands issued by the sequencer.
const (
	GitFetch  = "fetch"
	GitStatus = "status"
	GitPull   = "pull"
)

// DefaultGitExecutable is the version control executable looked up on PATH.
const DefaultGitExecutable = "git"

const (
	transientFetchMarker = "fatal:"
	pullSuggestionMarker = "git pull"
)

// ProcessOutput holds the captured streams of an exited process.
type ProcessOutput struct {
	Stdout string
	Stderr string
}

// IsTransientFetchFailure reports whether fetch stderr signals a failure
// that must be retried. Matching is case-insensitive.
func IsTransientFetchFailure(stderr string) bool {
	return strings.Contains(strings.ToLower(stderr), transientFetchMarker)
}

// SuggestsPull reports whether status stdout advises running a pull,
// which is how git says the working copy is behind its upstream.
// Matching is case-insensitive and literal.
func SuggestsPull(stdout string) bool {
	return strings.Contains(strings.ToLower(stdout), pullSuggestionMarker)
}
