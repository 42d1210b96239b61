package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSchedulerClosed indicates the scheduler has been shut down.
	ErrSchedulerClosed = errors.New("scheduler closed")

	// ErrProcessLaunch indicates an external command could not be started.
	// The executable is missing or the working directory is invalid.
	ErrProcessLaunch = errors.New("process launch failed")

	// Configuration Errors. All of them wrap ErrInvalidInput.

	// ErrEmptyFolderList indicates a configuration without any folder.
	ErrEmptyFolderList = fmt.Errorf("%w: folder list is empty", ErrInvalidInput)

	// ErrEmptyFolderPath indicates a blank folder path.
	ErrEmptyFolderPath = fmt.Errorf("%w: folder path is empty", ErrInvalidInput)

	// ErrFolderNotFound indicates a folder path that is not an existing directory.
	ErrFolderNotFound = fmt.Errorf("%w: folder does not exist", ErrInvalidInput)

	// ErrDuplicateFolder indicates a folder that is already configured.
	ErrDuplicateFolder = fmt.Errorf("%w: folder already added", ErrInvalidInput)

	// ErrIntervalOutOfRange indicates a poll interval outside the allowed bounds.
	ErrIntervalOutOfRange = fmt.Errorf("%w: interval out of range", ErrInvalidInput)
)

// ValidationError reports a configuration rejected at the configuration boundary.
type ValidationError struct {
	// Field is the configuration field that failed validation.
	Field string

	// Value is the offending value, if any.
	Value string

	// Err is one of the configuration sentinel errors.
	Err error
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ProcessLaunchError reports an external command that never started.
type ProcessLaunchError struct {
	Dir  string
	Name string
	Err  error
}

// Error implements error.
func (e *ProcessLaunchError) Error() string {
	return fmt.Sprintf("launching %s in %s: %v", e.Name, e.Dir, e.Err)
}

// Unwrap returns the cause reported by the operating system.
func (e *ProcessLaunchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrProcessLaunch.
func (e *ProcessLaunchError) Is(target error) bool {
	return target == ErrProcessLaunch
}
