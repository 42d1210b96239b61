package tui

import "errors"

// ErrMissingScheduler is returned when the watch scheduler is not provided.
var ErrMissingScheduler = errors.New("tui: watch scheduler is required")
