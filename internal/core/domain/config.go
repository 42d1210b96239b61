package domain

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Poll interval bounds in seconds.
const (
	MinIntervalSeconds     = 20
	MaxIntervalSeconds     = 43200
	DefaultIntervalSeconds = 60
)

// Configuration holds the watched folders and the poll interval.
type Configuration struct {
	// Folders are git working copies, in insertion order.
	Folders []string

	// IntervalSeconds is the time between two rounds.
	IntervalSeconds int
}

// DefaultConfiguration returns the configuration used when nothing is saved.
func DefaultConfiguration() Configuration {
	return Configuration{
		Folders:         []string{},
		IntervalSeconds: DefaultIntervalSeconds,
	}
}

// Interval returns the poll interval as a duration.
func (c Configuration) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Clone returns a deep copy so callers never share the folder slice.
func (c Configuration) Clone() Configuration {
	folders := make([]string, len(c.Folders))
	copy(folders, c.Folders)
	return Configuration{Folders: folders, IntervalSeconds: c.IntervalSeconds}
}

// Contains reports whether folder is configured.
func (c Configuration) Contains(folder string) bool {
	return slices.Contains(c.Folders, folder)
}

// Equal reports whether both configurations hold the same folders in the
// same order and the same interval.
func (c Configuration) Equal(other Configuration) bool {
	return c.IntervalSeconds == other.IntervalSeconds && slices.Equal(c.Folders, other.Folders)
}

// Validate checks the structural rules of a configuration: a non-empty folder
// list without blanks or duplicates and an interval within bounds.
// Whether each folder exists on disk is checked by the services layer.
func (c Configuration) Validate() error {
	if len(c.Folders) == 0 {
		return &ValidationError{Field: "folders", Err: ErrEmptyFolderList}
	}
	seen := make(map[string]struct{}, len(c.Folders))
	for _, folder := range c.Folders {
		if strings.TrimSpace(folder) == "" {
			return &ValidationError{Field: "folders", Err: ErrEmptyFolderPath}
		}
		if _, dup := seen[folder]; dup {
			return &ValidationError{Field: "folders", Value: folder, Err: ErrDuplicateFolder}
		}
		seen[folder] = struct{}{}
	}
	return ValidateInterval(c.IntervalSeconds)
}

// ValidateInterval checks that seconds lies within the poll interval bounds.
func ValidateInterval(seconds int) error {
	if seconds < MinIntervalSeconds || seconds > MaxIntervalSeconds {
		return &ValidationError{
			Field: "interval",
			Value: strconv.Itoa(seconds),
			Err:   ErrIntervalOutOfRange,
		}
	}
	return nil
}
