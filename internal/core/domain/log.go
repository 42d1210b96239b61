package domain

import "time"

// LogKind tags an audit log entry.
type LogKind string

// Audit log kinds.
const (
	// LogKindApp is for application lifecycle events.
	LogKindApp LogKind = "App"

	// LogKindInfo is for standard output of git commands.
	LogKindInfo LogKind = "Info"

	// LogKindError is for standard error of git commands and launch failures.
	LogKindError LogKind = "Error"
)

// IsValid returns true if the kind is recognised.
func (k LogKind) IsValid() bool {
	switch k {
	case LogKindApp, LogKindInfo, LogKindError:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k LogKind) String() string {
	return string(k)
}

// LogEntry is one append-only record of the audit log.
type LogEntry struct {
	// Timestamp is when the entry was produced, kept to the microsecond.
	Timestamp time.Time

	// Kind tags the entry.
	Kind LogKind

	// Workfolder is the folder the entry belongs to. Empty for App entries.
	Workfolder string

	// Body is the logged text, usually git output.
	Body string
}

// NewLogEntry creates an entry stamped with the current time.
func NewLogEntry(kind LogKind, workfolder, body string) LogEntry {
	return LogEntry{
		Timestamp:  time.Now().Truncate(time.Microsecond),
		Kind:       kind,
		Workfolder: workfolder,
		Body:       body,
	}
}
