package driven

import "github.com/custodia-labs/gitsync/internal/core/domain"

// AuditLog is the append-only audit log shared by all folder runs.
// Implementations must be safe for concurrent use: each Append writes one
// whole entry, never interleaved with another.
type AuditLog interface {
	// Append writes one entry. Entries with a blank body are skipped.
	Append(entry domain.LogEntry) error
}
