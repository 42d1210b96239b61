// Package domain defines the core business entities for gitsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Configuration: the watched folders and the poll interval
//   - LogEntry: one record of the append-only audit log
//   - FolderRun: the outcome of one folder's fetch/status/pull sequence
//   - ProcessOutput: captured output of one git invocation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
