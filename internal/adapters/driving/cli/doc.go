// Package cli provides the command-line interface for gitsync.
// It implements a driving adapter following hexagonal architecture principles.
//
// Commands reach the core through the Services built by the factory set
// with SetServicesFactory. The factory runs once per invocation, after the
// global flags are parsed.
package cli
