// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ProcessRunner: Runs one git command and captures its output
//   - AuditLog: Append-only audit log of git output
//   - ConfigurationGateway: Loads and saves the watch configuration
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Notifier: User-facing notifications. Without it, nothing is shown.
//   - RunHistoryStore: Folder run history. Without it, runs are not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
