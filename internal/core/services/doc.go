// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - SyncSequencer: fetch, status and conditional pull for one folder
//   - WatchScheduler: periodic fan-out of sequencer runs with cancellation
//   - SettingsEditor: draft configuration edited before it is applied
package services
