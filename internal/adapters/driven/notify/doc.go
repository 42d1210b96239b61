// Package notify provides notification sinks.
//
// Adapters:
//   - Console: writes notifications through the diagnostic logger
//   - Hub: fans notifications out to subscribers such as the TUI
//   - Throttled: drops notifications above a rate
//   - Multi: delivers to several sinks
//
// Every sink is fire-and-forget: Notify never blocks on a slow consumer.
package notify
