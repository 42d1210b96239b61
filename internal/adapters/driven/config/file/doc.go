// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based key/value configuration storage
//   - Gateway: the watch configuration on top of a ConfigStore
package file
