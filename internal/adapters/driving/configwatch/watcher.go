// Package configwatch reapplies the configuration file when it is edited
// while the daemon runs.
package configwatch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
	"github.com/custodia-labs/gitsync/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor produces on save.
const DefaultDebounce = 250 * time.Millisecond

// Target receives reloaded configurations.
type Target interface {
	ApplyConfiguration(cfg domain.Configuration) error
	Status() domain.SchedulerStatus
}

// Watcher watches one configuration file.
type Watcher struct {
	path     string
	gateway  driven.ConfigurationGateway
	target   Target
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	reloads int
}

// New creates a watcher for the file at path. Changes are read through
// gateway and applied to target when they differ from its configuration.
func New(path string, gateway driven.ConfigurationGateway, target Target, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		gateway:  gateway,
		target:   target,
		debounce: debounce,
	}
}

// Run watches until ctx is done.
// The parent directory is watched so that atomic replace-by-rename is seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	logger.Debug("watching %s for changes", w.path)

	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)
		}
	}
}

// Reloads returns how many times the file was re-read.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.reload)
		return
	}
	w.timer.Reset(w.debounce)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// reload applies the file when it differs from the running configuration.
func (w *Watcher) reload() {
	w.mu.Lock()
	w.timer = nil
	w.reloads++
	w.mu.Unlock()

	cfg, err := w.gateway.Load()
	if err != nil {
		logger.Warn("reloading configuration: %v", err)
		return
	}
	if cfg.Equal(w.target.Status().Configuration) {
		return
	}
	if err := w.target.ApplyConfiguration(cfg); err != nil {
		logger.Warn("configuration from %s not applied: %v", w.path, err)
		return
	}
	logger.Info("configuration reloaded from %s", w.path)
}
