package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
	"github.com/custodia-labs/gitsync/internal/core/ports/driving"
	"github.com/custodia-labs/gitsync/internal/logger"
)

// historyRetention is the number of runs kept per folder.
const historyRetention = 100

// historyTimeout bounds a single write to the run history store.
const historyTimeout = 5 * time.Second

// Ensure WatchScheduler implements the interface.
var _ driving.WatchScheduler = (*WatchScheduler)(nil)

// WatchScheduler fans out one sequencer run per folder on every tick.
//
// All state is guarded by mu. Scheduler operations never wait for folder
// runs: a run only takes mu briefly to remove itself from its round.
type WatchScheduler struct {
	sequencer driving.SyncSequencer
	gateway   driven.ConfigurationGateway
	history   driven.RunHistoryStore
	clock     clockwork.Clock
	dirExists func(path string) bool

	mu       sync.Mutex
	config   domain.Configuration
	enabled  bool
	closed   bool
	round    *round
	timer    *pollTimer
	timerGen uint64
}

// round is one fan-out of folder runs sharing a cancellation scope.
type round struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc

	// tasks maps live task IDs to their folder. Guarded by WatchScheduler.mu.
	tasks map[string]string

	// done is closed when the last task leaves tasks.
	done chan struct{}
}

// pollTimer is one generation of the periodic timer.
type pollTimer struct {
	ticker clockwork.Ticker
	stop   chan struct{}
}

// SchedulerOption configures a WatchScheduler.
type SchedulerOption func(*WatchScheduler)

// WithClock replaces the real clock, typically with a fake one in tests.
func WithClock(clock clockwork.Clock) SchedulerOption {
	return func(s *WatchScheduler) {
		s.clock = clock
	}
}

// WithDirCheck replaces the check used to validate that folders exist.
func WithDirCheck(fn func(path string) bool) SchedulerOption {
	return func(s *WatchScheduler) {
		s.dirExists = fn
	}
}

// NewWatchScheduler creates a disabled scheduler holding cfg.
// cfg is adopted as loaded: folders are not checked for existence until the
// next ApplyConfiguration. gateway and history are optional.
func NewWatchScheduler(
	cfg domain.Configuration,
	sequencer driving.SyncSequencer,
	gateway driven.ConfigurationGateway,
	history driven.RunHistoryStore,
	opts ...SchedulerOption,
) *WatchScheduler {
	s := &WatchScheduler{
		sequencer: sequencer,
		gateway:   gateway,
		history:   history,
		clock:     clockwork.NewRealClock(),
		dirExists: isDir,
		config:    cfg.Clone(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Trigger cancels the current round, if any, and starts a new one.
// With no folder configured it does nothing and stops the periodic timer
// until the next ApplyConfiguration.
func (s *WatchScheduler) Trigger() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", domain.ErrSchedulerClosed
	}
	return s.triggerLocked(), nil
}

// ApplyConfiguration validates cfg, then restarts everything around it:
// the timer is stopped, the current round is cancelled, cfg is adopted and
// persisted, and when enabled the timer restarts and a round is triggered.
//
// An invalid cfg returns a *domain.ValidationError and changes nothing.
// A persistence failure is returned after cfg has been applied.
func (s *WatchScheduler) ApplyConfiguration(cfg domain.Configuration) error {
	cfg = cfg.Clone()
	if err := validateConfiguration(cfg, s.dirExists); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSchedulerClosed
	}

	s.stopTimerLocked()
	s.discardRoundLocked()
	s.config = cfg
	logger.Info("configuration applied: %d folders every %s", len(cfg.Folders), cfg.Interval())

	var saveErr error
	if s.gateway != nil {
		if err := s.gateway.Save(cfg); err != nil {
			saveErr = fmt.Errorf("saving configuration: %w", err)
		}
	}

	if s.enabled {
		s.startTimerLocked()
		s.triggerLocked()
	}

	return saveErr
}

// SetEnabled starts the timer and triggers a round, or stops the timer and
// cancels the current round. Enabling without any folder is rejected.
func (s *WatchScheduler) SetEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSchedulerClosed
	}
	if enabled == s.enabled {
		return nil
	}

	if !enabled {
		s.enabled = false
		s.stopTimerLocked()
		s.discardRoundLocked()
		logger.Info("watching disabled")
		return nil
	}

	if len(s.config.Folders) == 0 {
		return &domain.ValidationError{Field: "folders", Err: domain.ErrEmptyFolderList}
	}
	s.enabled = true
	s.startTimerLocked()
	s.triggerLocked()
	logger.Info("watching enabled, polling every %s", s.config.Interval())
	return nil
}

// Shutdown cancels the current round and stops the timer.
// Git processes that are still running are not waited for.
func (s *WatchScheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.enabled = false
	s.stopTimerLocked()
	s.discardRoundLocked()
	return nil
}

// Status returns a snapshot of the scheduler state.
func (s *WatchScheduler) Status() domain.SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := domain.SchedulerStatus{
		Enabled:       s.enabled,
		Closed:        s.closed,
		Configuration: s.config.Clone(),
		LiveFolders:   []string{},
	}
	if s.round != nil {
		status.RoundID = s.round.id
		for _, folder := range s.round.tasks {
			status.LiveFolders = append(status.LiveFolders, folder)
		}
		sort.Strings(status.LiveFolders)
	}
	return status
}

// Wait blocks until the current round has no live task or ctx is done.
// It returns immediately when no round was ever started.
func (s *WatchScheduler) Wait(ctx context.Context) error {
	s.mu.Lock()
	r := s.round
	s.mu.Unlock()

	if r == nil {
		return nil
	}
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// triggerLocked starts a round (caller must hold mu).
func (s *WatchScheduler) triggerLocked() string {
	if len(s.config.Folders) == 0 {
		s.stopTimerLocked()
		logger.Warn("no folder configured, automatic polling paused")
		return ""
	}

	s.discardRoundLocked()

	ctx, cancel := context.WithCancel(context.Background())
	r := &round{
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
		tasks:  make(map[string]string, len(s.config.Folders)),
		done:   make(chan struct{}),
	}
	s.round = r

	for _, folder := range s.config.Folders {
		taskID := uuid.NewString()
		r.tasks[taskID] = folder
		go s.runFolder(r, taskID, folder)
	}

	logger.Debug("round %s started for %d folders", r.id, len(r.tasks))
	return r.id
}

// discardRoundLocked cancels the current round and forgets it (caller must hold mu).
// Its tasks keep removing themselves from the discarded round as they finish.
func (s *WatchScheduler) discardRoundLocked() {
	if s.round == nil {
		return
	}
	s.round.cancel()
	s.round = nil
}

// runFolder executes one sequencer run, records it and unregisters it from r.
// Recording happens first so that Wait returning implies the round is in history.
func (s *WatchScheduler) runFolder(r *round, taskID, folder string) {
	run := domain.FolderRun{
		ID:        taskID,
		RoundID:   r.id,
		Folder:    folder,
		StartedAt: s.clock.Now(),
		Outcome:   domain.RunFailed,
	}

	defer func() {
		if p := recover(); p != nil {
			run.Error = fmt.Sprintf("panic: %v", p)
			logger.Error("folder %s: %s", folder, run.Error)
		}
		run.EndedAt = s.clock.Now()
		s.recordRun(run)
		s.finish(r, taskID)
	}()

	report, err := s.sequencer.Run(r.ctx, folder)
	run.FetchAttempts = report.FetchAttempts
	run.Pulled = report.Pulled

	switch {
	case err == nil:
		run.Outcome = domain.RunSucceeded
	case errors.Is(err, context.Canceled):
		run.Outcome = domain.RunCancelled
	default:
		run.Error = err.Error()
		logger.Error("folder %s: %v", folder, err)
	}
}

// finish removes taskID from r and closes r.done after the last task.
func (s *WatchScheduler) finish(r *round, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := r.tasks[taskID]; !ok {
		return
	}
	delete(r.tasks, taskID)
	if len(r.tasks) == 0 {
		close(r.done)
	}
}

// recordRun stores run in the history store, if one is configured.
func (s *WatchScheduler) recordRun(run domain.FolderRun) {
	if s.history == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	if err := s.history.RecordRun(ctx, run); err != nil {
		logger.Warn("recording run for %s: %v", run.Folder, err)
		return
	}
	if err := s.history.PruneRuns(ctx, historyRetention); err != nil {
		logger.Warn("pruning run history: %v", err)
	}
}

// startTimerLocked starts a new timer generation (caller must hold mu).
func (s *WatchScheduler) startTimerLocked() {
	s.stopTimerLocked()

	interval := s.config.Interval()
	if interval <= 0 {
		interval = time.Duration(domain.DefaultIntervalSeconds) * time.Second
	}

	s.timerGen++
	t := &pollTimer{
		ticker: s.clock.NewTicker(interval),
		stop:   make(chan struct{}),
	}
	s.timer = t
	go s.pollLoop(t, s.timerGen)
}

// stopTimerLocked stops the current timer generation (caller must hold mu).
func (s *WatchScheduler) stopTimerLocked() {
	if s.timer == nil {
		return
	}
	s.timer.ticker.Stop()
	close(s.timer.stop)
	s.timer = nil
}

// pollLoop triggers a round on every tick of t until t is stopped.
func (s *WatchScheduler) pollLoop(t *pollTimer, gen uint64) {
	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.Chan():
			s.tick(gen)
		}
	}
}

// tick triggers a round unless the timer generation that fired is stale.
func (s *WatchScheduler) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.enabled || s.timer == nil || gen != s.timerGen {
		return
	}
	s.triggerLocked()
}

