package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gitsync/internal/adapters/driving/tui"
	"github.com/custodia-labs/gitsync/internal/core/domain"
)

func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func stubTUI(t *testing.T, terminal bool, fn func(ctx context.Context, ports *tui.Ports) error) {
	t.Helper()
	origTerminal, origTUI := isTerminal, runTUI
	isTerminal = func() bool { return terminal }
	runTUI = fn
	t.Cleanup(func() {
		isTerminal, runTUI = origTerminal, origTUI
	})
}

func TestRunCmd_EnablesAndStopsOnCancel(t *testing.T) {
	a := t.TempDir()
	env := newTestEnv(t, domain.Configuration{Folders: []string{a}, IntervalSeconds: 60})

	out, err := executeCommandContext(t, cancelledContext(), env.services(), "run", "--no-watch-config")

	require.NoError(t, err)
	assert.Contains(t, out, "Watching 1 folder(s) every 1m0s.")
	assert.Contains(t, out, "Stopping.")
	assert.Equal(t, []string{"Application is running."}, env.audit.bodies())
	assert.True(t, env.scheduler.Status().Closed, "scheduler is shut down on exit")
}

func TestRunCmd_Disabled(t *testing.T) {
	a := t.TempDir()
	env := newTestEnv(t, domain.Configuration{Folders: []string{a}, IntervalSeconds: 60})
	var enabledDuringRun bool
	stubTUI(t, true, func(context.Context, *tui.Ports) error {
		enabledDuringRun = env.scheduler.Status().Enabled
		return nil
	})

	_, err := executeCommand(t, env.services(), "run", "--disabled", "--tui")

	require.NoError(t, err)
	assert.False(t, enabledDuringRun)
}

func TestRunCmd_NoFoldersKeepsRunning(t *testing.T) {
	env := newTestEnv(t, domain.DefaultConfiguration())

	out, err := executeCommandContext(t, cancelledContext(), env.services(), "run")

	require.NoError(t, err)
	assert.Contains(t, out, "Watching 0 folder(s)")
}

func TestRunCmd_StartsConfigWatcher(t *testing.T) {
	env := newTestEnv(t, domain.DefaultConfiguration())
	started := make(chan struct{})
	s := env.services()
	s.WatchConfig = func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}
	stubTUI(t, true, func(context.Context, *tui.Ports) error {
		<-started
		return nil
	})

	_, err := executeCommand(t, s, "run", "--tui")

	assert.NoError(t, err)
}

func TestRunCmd_NoWatchConfig(t *testing.T) {
	env := newTestEnv(t, domain.DefaultConfiguration())
	s := env.services()
	s.WatchConfig = func(context.Context) error {
		t.Error("config watcher must not start")
		return nil
	}

	_, err := executeCommandContext(t, cancelledContext(), s, "run", "--no-watch-config")

	assert.NoError(t, err)
}

func TestRunCmd_TUIReceivesPorts(t *testing.T) {
	a := t.TempDir()
	env := newTestEnv(t, domain.Configuration{Folders: []string{a}, IntervalSeconds: 60})
	notifications := make(chan domain.Notification)
	unsubscribed := false
	s := env.services()
	s.Subscribe = func() (<-chan domain.Notification, func()) {
		return notifications, func() { unsubscribed = true }
	}

	var got *tui.Ports
	stubTUI(t, true, func(_ context.Context, ports *tui.Ports) error {
		got = ports
		return nil
	})

	_, err := executeCommand(t, s, "run", "--tui", "--no-watch-config")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, env.scheduler, got.Scheduler)
	assert.Equal(t, env.history, got.History)
	assert.True(t, got.Notifications == (<-chan domain.Notification)(notifications))
	assert.True(t, unsubscribed)
}

func TestRunCmd_TUIRequiresTerminal(t *testing.T) {
	env := newTestEnv(t, domain.DefaultConfiguration())
	stubTUI(t, false, func(context.Context, *tui.Ports) error {
		t.Error("TUI must not start without a terminal")
		return nil
	})

	_, err := executeCommand(t, env.services(), "run", "--tui")

	assert.EqualError(t, err, "--tui requires a terminal")
	assert.False(t, env.scheduler.Status().Closed)
}

func TestRunCmd_ClosedScheduler(t *testing.T) {
	a := t.TempDir()
	env := newTestEnv(t, domain.Configuration{Folders: []string{a}, IntervalSeconds: 60})
	require.NoError(t, env.scheduler.Shutdown())

	_, err := executeCommandContext(t, cancelledContext(), env.services(), "run")

	assert.ErrorIs(t, err, domain.ErrSchedulerClosed)
}
