package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gitsync/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/gitsync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
	"github.com/custodia-labs/gitsync/internal/core/ports/driving"
)

// mockScheduler implements driving.WatchScheduler for testing.
type mockScheduler struct {
	mu         sync.Mutex
	status     domain.SchedulerStatus
	enabledArg []bool
	triggers   int
	roundID    string
	err        error
}

func (m *mockScheduler) ApplyConfiguration(cfg domain.Configuration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.Configuration = cfg
	return nil
}

func (m *mockScheduler) Trigger() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggers++
	if m.err != nil {
		return "", m.err
	}
	m.status.RoundID = m.roundID
	return m.roundID, nil
}

func (m *mockScheduler) SetEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabledArg = append(m.enabledArg, enabled)
	if m.err != nil {
		return m.err
	}
	m.status.Enabled = enabled
	return nil
}

func (m *mockScheduler) Shutdown() error { return nil }

func (m *mockScheduler) Status() domain.SchedulerStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *mockScheduler) Wait(context.Context) error { return nil }

var _ driving.WatchScheduler = (*mockScheduler)(nil)

// mockHistory implements driven.RunHistoryStore for testing.
type mockHistory struct {
	runs []domain.FolderRun
	err  error
}

func (m *mockHistory) RecordRun(_ context.Context, run domain.FolderRun) error {
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockHistory) ListRuns(_ context.Context, _ string, _ int) ([]domain.FolderRun, error) {
	return m.runs, m.err
}

func (m *mockHistory) PruneRuns(context.Context, int) error { return nil }

var _ driven.RunHistoryStore = (*mockHistory)(nil)

func newTestApp(t *testing.T, sched *mockScheduler) *App {
	t.Helper()
	app, err := NewApp(&Ports{Scheduler: sched, History: &mockHistory{}})
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	return app
}

func watchingStatus() domain.SchedulerStatus {
	return domain.SchedulerStatus{
		Enabled: true,
		Configuration: domain.Configuration{
			Folders:         []string{"/repo/a", "/repo/b"},
			IntervalSeconds: 60,
		},
		RoundID:     "0123456789abcdef",
		LiveFolders: []string{"/repo/b"},
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewApp_Success(t *testing.T) {
	sched := &mockScheduler{status: watchingStatus()}

	app, err := NewApp(&Ports{Scheduler: sched})

	require.NoError(t, err)
	assert.True(t, app.Status().Enabled, "initial status is read from the scheduler")
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingScheduler)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t, &mockScheduler{})

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t, &mockScheduler{})

	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Scheduler: &mockScheduler{}})
	require.NoError(t, err)

	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.True(t, app.Ready())
}

func TestApp_QuitKey(t *testing.T) {
	app := newTestApp(t, &mockScheduler{})

	_, cmd := app.Update(keyRune('q'))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_ToggleKey(t *testing.T) {
	sched := &mockScheduler{}
	app := newTestApp(t, sched)

	_, cmd := app.Update(keyRune('e'))
	require.NotNil(t, cmd)
	msg := cmd()

	require.IsType(t, messages.ToggleCompleted{}, msg)
	assert.True(t, msg.(messages.ToggleCompleted).Enabled)
	assert.Equal(t, []bool{true}, sched.enabledArg)

	_, cmd = app.Update(msg)
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.True(t, app.Status().Enabled)

	_, cmd = app.Update(keyRune('e'))
	cmd()
	assert.Equal(t, []bool{true, false}, sched.enabledArg)
}

func TestApp_ToggleError(t *testing.T) {
	sched := &mockScheduler{err: domain.ErrSchedulerClosed}
	app := newTestApp(t, sched)

	_, cmd := app.Update(keyRune('e'))
	app.Update(cmd())

	assert.ErrorIs(t, app.Err(), domain.ErrSchedulerClosed)
	assert.Equal(t, status.StateError, app.StatusBar().State())
}

func TestApp_TriggerKey(t *testing.T) {
	sched := &mockScheduler{status: watchingStatus(), roundID: "round-2"}
	app := newTestApp(t, sched)

	_, cmd := app.Update(keyRune('t'))
	msg := cmd()

	require.Equal(t, messages.TriggerCompleted{RoundID: "round-2"}, msg)
	assert.Equal(t, 1, sched.triggers)

	_, cmd = app.Update(msg)
	app.Update(cmd())
	assert.Equal(t, "round-2", app.Status().RoundID)
}

func TestApp_TriggerWithoutFolders(t *testing.T) {
	app := newTestApp(t, &mockScheduler{})

	app.Update(messages.TriggerCompleted{})

	assert.NoError(t, app.Err())
	assert.Equal(t, "no folder configured", app.StatusBar().Message())
}

func TestApp_HelpKeyTogglesFullHelp(t *testing.T) {
	app := newTestApp(t, &mockScheduler{})

	app.Update(keyRune('?'))
	assert.Contains(t, app.View(), "? help")

	app.Update(keyRune('?'))
	assert.NotContains(t, app.View(), "? help")
}

func TestApp_StatusRefreshedUpdatesBar(t *testing.T) {
	app := newTestApp(t, &mockScheduler{})

	tests := []struct {
		name    string
		status  domain.SchedulerStatus
		want    status.State
		message string
	}{
		{name: "disabled", status: domain.SchedulerStatus{}, want: status.StateIdle, message: "disabled"},
		{name: "syncing", status: watchingStatus(), want: status.StateSyncing, message: "1 running"},
		{
			name: "watching",
			status: domain.SchedulerStatus{
				Enabled:       true,
				Configuration: domain.Configuration{IntervalSeconds: 90},
			},
			want:    status.StateWatching,
			message: "every 1m30s",
		},
		{name: "closed", status: domain.SchedulerStatus{Closed: true}, want: status.StateIdle, message: "stopped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.Update(messages.StatusRefreshed{Status: tt.status})

			assert.Equal(t, tt.want, app.StatusBar().State())
			assert.Equal(t, tt.message, app.StatusBar().Message())
		})
	}
}

func TestApp_HistoryKeepsNewestRunPerFolder(t *testing.T) {
	app := newTestApp(t, &mockScheduler{})
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	app.Update(messages.HistoryLoaded{Runs: []domain.FolderRun{
		{ID: "1", Folder: "/repo/a", StartedAt: base, Outcome: domain.RunFailed},
		{ID: "2", Folder: "/repo/a", StartedAt: base.Add(time.Minute), Outcome: domain.RunSucceeded},
		{ID: "3", Folder: "/repo/b", StartedAt: base, Outcome: domain.RunCancelled},
	}})

	run, ok := app.LastRun("/repo/a")
	require.True(t, ok)
	assert.Equal(t, "2", run.ID)

	run, ok = app.LastRun("/repo/b")
	require.True(t, ok)
	assert.Equal(t, "3", run.ID)

	_, ok = app.LastRun("/repo/c")
	assert.False(t, ok)
}

func TestApp_HistoryError(t *testing.T) {
	app := newTestApp(t, &mockScheduler{})

	app.Update(messages.HistoryLoaded{Err: errors.New("database is locked")})

	require.Error(t, app.Err())
	assert.Contains(t, app.Err().Error(), "loading history")
	assert.Equal(t, status.StateError, app.StatusBar().State())
}

func TestApp_RefreshRequestedPollsScheduler(t *testing.T) {
	sched := &mockScheduler{}
	h := &mockHistory{runs: []domain.FolderRun{{ID: "r", Folder: "/repo/a", Outcome: domain.RunSucceeded}}}
	app, err := NewApp(&Ports{Scheduler: sched, History: h})
	require.NoError(t, err)

	sched.status = watchingStatus()
	cmd := app.refreshStatus()
	app.Update(cmd())
	app.Update(app.loadHistory()())

	assert.Equal(t, watchingStatus().RoundID, app.Status().RoundID)
	_, ok := app.LastRun("/repo/a")
	assert.True(t, ok)
}

func TestApp_LoadHistoryWithoutStore(t *testing.T) {
	app, err := NewApp(&Ports{Scheduler: &mockScheduler{}})
	require.NoError(t, err)

	assert.Nil(t, app.loadHistory())
}

func TestApp_Notifications(t *testing.T) {
	ch := make(chan domain.Notification, MaxNotifications+2)
	app, err := NewApp(&Ports{Scheduler: &mockScheduler{}, Notifications: ch})
	require.NoError(t, err)
	app.SetDimensions(120, 40)

	for i := 0; i < MaxNotifications+1; i++ {
		ch <- domain.NewNotification("/repo/a", domain.NotifyFetchSucceeded)
	}
	ch <- domain.NewNotification("/repo/b", domain.NotifyPullSucceeded)
	close(ch)

	cmd := app.waitForNotification()
	for cmd != nil {
		_, cmd = app.Update(cmd())
	}

	require.Len(t, app.Notifications(), MaxNotifications)
	assert.Equal(t, domain.NotifyPullSucceeded, app.Notifications()[0].Body, "newest first")
	assert.Nil(t, app.waitForNotification(), "closed stream is not read again")
	assert.Contains(t, app.View(), domain.NotifyPullSucceeded)
}

func TestApp_View(t *testing.T) {
	sched := &mockScheduler{status: watchingStatus()}
	app := newTestApp(t, sched)
	app.Update(messages.HistoryLoaded{Runs: []domain.FolderRun{{
		Folder:  "/repo/a",
		Outcome: domain.RunSucceeded,
		Pulled:  true,
		EndedAt: time.Now(),
	}}})

	view := app.View()

	assert.Contains(t, view, "gitsync")
	assert.Contains(t, view, "enabled")
	assert.Contains(t, view, "round 01234567")
	assert.Contains(t, view, "/repo/a")
	assert.Contains(t, view, "succeeded, pulled")
	assert.Contains(t, view, "syncing")
	assert.Contains(t, view, "Nothing yet.")
}

func TestApp_ViewWithoutFolders(t *testing.T) {
	app := newTestApp(t, &mockScheduler{})

	view := app.View()

	assert.Contains(t, view, "No folder configured")
	assert.Contains(t, view, "round none")
}

func TestApp_ViewNeverSynced(t *testing.T) {
	st := watchingStatus()
	st.LiveFolders = nil
	app := newTestApp(t, &mockScheduler{status: st})

	assert.Contains(t, app.View(), "never synced")
}

func TestRun_InvalidPorts(t *testing.T) {
	err := Run(context.Background(), &Ports{})

	assert.ErrorIs(t, err, ErrMissingScheduler)
}
