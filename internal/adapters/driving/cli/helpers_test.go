package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gitsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/gitsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
	"github.com/custodia-labs/gitsync/internal/core/ports/driving"
	coreservices "github.com/custodia-labs/gitsync/internal/core/services"
)

// fakeSequencer implements driving.SyncSequencer for testing.
type fakeSequencer struct {
	mu     sync.Mutex
	calls  []string
	pulled map[string]bool
	failed map[string]error
}

func (f *fakeSequencer) Run(_ context.Context, folder string) (domain.SyncReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, folder)
	report := domain.SyncReport{Folder: folder, FetchAttempts: 1, Pulled: f.pulled[folder]}
	return report, f.failed[folder]
}

var _ driving.SyncSequencer = (*fakeSequencer)(nil)

// recordingAudit implements driven.AuditLog for testing.
type recordingAudit struct {
	mu      sync.Mutex
	entries []domain.LogEntry
}

func (r *recordingAudit) Append(entry domain.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingAudit) bodies() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Body)
	}
	return out
}

var _ driven.AuditLog = (*recordingAudit)(nil)

// testEnv wires real services over in-memory adapters.
type testEnv struct {
	store     *memory.ConfigStore
	gateway   *file.Gateway
	history   *memory.RunHistoryStore
	sequencer *fakeSequencer
	scheduler *coreservices.WatchScheduler
	editor    *coreservices.SettingsEditor
	audit     *recordingAudit
}

func newTestEnv(t *testing.T, cfg domain.Configuration) *testEnv {
	t.Helper()

	store := memory.NewConfigStore()
	gateway := file.NewGateway(store)
	if len(cfg.Folders) > 0 {
		require.NoError(t, gateway.Save(cfg))
	}

	seq := &fakeSequencer{pulled: map[string]bool{}, failed: map[string]error{}}
	history := memory.NewRunHistoryStore()
	loaded, err := gateway.Load()
	require.NoError(t, err)
	scheduler := coreservices.NewWatchScheduler(loaded, seq, gateway, history)
	t.Cleanup(func() { _ = scheduler.Shutdown() })

	editor, err := coreservices.NewSettingsEditor(gateway, nil)
	require.NoError(t, err)

	return &testEnv{
		store:     store,
		gateway:   gateway,
		history:   history,
		sequencer: seq,
		scheduler: scheduler,
		editor:    editor,
		audit:     &recordingAudit{},
	}
}

func (e *testEnv) services() *Services {
	return &Services{
		Scheduler:     e.scheduler,
		Editor:        e.editor,
		History:       e.history,
		AuditLog:      e.audit,
		ConfigPath:    "/home/user/.gitsync/config.toml",
		LogsDir:       "/opt/gitsync/logs",
		GitExecutable: domain.DefaultGitExecutable,
	}
}

// resetFlags restores flag variables, which persist across Execute calls.
func resetFlags() {
	options = Options{}
	runWithTUI = false
	runDisabled = false
	runNoWatchConf = false
	historyLimit = 20
}

// executeCommand runs the root command with s as the services.
func executeCommand(t *testing.T, s *Services, args ...string) (string, error) {
	t.Helper()
	return executeCommandContext(t, context.Background(), s, args...)
}

func executeCommandContext(t *testing.T, ctx context.Context, s *Services, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	original := servicesFactory
	SetServicesFactory(func(Options) (*Services, error) { return s, nil })
	defer func() {
		servicesFactory = original
		_ = closeServices()
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}
