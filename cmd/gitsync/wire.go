package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/custodia-labs/gitsync/internal/adapters/driven/auditlog"
	"github.com/custodia-labs/gitsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/gitsync/internal/adapters/driven/notify"
	"github.com/custodia-labs/gitsync/internal/adapters/driven/process"
	"github.com/custodia-labs/gitsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/gitsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/gitsync/internal/adapters/driving/configwatch"
	"github.com/custodia-labs/gitsync/internal/core/services"
	"github.com/custodia-labs/gitsync/internal/logger"
)

// Console notifications are limited to consoleBurst at once, then one per consoleEvery.
const (
	consoleEvery = time.Second
	consoleBurst = 10
)

// buildServices wires the adapters and core services for one invocation.
func buildServices(opts cli.Options) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locating config directory: %w", err)
		}
		configDir = dir
	}

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	gateway := file.NewGateway(store)

	cfg, err := gateway.Load()
	if err != nil {
		return nil, err
	}

	db, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening run history: %w", err)
	}
	history := db.RunHistoryStore()

	logsDir := opts.LogsDir
	if logsDir == "" {
		logsDir = gateway.LogsDir(auditlog.DefaultDir())
	}
	audit := auditlog.NewDailyFile(logsDir)

	git := opts.Git
	if git == "" {
		git = gateway.GitExecutable()
	}

	hub := notify.NewHub(notify.DefaultBuffer)
	notifier := notify.Multi{
		notify.NewThrottled(notify.Console{}, consoleEvery, consoleBurst),
		hub,
	}

	sequencer := services.NewSyncSequencer(process.NewExecRunner(), audit, notifier, git)
	scheduler := services.NewWatchScheduler(cfg, sequencer, gateway, history)

	editor, err := services.NewSettingsEditor(gateway, nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	watcher := configwatch.New(gateway.Path(), gateway, scheduler, configwatch.DefaultDebounce)

	logger.Debug("config %s, history %s, audit log %s, git %s",
		gateway.Path(), db.Path(), logsDir, git)

	return &cli.Services{
		Scheduler:     scheduler,
		Editor:        editor,
		History:       history,
		AuditLog:      audit,
		Subscribe:     hub.Subscribe,
		WatchConfig:   watcher.Run,
		ConfigPath:    gateway.Path(),
		LogsDir:       logsDir,
		GitExecutable: git,
		Close: func() error {
			return errors.Join(audit.Close(), db.Close())
		},
	}, nil
}
