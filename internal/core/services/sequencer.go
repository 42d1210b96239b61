package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
	"github.com/custodia-labs/gitsync/internal/core/ports/driving"
	"github.com/custodia-labs/gitsync/internal/logger"
)

// Ensure SyncSequencer implements the interface.
var _ driving.SyncSequencer = (*SyncSequencer)(nil)

// SyncSequencer runs fetch, status and a conditional pull for one folder.
type SyncSequencer struct {
	runner   driven.ProcessRunner
	auditLog driven.AuditLog
	notifier driven.Notifier
	git      string
}

// NewSyncSequencer creates a sequencer invoking the git executable named git.
// An empty name falls back to domain.DefaultGitExecutable.
// The notifier is optional.
func NewSyncSequencer(
	runner driven.ProcessRunner,
	auditLog driven.AuditLog,
	notifier driven.Notifier,
	git string,
) *SyncSequencer {
	if git == "" {
		git = domain.DefaultGitExecutable
	}
	return &SyncSequencer{
		runner:   runner,
		auditLog: auditLog,
		notifier: notifier,
		git:      git,
	}
}

// Run synchronises folder.
//
// The fetch stage repeats for as long as git reports a fatal error, with no
// delay and no attempt limit. ctx is checked before every fetch attempt and
// before every later stage; a git process that is already running is left
// to finish.
func (s *SyncSequencer) Run(ctx context.Context, folder string) (domain.SyncReport, error) {
	report := domain.SyncReport{Folder: folder}

	// 1. Fetch until stderr no longer reports a fatal error
	for {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("fetch %s: %w", folder, err)
		}

		report.FetchAttempts++
		out, err := s.exec(folder, domain.GitFetch)
		if err != nil {
			return report, err
		}
		if !domain.IsTransientFetchFailure(out.Stderr) {
			break
		}
		logger.Debug("fetch attempt %d for %s failed, retrying", report.FetchAttempts, folder)
	}

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("fetch %s: %w", folder, err)
	}
	s.notify(folder, domain.NotifyFetchSucceeded)

	// 2. Status, single attempt
	out, err := s.exec(folder, domain.GitStatus)
	if err != nil {
		return report, err
	}

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("status %s: %w", folder, err)
	}

	// 3. Pull only when status advises it
	if !domain.SuggestsPull(out.Stdout) {
		return report, nil
	}

	report.Pulled = true
	if _, err := s.exec(folder, domain.GitPull); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("pull %s: %w", folder, err)
	}
	s.notify(folder, domain.NotifyPullSucceeded)

	return report, nil
}

// exec runs one git subcommand in folder and records its output.
func (s *SyncSequencer) exec(folder, subcommand string) (domain.ProcessOutput, error) {
	out, err := s.runner.Run(folder, s.git, subcommand)
	if err != nil {
		s.record(domain.LogKindError, folder, err.Error())
		return out, fmt.Errorf("git %s: %w", subcommand, err)
	}

	s.record(domain.LogKindInfo, folder, out.Stdout)
	s.record(domain.LogKindError, folder, out.Stderr)
	return out, nil
}

// record appends to the audit log. A failing log never fails the run.
func (s *SyncSequencer) record(kind domain.LogKind, folder, body string) {
	if s.auditLog == nil || strings.TrimSpace(body) == "" {
		return
	}
	if err := s.auditLog.Append(domain.NewLogEntry(kind, folder, body)); err != nil {
		logger.Warn("audit log: %v", err)
	}
}

func (s *SyncSequencer) notify(folder, body string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(domain.NewNotification(folder, body))
}
