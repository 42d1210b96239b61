package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
	"github.com/custodia-labs/gitsync/internal/core/ports/driving"
	"github.com/custodia-labs/gitsync/internal/logger"
)

// version is set at build time.
var version = "dev"

// skipServicesAnnotation marks commands that run without the core.
const skipServicesAnnotation = "gitsync/skip-services"

// Options holds the global flags.
type Options struct {
	// ConfigDir holds config.toml and the data directory.
	ConfigDir string

	// LogsDir overrides the audit log directory.
	LogsDir string

	// Git overrides the git executable.
	Git string

	// Verbose enables debug logging.
	Verbose bool
}

// Services is what commands need from the core.
type Services struct {
	Scheduler driving.WatchScheduler
	Editor    driving.SettingsEditor
	History   driven.RunHistoryStore
	AuditLog  driven.AuditLog

	// Subscribe opens a notification stream. Optional.
	Subscribe func() (<-chan domain.Notification, func())

	// WatchConfig follows edits of the config file until ctx is done. Optional.
	WatchConfig func(ctx context.Context) error

	// ConfigPath is the config file location, for display.
	ConfigPath string

	// LogsDir is the audit log directory, for display.
	LogsDir string

	// GitExecutable is the git binary in use, for display.
	GitExecutable string

	// Close releases resources. Optional.
	Close func() error
}

// ServicesFactory builds the services for one invocation.
type ServicesFactory func(opts Options) (*Services, error)

var (
	options         Options
	servicesFactory ServicesFactory
	services        *Services
)

var rootCmd = &cobra.Command{
	Use:   "gitsync",
	Short: "Keep git working copies up to date",
	Long: `gitsync watches a list of git working copies. Every interval it runs
git fetch in each of them, then git status, and git pull when the working
copy is behind its upstream. Git output is written to a daily audit log.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.ConfigDir, "config-dir", "", "configuration directory (default ~/.gitsync)")
	flags.StringVar(&options.LogsDir, "logs-dir", "", "audit log directory (default logs next to the executable)")
	flags.StringVar(&options.Git, "git", "", "git executable (default git)")
	flags.BoolVarP(&options.Verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServicesFactory sets the function that builds the services.
func SetServicesFactory(factory ServicesFactory) {
	servicesFactory = factory
}

// Execute runs the root command and releases the services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeServices(); cerr != nil {
		logger.Warn("closing: %v", cerr)
	}
	return err
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(options.Verbose)

	if skipServices(cmd) {
		return nil
	}
	if servicesFactory == nil {
		return errors.New("services not configured")
	}
	if err := closeServices(); err != nil {
		logger.Warn("closing previous services: %v", err)
	}

	s, err := servicesFactory(options)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	services = s
	return nil
}

// skipServices reports whether cmd, or a command it belongs to, runs without the core.
func skipServices(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[skipServicesAnnotation]; ok {
			return true
		}
		if c.Name() == "help" || c.Name() == "completion" {
			return true
		}
	}
	return false
}

func closeServices() error {
	s := services
	services = nil
	if s == nil || s.Close == nil {
		return nil
	}
	return s.Close()
}

func requireScheduler() (driving.WatchScheduler, error) {
	if services == nil || services.Scheduler == nil {
		return nil, errors.New("scheduler not configured")
	}
	return services.Scheduler, nil
}

func requireEditor() (driving.SettingsEditor, error) {
	if services == nil || services.Editor == nil {
		return nil, errors.New("settings editor not configured")
	}
	return services.Editor, nil
}

func requireHistory() (driven.RunHistoryStore, error) {
	if services == nil || services.History == nil {
		return nil, errors.New("run history not configured")
	}
	return services.History, nil
}

// appendAudit writes an App entry to the audit log, if there is one.
func appendAudit(body string) {
	if services == nil || services.AuditLog == nil {
		return
	}
	if err := services.AuditLog.Append(domain.NewLogEntry(domain.LogKindApp, "", body)); err != nil {
		logger.Warn("audit log: %v", err)
	}
}
