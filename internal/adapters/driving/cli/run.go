package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/gitsync/internal/adapters/driving/tui"
	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/logger"
)

var (
	runWithTUI     bool
	runDisabled    bool
	runNoWatchConf bool
)

// isTerminal reports whether stdout is a terminal. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// runTUI starts the monitor. Replaced in tests.
var runTUI = tui.Run

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch the configured folders",
	Long: `Starts watching the configured folders and keeps running until
interrupted. A round starts immediately, then once per interval.

With --tui an interactive monitor is shown:
  e - Enable or disable watching
  t - Sync now
  ? - Toggle help
  q - Quit

Edits of the config file made while running, for example with
'gitsync folder add', are picked up unless --no-watch-config is set.`,
	RunE: runWatch,
}

func init() {
	runCmd.Flags().BoolVar(&runWithTUI, "tui", false, "show the interactive monitor")
	runCmd.Flags().BoolVar(&runDisabled, "disabled", false, "start with watching disabled")
	runCmd.Flags().BoolVar(&runNoWatchConf, "no-watch-config", false, "ignore edits of the config file")
	rootCmd.AddCommand(runCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	scheduler, err := requireScheduler()
	if err != nil {
		return err
	}
	if runWithTUI && !isTerminal() {
		return errors.New("--tui requires a terminal")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger.SetTimestamps(true)
	defer logger.SetTimestamps(false)

	appendAudit("Application is running.")
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Warn("shutting down: %v", err)
		}
	}()

	if !runDisabled {
		if err := scheduler.SetEnabled(true); err != nil {
			if !errors.Is(err, domain.ErrEmptyFolderList) {
				return fmt.Errorf("enabling watch: %w", err)
			}
			logger.Warn("no folder configured, add one with 'gitsync folder add <path>'")
		}
	}

	if watch := services.WatchConfig; !runNoWatchConf && watch != nil {
		go func() {
			if err := watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watcher stopped: %v", err)
			}
		}()
	}

	if runWithTUI {
		ports := &tui.Ports{Scheduler: scheduler, History: services.History}
		if services.Subscribe != nil {
			ch, unsubscribe := services.Subscribe()
			defer unsubscribe()
			ports.Notifications = ch
		}
		// Diagnostics would corrupt the alternate screen.
		logger.SetOutput(io.Discard)
		defer logger.SetOutput(os.Stderr)
		if err := runTUI(ctx, ports); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	}

	status := scheduler.Status()
	cmd.Printf("Watching %d folder(s) every %s. Press Ctrl+C to stop.\n",
		len(status.Configuration.Folders), status.Configuration.Interval())
	<-ctx.Done()
	cmd.Println("Stopping.")
	return nil
}
