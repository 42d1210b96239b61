package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/logger"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise every folder once",
	Long: `Runs one round over the configured folders and waits for it to finish.
Each folder is fetched, checked with git status, and pulled when it is
behind its upstream.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	scheduler, err := requireScheduler()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	roundID, err := scheduler.Trigger()
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if roundID == "" {
		cmd.Println("No folder configured. Add one with 'gitsync folder add <path>'.")
		return nil
	}

	folders := scheduler.Status().Configuration.Folders
	cmd.Printf("Synchronising %d folder(s)...\n", len(folders))

	if err := scheduler.Wait(ctx); err != nil {
		return fmt.Errorf("sync interrupted: %w", err)
	}

	if services.History == nil {
		cmd.Println("Done.")
		return nil
	}
	runs, err := services.History.ListRuns(ctx, "", 2*len(folders))
	if err != nil {
		logger.Warn("reading run history: %v", err)
		cmd.Println("Done.")
		return nil
	}

	failed := 0
	for _, run := range runs {
		if run.RoundID != roundID {
			continue
		}
		cmd.Println(formatRun(run))
		if run.Outcome == domain.RunFailed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d folder(s) failed", failed)
	}
	return nil
}

// formatRun renders one run on a single line.
func formatRun(run domain.FolderRun) string {
	line := fmt.Sprintf("  %s: %s", run.Folder, run.Outcome)
	if run.Outcome == domain.RunSucceeded {
		action := "up to date"
		if run.Pulled {
			action = "pulled"
		}
		line += fmt.Sprintf(", %s after %d fetch attempt(s)", action, run.FetchAttempts)
	}
	if run.Error != "" {
		line += " (" + run.Error + ")"
	}
	return line
}
