package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [folder]",
	Short: "Show recent folder runs",
	Long: `Lists the most recent folder runs, newest first.
If a folder is given, only its runs are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	history, err := requireHistory()
	if err != nil {
		return err
	}
	if historyLimit < 1 {
		return fmt.Errorf("invalid limit %d: must be at least 1", historyLimit)
	}

	folder := ""
	if len(args) == 1 {
		folder = filepath.Clean(args[0])
		if abs, err := filepath.Abs(folder); err == nil {
			folder = abs
		}
	}

	runs, err := history.ListRuns(cmd.Context(), folder, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tFOLDER\tOUTCOME\tFETCHES\tPULLED\tDURATION\tERROR")
	for _, run := range runs {
		pulled := "no"
		if run.Pulled {
			pulled = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			run.StartedAt.Local().Format(time.DateTime),
			run.Folder,
			run.Outcome,
			run.FetchAttempts,
			pulled,
			run.Duration().Round(time.Millisecond),
			run.Error,
		)
	}
	return w.Flush()
}
