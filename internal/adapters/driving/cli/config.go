package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitsync/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the configuration",
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configIntervalCmd = &cobra.Command{
	Use:   "interval <seconds>",
	Short: "Set the poll interval",
	Long: fmt.Sprintf(`Sets the time between two rounds, in seconds.
The interval must be between %d and %d seconds.`,
		domain.MinIntervalSeconds, domain.MaxIntervalSeconds),
	Args: cobra.ExactArgs(1),
	RunE: runConfigInterval,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the poll interval to its default",
	Long: fmt.Sprintf(`Sets the poll interval back to its default of %d seconds and saves it.
The folder list is kept. This does not undo unsaved edits or restore an
earlier saved interval; use 'gitsync config interval' for a specific value.`, domain.DefaultIntervalSeconds),
	Args: cobra.NoArgs,
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configIntervalCmd)
	configCmd.AddCommand(configResetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	editor, err := requireEditor()
	if err != nil {
		return err
	}
	cfg := editor.Draft()

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()
	if services.ConfigPath != "" {
		cmd.Printf("  Config file: %s\n", services.ConfigPath)
	}
	if services.LogsDir != "" {
		cmd.Printf("  Audit logs:  %s\n", services.LogsDir)
	}
	if services.GitExecutable != "" {
		cmd.Printf("  Git:         %s\n", services.GitExecutable)
	}
	cmd.Printf("  Interval:    %s\n", cfg.Interval())
	cmd.Println()

	cmd.Println("[Folders]")
	if len(cfg.Folders) == 0 {
		cmd.Println("  (none)")
		return nil
	}
	for _, folder := range cfg.Folders {
		cmd.Printf("  %s\n", folder)
	}
	return nil
}

func runConfigInterval(cmd *cobra.Command, args []string) error {
	seconds, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid interval %q: must be a number of seconds", args[0])
	}
	return saveInterval(cmd, seconds)
}

func runConfigReset(cmd *cobra.Command, _ []string) error {
	return saveInterval(cmd, domain.DefaultIntervalSeconds)
}

func saveInterval(cmd *cobra.Command, seconds int) error {
	editor, err := requireEditor()
	if err != nil {
		return err
	}
	if err := editor.SetInterval(seconds); err != nil {
		return err
	}
	if err := editor.Save(); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	cmd.Printf("Poll interval set to %s.\n", editor.Draft().Interval())
	return nil
}
