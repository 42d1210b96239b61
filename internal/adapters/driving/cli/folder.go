package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitsync/internal/core/domain"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage watched folders",
	Long: `Add, remove and list the git working copies gitsync watches.
Changes are saved to the config file; a running 'gitsync run' picks them up.`,
}

var folderAddCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Add folders to the watch list",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFolderAdd,
}

var folderRemoveCmd = &cobra.Command{
	Use:     "remove <path>...",
	Aliases: []string{"rm"},
	Short:   "Remove folders from the watch list",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runFolderRemove,
}

var folderListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List watched folders",
	Args:    cobra.NoArgs,
	RunE:    runFolderList,
}

func init() {
	folderCmd.AddCommand(folderAddCmd)
	folderCmd.AddCommand(folderRemoveCmd)
	folderCmd.AddCommand(folderListCmd)
	rootCmd.AddCommand(folderCmd)
}

func runFolderAdd(cmd *cobra.Command, args []string) error {
	editor, err := requireEditor()
	if err != nil {
		return err
	}

	added := make([]string, 0, len(args))
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", arg, err)
		}
		if err := editor.AddFolder(path); err != nil {
			return err
		}
		added = append(added, path)
	}

	if err := editor.Save(); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	for _, path := range added {
		cmd.Printf("Added folder: %s\n", path)
	}
	return nil
}

func runFolderRemove(cmd *cobra.Command, args []string) error {
	editor, err := requireEditor()
	if err != nil {
		return err
	}

	removed := make([]string, 0, len(args))
	for _, arg := range args {
		path, err := removeFolder(editor.RemoveFolder, arg)
		if err != nil {
			return err
		}
		removed = append(removed, path)
	}

	if err := editor.Save(); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	for _, path := range removed {
		cmd.Printf("Removed folder: %s\n", path)
	}
	return nil
}

// removeFolder removes arg as written, then as an absolute path.
func removeFolder(remove func(string) error, arg string) (string, error) {
	err := remove(arg)
	if err == nil {
		return filepath.Clean(arg), nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	abs, absErr := filepath.Abs(arg)
	if absErr != nil || abs == filepath.Clean(arg) {
		return "", err
	}
	if err := remove(abs); err != nil {
		return "", err
	}
	return abs, nil
}

func runFolderList(cmd *cobra.Command, _ []string) error {
	editor, err := requireEditor()
	if err != nil {
		return err
	}

	folders := editor.Draft().Folders
	if len(folders) == 0 {
		cmd.Println("No folders configured.")
		return nil
	}
	for i, folder := range folders {
		suffix := ""
		if info, err := os.Stat(folder); err != nil || !info.IsDir() {
			suffix = " (missing)"
		}
		cmd.Printf("%d. %s%s\n", i+1, folder, suffix)
	}
	return nil
}
