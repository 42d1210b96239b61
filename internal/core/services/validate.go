package services

import (
	"os"

	"github.com/custodia-labs/gitsync/internal/core/domain"
)

// validateConfiguration checks cfg structurally and that every folder is a directory.
func validateConfiguration(cfg domain.Configuration, dirExists func(string) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	for _, folder := range cfg.Folders {
		if !dirExists(folder) {
			return &domain.ValidationError{Field: "folders", Value: folder, Err: domain.ErrFolderNotFound}
		}
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
