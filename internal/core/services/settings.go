package services

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
	"github.com/custodia-labs/gitsync/internal/core/ports/driving"
)

// Ensure SettingsEditor implements the interface.
var _ driving.SettingsEditor = (*SettingsEditor)(nil)

// SettingsEditor keeps a draft configuration apart from the running one.
// Changes reach the scheduler only on Save.
type SettingsEditor struct {
	gateway   driven.ConfigurationGateway
	applier   driving.ConfigurationApplier
	dirExists func(path string) bool

	mu    sync.Mutex
	draft domain.Configuration
}

// NewSettingsEditor creates an editor whose draft starts as the saved configuration.
// When applier is nil, Save validates the draft and persists it through
// gateway; this is the case for commands that run without a scheduler.
func NewSettingsEditor(
	gateway driven.ConfigurationGateway,
	applier driving.ConfigurationApplier,
) (*SettingsEditor, error) {
	e := &SettingsEditor{
		gateway:   gateway,
		applier:   applier,
		dirExists: isDir,
	}
	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Draft returns a copy of the draft configuration.
func (e *SettingsEditor) Draft() domain.Configuration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Clone()
}

// AddFolder appends path to the draft.
// The path must be an existing directory that is not already listed.
func (e *SettingsEditor) AddFolder(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return &domain.ValidationError{Field: "folder", Err: domain.ErrEmptyFolderPath}
	}
	path = filepath.Clean(path)
	if !e.dirExists(path) {
		return &domain.ValidationError{Field: "folder", Value: path, Err: domain.ErrFolderNotFound}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft.Contains(path) {
		return &domain.ValidationError{Field: "folder", Value: path, Err: domain.ErrDuplicateFolder}
	}
	e.draft.Folders = append(e.draft.Folders, path)
	return nil
}

// RemoveFolder removes path from the draft.
func (e *SettingsEditor) RemoveFolder(path string) error {
	path = filepath.Clean(strings.TrimSpace(path))

	e.mu.Lock()
	defer e.mu.Unlock()

	idx := slices.Index(e.draft.Folders, path)
	if idx < 0 {
		return fmt.Errorf("folder %s: %w", path, domain.ErrNotFound)
	}
	e.draft.Folders = slices.Delete(e.draft.Folders, idx, idx+1)
	return nil
}

// SetInterval changes the draft poll interval.
func (e *SettingsEditor) SetInterval(seconds int) error {
	if err := domain.ValidateInterval(seconds); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.IntervalSeconds = seconds
	return nil
}

// Reset replaces the draft with the saved configuration.
func (e *SettingsEditor) Reset() error {
	cfg, err := e.gateway.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = cfg.Clone()
	return nil
}

// Save applies the draft. An invalid draft is rejected and kept for editing.
func (e *SettingsEditor) Save() error {
	draft := e.Draft()

	if e.applier != nil {
		return e.applier.ApplyConfiguration(draft)
	}

	if err := validateConfiguration(draft, e.dirExists); err != nil {
		return err
	}
	if err := e.gateway.Save(draft); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	return nil
}
