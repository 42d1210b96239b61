package file

import (
	"fmt"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyFolders         = "watch.folders"
	KeyIntervalSeconds = "watch.interval_seconds"
	KeyGitExecutable   = "git.executable"
	KeyLogsDir         = "logs.dir"
)

// Ensure Gateway implements the interface.
var _ driven.ConfigurationGateway = (*Gateway)(nil)

// Gateway maps the watch configuration onto a ConfigStore.
// Keys it does not own are preserved across saves.
type Gateway struct {
	store driven.ConfigStore
}

// NewGateway creates a gateway over store.
func NewGateway(store driven.ConfigStore) *Gateway {
	return &Gateway{store: store}
}

// Load re-reads the store and returns the saved configuration.
// Missing keys take their default values; values are not validated.
func (g *Gateway) Load() (domain.Configuration, error) {
	if err := g.store.Load(); err != nil {
		return domain.Configuration{}, fmt.Errorf("reading %s: %w", g.store.Path(), err)
	}

	cfg := domain.DefaultConfiguration()
	if folders := g.store.GetStringSlice(KeyFolders); folders != nil {
		cfg.Folders = folders
	}
	if _, ok := g.store.Get(KeyIntervalSeconds); ok {
		cfg.IntervalSeconds = g.store.GetInt(KeyIntervalSeconds)
	}
	return cfg, nil
}

// Save persists cfg.
func (g *Gateway) Save(cfg domain.Configuration) error {
	folders := cfg.Clone().Folders
	if err := g.store.Set(KeyFolders, folders); err != nil {
		return err
	}
	if err := g.store.Set(KeyIntervalSeconds, cfg.IntervalSeconds); err != nil {
		return err
	}
	if err := g.store.Save(); err != nil {
		return fmt.Errorf("writing %s: %w", g.store.Path(), err)
	}
	return nil
}

// GitExecutable returns the configured git executable, or "git".
func (g *Gateway) GitExecutable() string {
	if git := g.store.GetString(KeyGitExecutable); git != "" {
		return git
	}
	return domain.DefaultGitExecutable
}

// LogsDir returns the configured audit log directory, or fallback.
func (g *Gateway) LogsDir(fallback string) string {
	if dir := g.store.GetString(KeyLogsDir); dir != "" {
		return dir
	}
	return fallback
}

// Path returns the configuration file path.
func (g *Gateway) Path() string {
	return g.store.Path()
}
