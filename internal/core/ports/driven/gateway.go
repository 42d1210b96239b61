package driven

import "github.com/custodia-labs/gitsync/internal/core/domain"

// ConfigurationGateway persists the watch configuration.
type ConfigurationGateway interface {
	// Load reads the saved configuration.
	// Returns domain.DefaultConfiguration() when nothing has been saved.
	Load() (domain.Configuration, error)

	// Save persists cfg.
	Save(cfg domain.Configuration) error
}
