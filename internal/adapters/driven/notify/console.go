package notify

import (
	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
	"github.com/custodia-labs/gitsync/internal/logger"
)

// Ensure Console implements the interface.
var _ driven.Notifier = Console{}

// Console writes notifications to the diagnostic log.
type Console struct{}

// Notify logs n at the level matching its severity.
func (Console) Notify(n domain.Notification) {
	switch n.Severity {
	case domain.SeverityError:
		logger.Error("%s: %s (%s)", n.Title, n.Body, n.Folder)
	case domain.SeverityWarning:
		logger.Warn("%s: %s (%s)", n.Title, n.Body, n.Folder)
	default:
		logger.Info("%s: %s (%s)", n.Title, n.Body, n.Folder)
	}
}
