package notify

import (
	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
)

// Ensure Multi implements the interface.
var _ driven.Notifier = Multi(nil)

// Multi delivers each notification to every sink in order.
type Multi []driven.Notifier

// Notify forwards n to every non-nil sink.
func (m Multi) Notify(n domain.Notification) {
	for _, sink := range m {
		if sink != nil {
			sink.Notify(n)
		}
	}
}
