package notify

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
	"github.com/custodia-labs/gitsync/internal/logger"
)

// Ensure Throttled implements the interface.
var _ driven.Notifier = (*Throttled)(nil)

// Throttled forwards notifications at most at a given rate.
// Errors always pass through; other notifications above the rate are dropped.
type Throttled struct {
	next    driven.Notifier
	limiter *rate.Limiter
}

// NewThrottled allows burst notifications at once and one per every afterwards.
func NewThrottled(next driven.Notifier, every time.Duration, burst int) *Throttled {
	if burst < 1 {
		burst = 1
	}
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(every), burst),
	}
}

// Notify forwards n unless the rate is exceeded.
func (t *Throttled) Notify(n domain.Notification) {
	if n.Severity != domain.SeverityError && !t.limiter.Allow() {
		logger.Debug("notification dropped: %s (%s)", n.Body, n.Folder)
		return
	}
	t.next.Notify(n)
}
