package notify

import (
	"sync"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 32

// Ensure Hub implements the interface.
var _ driven.Notifier = (*Hub)(nil)

// Hub broadcasts notifications to subscribers.
// A subscriber whose buffer is full misses the notification.
type Hub struct {
	mu      sync.Mutex
	subs    map[int]chan domain.Notification
	next    int
	buffer  int
	dropped uint64
}

// NewHub creates a hub with buffer slots per subscriber.
// A non-positive buffer uses DefaultBuffer.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[int]chan domain.Notification),
		buffer: buffer,
	}
}

// Subscribe returns a channel of notifications and a function that
// unsubscribes and closes the channel. Calling it twice is safe.
func (h *Hub) Subscribe() (<-chan domain.Notification, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan domain.Notification, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// Notify delivers n to every subscriber without blocking.
func (h *Hub) Notify(n domain.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- n:
		default:
			h.dropped++
		}
	}
}

// Dropped returns how many deliveries were skipped because of full buffers.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}
