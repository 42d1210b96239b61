package notify

import (
	"bytes"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/logger"
)

// recorder implements driven.Notifier for testing.
type recorder struct {
	mu  sync.Mutex
	got []domain.Notification
}

func (r *recorder) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func TestConsole_WritesThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)

	Console{}.Notify(domain.NewNotification("/repo/a", domain.NotifyFetchSucceeded))
	failure := domain.NewNotification("/repo/b", "Git fetch failed.")
	failure.Severity = domain.SeverityError
	Console{}.Notify(failure)

	assert.Contains(t, buf.String(), "[INFO] GitSync: Git fetching successfully. (/repo/a)")
	assert.Contains(t, buf.String(), "[ERROR] GitSync: Git fetch failed. (/repo/b)")
}

func TestHub_BroadcastsToSubscribers(t *testing.T) {
	hub := NewHub(4)
	ch1, unsub1 := hub.Subscribe()
	ch2, unsub2 := hub.Subscribe()
	defer unsub1()
	defer unsub2()

	n := domain.NewNotification("/repo/a", domain.NotifyPullSucceeded)
	hub.Notify(n)

	assert.Equal(t, n, <-ch1)
	assert.Equal(t, n, <-ch2)
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub(1)
	ch, unsub := hub.Subscribe()
	defer unsub()

	hub.Notify(domain.NewNotification("/repo/a", "first"))
	hub.Notify(domain.NewNotification("/repo/a", "second"))

	assert.Equal(t, "first", (<-ch).Body)
	assert.Equal(t, uint64(1), hub.Dropped())
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(0)
	ch, unsub := hub.Subscribe()

	unsub()
	unsub()

	_, open := <-ch
	assert.False(t, open)

	// Notifying with no subscriber is fine
	hub.Notify(domain.NewNotification("/repo/a", "ignored"))
	assert.Equal(t, uint64(0), hub.Dropped())
}

func TestHub_NotifyNeverBlocks(t *testing.T) {
	hub := NewHub(1)
	_, unsub := hub.Subscribe()
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Notify(domain.NewNotification("/repo/a", "spam"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a slow subscriber")
	}
}

func TestThrottled_DropsAboveRate(t *testing.T) {
	next := &recorder{}
	throttled := NewThrottled(next, time.Hour, 2)

	for i := 0; i < 5; i++ {
		throttled.Notify(domain.NewNotification("/repo/a", domain.NotifyFetchSucceeded))
	}

	assert.Equal(t, 2, next.count())
}

func TestThrottled_ErrorsAlwaysPass(t *testing.T) {
	next := &recorder{}
	throttled := NewThrottled(next, time.Hour, 0)

	throttled.Notify(domain.NewNotification("/repo/a", "info"))
	for i := 0; i < 3; i++ {
		n := domain.NewNotification("/repo/a", "error")
		n.Severity = domain.SeverityError
		throttled.Notify(n)
	}

	assert.Equal(t, 4, next.count())
}

func TestMulti_DeliversToEverySink(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	multi := Multi{a, nil, b}

	multi.Notify(domain.NewNotification("/repo/a", "hello"))

	require.Equal(t, 1, a.count())
	require.Equal(t, 1, b.count())
	assert.Equal(t, "hello", b.got[0].Body)
}
