// Package events provides an in-process event bus for generation
// progress. Emit never blocks: subscribers with full buffers miss
// events rather than stalling the orchestrator.
package events

import (
	"context"
	"sync"

	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
	"github.com/custodia-labs/drafter-cli/internal/logger"
)

// Ensure Bus implements the interface.
var _ driven.EventSink = (*Bus)(nil)

// subscriberBuffer is the per-subscriber channel capacity. Content
// chunks arrive in bursts during drafting, so this is sized generously.
const subscriberBuffer = 256

// Bus fans generation events out to per-report subscribers.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]chan driven.Event
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]chan driven.Event),
	}
}

// Emit publishes an event to all subscribers of its report.
// Full subscriber buffers cause the event to be dropped for that
// subscriber only.
func (b *Bus) Emit(_ context.Context, ev driven.Event) {
	// Sends are non-blocking, so holding the lock here is cheap and
	// keeps Subscribe's cancel from closing a channel mid-send.
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[ev.ReportID] {
		select {
		case ch <- ev:
		default:
			logger.Debug("Dropping %s event for report %s: subscriber buffer full", ev.Type, ev.ReportID)
		}
	}
}

// Subscribe returns a channel of events for one report. The returned
// cancel function removes the subscription and closes the channel.
func (b *Bus) Subscribe(reportID string) (<-chan driven.Event, func()) {
	ch := make(chan driven.Event, subscriberBuffer)

	b.mu.Lock()
	b.subs[reportID] = append(b.subs[reportID], ch)
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			subs := b.subs[reportID]
			for i, sub := range subs {
				if sub == ch {
					b.subs[reportID] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
			if len(b.subs[reportID]) == 0 {
				delete(b.subs, reportID)
			}
			close(ch)
			b.mu.Unlock()
		})
	}
	return ch, cancel
}
