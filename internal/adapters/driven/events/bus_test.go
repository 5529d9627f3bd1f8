package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
)

func TestBus_EmitAndSubscribe(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe("report-1")
	defer cancel()

	bus.Emit(context.Background(), driven.Event{
		ReportID: "report-1",
		Type:     driven.EventSectionStart,
		SectionID: "sec-01",
	})

	select {
	case ev := <-ch:
		assert.Equal(t, driven.EventSectionStart, ev.Type)
		assert.Equal(t, "sec-01", ev.SectionID)
	case <-time.After(time.Second):
		t.Fatal("expected event")
	}
}

func TestBus_IgnoresOtherReports(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe("report-1")
	defer cancel()

	bus.Emit(context.Background(), driven.Event{
		ReportID: "report-2",
		Type:     driven.EventComplete,
	})

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus()
	ch1, cancel1 := bus.Subscribe("report-1")
	defer cancel1()
	ch2, cancel2 := bus.Subscribe("report-1")
	defer cancel2()

	bus.Emit(context.Background(), driven.Event{
		ReportID: "report-1",
		Type:     driven.EventContentChunk,
		Content:  "draft text",
	})

	for _, ch := range []<-chan driven.Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, "draft text", ev.Content)
		case <-time.After(time.Second):
			t.Fatal("expected event on all subscribers")
		}
	}
}

func TestBus_EmitDoesNotBlockOnFullBuffer(t *testing.T) {
	bus := NewBus()
	_, cancel := bus.Subscribe("report-1")
	defer cancel()

	// Overfill the buffer; Emit must return promptly every time.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			bus.Emit(context.Background(), driven.Event{
				ReportID: "report-1",
				Type:     driven.EventContentChunk,
			})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a slow subscriber")
	}
}

func TestBus_CancelClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe("report-1")

	cancel()

	_, open := <-ch
	require.False(t, open)

	// Emitting after cancel must not panic.
	bus.Emit(context.Background(), driven.Event{ReportID: "report-1", Type: driven.EventComplete})

	// Cancel is idempotent.
	cancel()
}
