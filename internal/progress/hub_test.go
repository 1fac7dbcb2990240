package progress

import (
	"context"
	"sync"
	"testing"
	"time"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (c *captureSink) Consume(_ context.Context, batch []Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, batch...)
	return nil
}

func (c *captureSink) Close(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *captureSink) snapshot() ([]Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...), c.closed
}

func TestHubDeliversAllEventsOnClose(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	hub := NewHub(Config{MaxBatchWait: time.Hour}, sink) // flush only on close

	for i := 0; i < 10; i++ {
		hub.Emit(Event{Stage: StageJobStart, JobID: i})
	}
	if err := hub.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	events, closed := sink.snapshot()
	if len(events) != 10 {
		t.Fatalf("sink received %d events, want 10", len(events))
	}
	if !closed {
		t.Fatal("sink was not closed")
	}
}

func TestHubDropsInvalidEvents(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	hub := NewHub(Config{}, sink)
	hub.Emit(Event{Stage: "BOGUS", JobID: 1})
	hub.Emit(Event{Stage: StageJobDone, JobID: -1})
	if err := hub.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	events, _ := sink.snapshot()
	if len(events) != 0 {
		t.Fatalf("invalid events reached sink: %+v", events)
	}
}

func TestNilHubIsSafe(t *testing.T) {
	t.Parallel()

	var hub *Hub
	hub.Emit(Event{Stage: StageJobStart, JobID: 1})
	if err := hub.Close(context.Background()); err != nil {
		t.Fatalf("Close() on nil hub: %v", err)
	}
}

func TestHubEmitAfterCloseIsIgnored(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	hub := NewHub(Config{}, sink)
	if err := hub.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	hub.Emit(Event{Stage: StageJobStart, JobID: 1})

	events, _ := sink.snapshot()
	if len(events) != 0 {
		t.Fatalf("event emitted after close reached sink: %+v", events)
	}
}
