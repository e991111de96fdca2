package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingSubscriber struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (r *recordingSubscriber) Send(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingSubscriber) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingSubscriber) snapshot() ([]Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...), r.closed
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within 2s")
}

func TestBrokerDelivers(t *testing.T) {
	logger := zerolog.Nop()
	b := NewBroker(&logger)

	// Subscribing before Run must not block.
	sub := &recordingSubscriber{}
	b.Subscribe(sub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	eventually(t, func() bool { return b.SubscriberCount() == 1 })

	b.Publish(ItemCreated, "tools", map[string]string{"id": "1"})
	eventually(t, func() bool {
		events, _ := sub.snapshot()
		return len(events) == 1
	})

	events, _ := sub.snapshot()
	if events[0].Type != ItemCreated || events[0].Collection != "tools" {
		t.Errorf("unexpected event %+v", events[0])
	}
	if b.EventsPublished() != 1 {
		t.Errorf("expected 1 published, got %d", b.EventsPublished())
	}
}

func TestBrokerShutdownClosesSubscribers(t *testing.T) {
	logger := zerolog.Nop()
	b := NewBroker(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)

	subs := []*recordingSubscriber{{}, {}}
	for _, s := range subs {
		b.Subscribe(s)
	}
	eventually(t, func() bool { return b.SubscriberCount() == 2 })

	cancel()
	eventually(t, func() bool { return b.SubscriberCount() == 0 })
	for i, s := range subs {
		if _, closed := s.snapshot(); !closed {
			t.Errorf("subscriber %d not closed", i)
		}
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	logger := zerolog.Nop()
	b := NewBroker(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	sub := &recordingSubscriber{}
	b.Subscribe(sub)
	eventually(t, func() bool { return b.SubscriberCount() == 1 })

	b.Unsubscribe(sub)
	eventually(t, func() bool { return b.SubscriberCount() == 0 })
	if _, closed := sub.snapshot(); !closed {
		t.Error("expected unsubscribed subscriber to be closed")
	}
}

func TestBrokerDropsWhenFull(t *testing.T) {
	logger := zerolog.Nop()
	b := NewBroker(&logger)

	// Without Run nothing drains the queue.
	for i := 0; i < cap(b.events)+3; i++ {
		b.Publish(ItemViewed, "tools", nil)
	}
	if b.EventsDropped() != 3 {
		t.Errorf("expected 3 dropped, got %d", b.EventsDropped())
	}
	if b.QueueDepth() != cap(b.events) {
		t.Errorf("expected full queue, got %d", b.QueueDepth())
	}
}

func TestBrokerAfterShutdown(t *testing.T) {
	logger := zerolog.Nop()
	b := NewBroker(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	finished := make(chan struct{})
	late := &recordingSubscriber{}
	go func() {
		for i := 0; i < 25; i++ {
			b.Unsubscribe(&recordingSubscriber{})
		}
		b.Subscribe(late)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Subscribe or Unsubscribe blocked after shutdown")
	}
	if _, closed := late.snapshot(); !closed {
		t.Error("subscriber added after shutdown should be closed")
	}
}
