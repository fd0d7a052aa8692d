package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("load.", 10)
	defer unsub()

	if n := b.Publish(Event{Kind: KindLoadFolded, Timestamp: time.Now(), Payload: LoadStats{Records: 3}}); n != 1 {
		t.Errorf("delivered to %d subscribers, want 1", n)
	}

	select {
	case evt := <-ch:
		if evt.Kind != KindLoadFolded {
			t.Errorf("got kind %q, want %q", evt.Kind, KindLoadFolded)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("viewer.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindLoadStarted})
	b.Publish(Event{Kind: KindStatusChanged})

	select {
	case evt := <-ch:
		if evt.Kind != KindStatusChanged {
			t.Errorf("got kind %q, want %q", evt.Kind, KindStatusChanged)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	// Ensure the load event was not delivered.
	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFullSubscriberDoesNotBlockPublish(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("load.", 1)
	defer unsub()

	b.Publish(Event{Kind: KindLoadStarted})
	done := make(chan struct{})
	go func() {
		b.Publish(Event{Kind: KindLoadFolded})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	// Only the first event fit in the buffer; the second was counted as
	// dropped.
	evt := <-ch
	if evt.Kind != KindLoadStarted {
		t.Errorf("got kind %q, want %q", evt.Kind, KindLoadStarted)
	}
	if got := b.Dropped(); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("load.", 10)
	unsub()

	b.Publish(Event{Kind: KindLoadStarted})

	select {
	case evt := <-ch:
		t.Errorf("unexpected event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}
