package bus

import (
	"sync"
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("messages:c1", 10)
	defer unsub()

	n := b.Publish(Event{Topic: "messages:c1", Kind: KindInsert, Payload: "m1"})
	if n != 1 {
		t.Errorf("delivered to %d subscribers, want 1", n)
	}

	select {
	case evt := <-ch:
		if evt.Kind != KindInsert || evt.Payload != "m1" {
			t.Errorf("got %+v", evt)
		}
		if evt.Timestamp.IsZero() {
			t.Error("expected timestamp to be stamped")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestTopicFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("messages:c2", 10)
	defer unsub()

	b.Publish(Event{Topic: "messages:c1", Kind: KindInsert})
	b.Publish(Event{Topic: "messages:c2", Kind: KindDelete})

	select {
	case evt := <-ch:
		if evt.Topic != "messages:c2" {
			t.Errorf("got topic %q, want messages:c2", evt.Topic)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("messages:", 10)
	unsub()
	unsub() // second call is a no-op

	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed")
	}
	if n := b.Publish(Event{Topic: "messages:c1"}); n != 0 {
		t.Errorf("delivered to %d subscribers after unsubscribe", n)
	}
	if b.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", b.Subscribers())
	}
}

func TestLaggingSubscriberIsDropped(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("messages:", 1)
	defer unsub()

	b.Publish(Event{Topic: "messages:c1", Kind: KindInsert})
	// Buffer is full, so this drops the subscriber.
	b.Publish(Event{Topic: "messages:c1", Kind: KindUpdate})

	evt, ok := <-ch
	if !ok || evt.Kind != KindInsert {
		t.Fatalf("got %+v (ok=%v), want buffered INSERT", evt, ok)
	}
	if _, ok := <-ch; ok {
		t.Error("expected lagging subscription to be closed")
	}
}

func TestConcurrentPublish(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("messages:", 100)
	defer unsub()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish(Event{Topic: "messages:c1", Kind: KindInsert})
		}()
	}
	wg.Wait()

	if len(ch) != 50 {
		t.Errorf("buffered %d events, want 50", len(ch))
	}
}
