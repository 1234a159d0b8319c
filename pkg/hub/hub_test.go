package hub

import (
	"encoding/json"
	"testing"
)

func TestSubscribeSendsConnected(t *testing.T) {
	h := New()
	id, ch := h.Subscribe()
	defer h.Unsubscribe(id)

	ev := <-ch
	if ev.Name != EventConnected {
		t.Fatalf("first event = %q, want %q", ev.Name, EventConnected)
	}
	var payload struct {
		ClientID string `json:"clientId"`
		TS       int64  `json:"ts"`
	}
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		t.Fatalf("connected payload: %v", err)
	}
	if payload.ClientID != id {
		t.Errorf("clientId = %q, want %q", payload.ClientID, id)
	}
	if payload.TS == 0 {
		t.Error("connected payload missing ts")
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	h := New()
	id1, ch1 := h.Subscribe()
	id2, ch2 := h.Subscribe()
	defer h.Unsubscribe(id1)
	defer h.Unsubscribe(id2)
	<-ch1
	<-ch2

	h.Broadcast(EventQuestionCreated, map[string]string{"id": "q1"})

	for _, ch := range []<-chan Event{ch1, ch2} {
		ev := <-ch
		if ev.Name != EventQuestionCreated {
			t.Fatalf("event = %q, want %q", ev.Name, EventQuestionCreated)
		}
		if string(ev.Data) != `{"id":"q1"}` {
			t.Fatalf("data = %s", ev.Data)
		}
	}
}

func TestBroadcastSurvivesBrokenSubscriber(t *testing.T) {
	h := New()
	bad, badCh := h.Subscribe()
	good, goodCh := h.Subscribe()
	defer h.Unsubscribe(good)
	<-badCh
	<-goodCh

	// Tear the channel down behind the hub's back so the next send panics.
	h.mu.Lock()
	close(h.subs[bad])
	h.mu.Unlock()

	h.Broadcast(EventPing, nil)

	select {
	case ev := <-goodCh:
		if ev.Name != EventPing {
			t.Fatalf("event = %q, want ping", ev.Name)
		}
	default:
		t.Fatal("healthy subscriber did not receive the broadcast")
	}

	h.mu.Lock()
	delete(h.subs, bad)
	h.mu.Unlock()
}

func TestBroadcastDropsWhenSubscriberFull(t *testing.T) {
	h := New()
	id, ch := h.Subscribe()
	defer h.Unsubscribe(id)

	// Fill the buffer without consuming (the connected event occupies one
	// slot already).
	for i := 0; i < subscriberBuffer; i++ {
		h.Broadcast(EventPing, i)
	}
	// One more must be dropped, not block the broadcaster.
	h.Broadcast(EventPing, "overflow")

	if got := len(ch); got != subscriberBuffer {
		t.Fatalf("buffered events = %d, want %d", got, subscriberBuffer)
	}
}

func TestUnsubscribeTwice(t *testing.T) {
	h := New()
	id, _ := h.Subscribe()
	h.Unsubscribe(id)
	h.Unsubscribe(id) // no panic, no-op

	if h.Len() != 0 {
		t.Fatalf("Len = %d, want 0", h.Len())
	}
}
