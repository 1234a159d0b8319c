// Package hub fans out named events to every connected viewer.
//
// Delivery is best-effort and at-most-once: a slow or broken subscriber is
// skipped (and logged) without affecting delivery to the rest, nothing is
// queued for replay, and no ordering is guaranteed across event names.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event names broadcast by the system.
const (
	EventConnected         = "connected"
	EventPing              = "ping"
	EventQuestionCreated   = "question_created"
	EventGenerationStarted = "generation_started"
	EventAnswerPartial     = "answer_partial"
	EventAnswerCreated     = "answer_created"
)

// HeartbeatInterval is how often ping events are broadcast to keep
// underlying transports alive.
const HeartbeatInterval = 25 * time.Second

// subscriberBuffer is the per-subscriber channel capacity. A subscriber that
// falls this far behind starts losing events.
const subscriberBuffer = 64

// Event is one named broadcast with its serialized payload.
type Event struct {
	Name string
	Data json.RawMessage
}

// Hub maintains the live subscriber set.
// The zero value is not usable; call New.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan Event
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{subs: make(map[string]chan Event)}
}

// Subscribe registers a new subscriber and returns its connection id and
// event channel. A connected event carrying the id is already queued on the
// returned channel. The caller must Unsubscribe when the transport closes.
func (h *Hub) Subscribe() (string, <-chan Event) {
	id := uuid.NewString()
	ch := make(chan Event, subscriberBuffer)

	data, _ := json.Marshal(map[string]any{
		"clientId": id,
		"ts":       time.Now().UnixMilli(),
	})
	ch <- Event{Name: EventConnected, Data: data}

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	slog.Debug("hub: subscriber connected", "id", id)
	return id, ch
}

// Unsubscribe removes and closes a subscriber's channel.
// Unknown or already-removed ids are a no-op.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	ch, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()
	if ok {
		close(ch)
		slog.Debug("hub: subscriber disconnected", "id", id)
	}
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Broadcast serializes payload once and attempts delivery to every
// subscriber. Failures are isolated per subscriber and never propagate to
// the caller.
func (h *Hub) Broadcast(name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("hub: broadcast payload not serializable", "event", name, "error", err)
		return
	}
	ev := Event{Name: name, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		h.deliver(id, ch, ev)
	}
}

// deliver sends to one subscriber, absorbing both a full buffer and a send
// on a channel torn down mid-broadcast.
func (h *Hub) deliver(id string, ch chan Event, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("hub: dropping broken subscriber channel", "id", id, "event", ev.Name)
		}
	}()
	select {
	case ch <- ev:
	default:
		slog.Warn("hub: subscriber too slow, event dropped", "id", id, "event", ev.Name)
	}
}

// Run broadcasts heartbeat pings until ctx is cancelled. It is typically
// started once alongside the HTTP server.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Broadcast(EventPing, map[string]any{"ts": time.Now().UnixMilli()})
		}
	}
}
