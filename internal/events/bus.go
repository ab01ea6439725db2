// Package events is an in-process fan-out bus carrying light and bridge
// changes from the light manager to the WebSocket hub.
package events

import (
	"encoding/json"
	"slices"
	"sync"
	"time"
)

// EventType identifies the kind of event.
type EventType string

const (
	// Light events
	LightStateChanged EventType = "light.state_changed"
	LightDiscovered   EventType = "light.discovered"
	LightRemoved      EventType = "light.removed"

	// Bridge events
	BridgeConnected   EventType = "bridge.connected"
	BridgeUnreachable EventType = "bridge.unreachable"
	LightsRefreshed   EventType = "lights.refreshed"
)

// AllTypes lists every event type in publication order of a typical refresh
var AllTypes = []EventType{
	BridgeConnected, BridgeUnreachable, LightDiscovered, LightStateChanged, LightRemoved, LightsRefreshed,
}

// ParseType returns the EventType named s
func ParseType(s string) (EventType, bool) {
	t := EventType(s)
	return t, slices.Contains(AllTypes, t)
}

// Event is a single event emitted by a producer.
type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent creates an Event with data encoded as JSON. Data that cannot be
// encoded is sent as null.
func NewEvent(t EventType, data any) Event {
	raw, err := json.Marshal(data)
	if err != nil {
		raw = []byte("null")
	}
	return Event{Type: t, Timestamp: time.Now(), Data: raw}
}

// SubscriberFunc receives events. It runs on the publisher's goroutine and
// must not block.
type SubscriberFunc func(Event)

// Bus delivers every published event to all subscribers, synchronously.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]SubscriberFunc
	nextID uint64
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]SubscriberFunc)}
}

// Subscribe registers fn and returns a function that removes it again
func (b *Bus) Subscribe(fn SubscriberFunc) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// SubscribeTypes is Subscribe restricted to the given event types. No types
// means all of them.
func (b *Bus) SubscribeTypes(fn SubscriberFunc, types ...EventType) func() {
	if len(types) == 0 {
		return b.Subscribe(fn)
	}
	wanted := slices.Clone(types)
	return b.Subscribe(func(e Event) {
		if slices.Contains(wanted, e.Type) {
			fn(e)
		}
	})
}

// Len returns the number of subscribers
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish calls every subscriber with e. Subscribers are snapshotted first so
// they may unsubscribe from within the callback.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := make([]SubscriberFunc, 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}
