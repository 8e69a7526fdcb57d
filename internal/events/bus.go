// Package events carries live message events from the write path to
// connected subscribers. Delivery is at-most-once: nothing is buffered for
// absent or slow subscribers, clients reconcile through history fetches.
package events

import (
	"sync"
)

type Type string

const (
	TypeNewMessage  Type = "new_message"
	TypeMessageRead Type = "message_read"
)

type Event struct {
	Type Type `json:"type"`
	Data any  `json:"data"`
}

// Bus is the per-user publish/subscribe channel. Implementations are
// injected so a single-process bus can be swapped for a broker-backed one.
type Bus interface {
	// Publish emits ev on userID's channel. It never blocks; events with no
	// attached subscriber are dropped.
	Publish(userID string, ev Event)
	// Subscribe opens a channel for userID. The returned func removes the
	// subscription and closes the channel.
	Subscribe(userID string) (<-chan Event, func())
}

const subscriberBuffer = 64

// LocalBus is the in-process Bus. Correct for a single running instance;
// wrap it in a RedisRelay when deploying more than one.
type LocalBus struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[string]map[chan Event]struct{})}
}

func (b *LocalBus) Publish(userID string, ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[userID] {
		select {
		case ch <- ev:
		default:
			// subscriber too slow, drop
		}
	}
}

func (b *LocalBus) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if _, ok := b.subs[userID]; !ok {
		b.subs[userID] = make(map[chan Event]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if set, ok := b.subs[userID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(b.subs, userID)
				}
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
