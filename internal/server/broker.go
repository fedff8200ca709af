package server

import (
	"encoding/json"
	"sync"
)

// NotificationEvent is pushed to a user's open console tabs when their
// notification state changes.
type NotificationEvent struct {
	Type        string `json:"type"`
	UnreadCount int    `json:"unreadCount"`
	Message     string `json:"message,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Broker is an in-process pub/sub for SSE events, keyed by user ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the
// given user.
func (b *Broker) Subscribe(userID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan []byte]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the user's subscribers.
func (b *Broker) Unsubscribe(userID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[userID], ch)
	if len(b.subs[userID]) == 0 {
		delete(b.subs, userID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given user.
func (b *Broker) Publish(userID string, event NotificationEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[userID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
