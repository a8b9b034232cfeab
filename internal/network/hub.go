package network

import (
	"ecosystem-server/pkg/api"
	"ecosystem-server/pkg/logger"
	"ecosystem-server/pkg/utils"
	"sync"
)

// Broadcaster only fans tick reports out to subscribers.
// Subscribers are grouped by the ecosystem they watch.
type Broadcaster struct {
	mu sync.RWMutex
	// ecosystemID -> subscriptionID -> channel
	subscribers map[string]map[string]chan api.TickReport
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]map[string]chan api.TickReport),
	}
}

// Register opens a channel for one watcher of the ecosystem.
func (b *Broadcaster) Register(ecosystemID string) (string, chan api.TickReport) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.subscribers[ecosystemID]
	if !ok {
		subs = make(map[string]chan api.TickReport)
		b.subscribers[ecosystemID] = subs
	}

	id := utils.GenerateID()
	ch := make(chan api.TickReport, 100)
	subs[id] = ch
	return id, ch
}

// Unregister closes the watcher's channel.
func (b *Broadcaster) Unregister(ecosystemID, subscriptionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.subscribers[ecosystemID]
	if !ok {
		return
	}
	if ch, ok := subs[subscriptionID]; ok {
		close(ch)
		delete(subs, subscriptionID)
	}
	if len(subs) == 0 {
		delete(b.subscribers, ecosystemID)
	}
}

// Publish sends the report to every watcher of its ecosystem.
// Slow watchers miss reports instead of blocking the simulation.
func (b *Broadcaster) Publish(msg api.TickReport) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers[msg.EcosystemID] {
		select {
		case ch <- msg:
		default:
			logger.Log.WithField("subscription", id).Warn("Hub: channel full, report dropped")
		}
	}
}

// HasSubscriber reports whether anybody watches the ecosystem.
func (b *Broadcaster) HasSubscriber(ecosystemID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[ecosystemID]) > 0
}

// SubscriberCount returns the number of open subscriptions.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, subs := range b.subscribers {
		n += len(subs)
	}
	return n
}
