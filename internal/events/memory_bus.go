package events

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBus is an in-process Bus used by tests and single-node development.
// Dispatch is synchronous, which keeps ordering identical to publish order.
type MemoryBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]HandlerFunc
	all    map[int]HandlerFunc
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		subs: make(map[string]map[int]HandlerFunc),
		all:  make(map[int]HandlerFunc),
	}
}

func (b *MemoryBus) Publish(ctx context.Context, env Envelope) error {
	channels := ResolveChannels(env)
	if len(channels) == 0 {
		return fmt.Errorf("no channel for event type %q", env.Type)
	}

	b.mu.RLock()
	var handlers []HandlerFunc
	for _, channel := range channels {
		for _, fn := range b.subs[channel] {
			handlers = append(handlers, fn)
		}
	}
	for _, fn := range b.all {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		// Handler errors stay with the subscriber, as on the wire.
		_ = fn(ctx, env)
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, channel string, fn HandlerFunc) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[int]HandlerFunc)
	}
	b.subs[channel][id] = fn
	return &memorySubscription{bus: b, channel: channel, id: id}, nil
}

func (b *MemoryBus) SubscribeAll(ctx context.Context, fn HandlerFunc) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.all[id] = fn
	return &memorySubscription{bus: b, id: id, isAll: true}, nil
}

type memorySubscription struct {
	bus     *MemoryBus
	channel string
	id      int
	isAll   bool
}

func (s *memorySubscription) Close() error {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if s.isAll {
		delete(s.bus.all, s.id)
		return nil
	}
	if handlers, ok := s.bus.subs[s.channel]; ok {
		delete(handlers, s.id)
		if len(handlers) == 0 {
			delete(s.bus.subs, s.channel)
		}
	}
	return nil
}
