package events

import (
	"context"
	"errors"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe registers handler for eventType and returns a func that removes it.
	Subscribe(eventType EventType, handler EventHandler) (unsubscribe func())
	// SubscribeAll registers handler for every event type.
	SubscribeAll(handler EventHandler) (unsubscribe func())
}

type listener struct {
	id      uint64
	handler EventHandler
}

// inMemoryDispatcher is a simple synchronous dispatcher.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[EventType][]listener
	wildcard  []listener
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[EventType][]listener),
	}
}

// Publish synchronously invokes handlers for the given event in subscription order. Every
// handler runs; their errors are joined.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	targets := make([]listener, 0, len(d.listeners[event.Type])+len(d.wildcard))
	targets = append(targets, d.listeners[event.Type]...)
	targets = append(targets, d.wildcard...)
	d.mu.RUnlock()

	var errs []error
	for _, l := range targets {
		if err := l.handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.listeners[eventType] = append(d.listeners[eventType], listener{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.listeners[eventType] = without(d.listeners[eventType], id)
		})
	}
}

func (d *inMemoryDispatcher) SubscribeAll(handler EventHandler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.wildcard = append(d.wildcard, listener{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.wildcard = without(d.wildcard, id)
		})
	}
}

func without(list []listener, id uint64) []listener {
	out := make([]listener, 0, len(list))
	for _, l := range list {
		if l.id != id {
			out = append(out, l)
		}
	}
	return out
}
