// Package event is a small in-process publish/subscribe dispatcher.
package event

import (
	"sync"
)

// Handler receives an event payload.
type Handler = func(payload interface{})

// Bus holds listeners by event name. The zero value is not usable; call New.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func New() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

// Fire dispatches synchronously to every listener of event.
func (b *Bus) Fire(event string, payload interface{}) {
	for _, h := range b.listeners(event) {
		h(payload)
	}
}

// FireAsync dispatches each listener on its own goroutine and returns.
func (b *Bus) FireAsync(event string, payload interface{}) {
	for _, h := range b.listeners(event) {
		go h(payload)
	}
}

// Flush removes all listeners.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}

func (b *Bus) listeners(event string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	return hs
}
