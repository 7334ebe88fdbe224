// Package sse streams the product change feed as Server-Sent Events, for
// clients that cannot open a WebSocket.
//
//	feed := sse.NewBroker()
//	feed.Subscribe(bus, services.EventProductCreated, services.EventProductDeleted)
//	router.Handle("/sse/produtos", "sse.produtos", feed)
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/estoque/pkg/logger"
)

// KeepAlive is how often an idle stream gets a comment line.
var KeepAlive = 25 * time.Second

const clientBuffer = 32

// Stream represents an active SSE connection to one client.
type Stream struct {
	w      http.ResponseWriter
	r      *http.Request
	rc     *http.ResponseController
	closed bool
}

// New creates an SSE stream and sets the required headers. Middleware
// writers are unwrapped to reach the flusher. Returns nil if none can flush.
func New(w http.ResponseWriter, r *http.Request) *Stream {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		logger.Error("sse: streaming not supported", "error", err)
		return nil
	}
	return &Stream{w: w, r: r, rc: rc}
}

// Send writes a named event whose data line is already encoded.
func (s *Stream) Send(event string, data []byte) error {
	if s.IsClosed() {
		return nil
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		s.closed = true
		return err
	}
	return s.rc.Flush()
}

// Comment writes an SSE comment line.
func (s *Stream) Comment(msg string) {
	if s.IsClosed() {
		return
	}
	fmt.Fprintf(s.w, ": %s\n\n", msg)
	_ = s.rc.Flush()
}

// IsClosed reports whether the client has disconnected.
func (s *Stream) IsClosed() bool {
	if s == nil {
		return true
	}
	select {
	case <-s.r.Context().Done():
		s.closed = true
	default:
	}
	return s.closed
}

// ─── Broker ───────────────────────────────────────────────────────────────────

type message struct {
	event string
	data  []byte
}

// Broker fans bus events out to every connected stream.
type Broker struct {
	mu      sync.Mutex
	clients map[chan message]struct{}
	done    chan struct{}
	once    sync.Once
}

func NewBroker() *Broker {
	return &Broker{
		clients: make(map[chan message]struct{}),
		done:    make(chan struct{}),
	}
}

// Listener is the subscription surface of an event bus.
type Listener interface {
	Listen(event string, handler func(payload interface{}))
}

// Subscribe relays every payload fired for events, JSON encoded, under the
// event's own name.
func (b *Broker) Subscribe(bus Listener, events ...string) {
	for _, name := range events {
		bus.Listen(name, func(payload interface{}) {
			data, err := json.Marshal(payload)
			if err != nil {
				logger.Error("sse: encode event", "event", name, "error", err)
				return
			}
			b.Publish(name, data)
		})
	}
}

// Publish queues one event for every client. Slow clients miss events
// rather than block the publisher.
func (b *Broker) Publish(event string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.clients {
		select {
		case ch <- message{event: event, data: data}:
		default:
			logger.Warn("sse: client buffer full, event dropped", "event", event)
		}
	}
}

// ClientCount returns the number of open streams.
func (b *Broker) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Stop ends every open stream.
func (b *Broker) Stop() {
	b.once.Do(func() { close(b.done) })
}

func (b *Broker) join() chan message {
	ch := make(chan message, clientBuffer)
	b.mu.Lock()
	b.clients[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) leave(ch chan message) {
	b.mu.Lock()
	delete(b.clients, ch)
	b.mu.Unlock()
}

// ServeHTTP holds the request open and streams events until the client
// goes away or the broker stops.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-b.done:
		http.Error(w, "feed closed", http.StatusServiceUnavailable)
		return
	default:
	}

	stream := New(w, r)
	if stream == nil {
		return
	}

	ch := b.join()
	defer b.leave(ch)

	ticker := time.NewTicker(KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-b.done:
			return
		case <-ticker.C:
			stream.Comment("keep-alive")
		case m := <-ch:
			if err := stream.Send(m.event, m.data); err != nil {
				return
			}
		}
	}
}
