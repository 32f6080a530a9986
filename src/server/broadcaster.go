package server

import (
	"fmt"
	"net/http"
	"slices"
	"sync"
)

// event is one Server-Sent Event; data must not contain newlines.
type event struct {
	name string
	data []byte
}

func (e event) writeTo(w http.ResponseWriter) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.name, e.data)
}

// broadcaster fans report events out to SSE subscribers and replays the
// latest one to every new subscriber.
type broadcaster struct {
	m       sync.Mutex
	latest  *event
	clients []chan event
}

func newBroadcaster() *broadcaster {
	return &broadcaster{
		clients: make([]chan event, 0),
	}
}

// subscribe registers a client and returns the event it has to catch up on.
func (b *broadcaster) subscribe() (chan event, *event) {
	ch := make(chan event, 1)

	b.m.Lock()
	defer b.m.Unlock()
	b.clients = append(b.clients, ch)

	return ch, b.latest
}

func (b *broadcaster) unsubscribe(ch chan event) {
	b.m.Lock()
	defer b.m.Unlock()

	b.clients = slices.DeleteFunc(b.clients, func(c chan event) bool { return c == ch })
}

func (b *broadcaster) count() int {
	b.m.Lock()
	defer b.m.Unlock()
	return len(b.clients)
}

// publish never blocks; a slow client keeps the event it has not read yet
// and misses this one, then catches up on its next reconnect.
func (b *broadcaster) publish(ev event) {
	b.m.Lock()
	defer b.m.Unlock()

	b.latest = &ev
	for _, ch := range b.clients {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, latest := b.subscribe()
	defer b.unsubscribe(ch)

	w.Write([]byte(":ok\n\n"))
	if latest != nil {
		latest.writeTo(w)
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			ev.writeTo(w)
			flusher.Flush()
		}
	}
}

var _ http.Handler = (*broadcaster)(nil)
